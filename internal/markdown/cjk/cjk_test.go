package cjk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutospace(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"latin word", "在LeanCloud上，數據儲存是圍繞AVObject進行的。", "在 LeanCloud 上，數據儲存是圍繞 AVObject 進行的。"},
		{"digits", "今天出去買菜花了5000元。", "今天出去買菜花了 5000 元。"},
		{"already spaced", "在 LeanCloud 上", "在 LeanCloud 上"},
		{"ascii only", "Hello World 123", "Hello World 123"},
		{"cjk only", "你好世界", "你好世界"},
		{"full-width punctuation untouched", "剛剛買了一部iPhone，好開心", "剛剛買了一部 iPhone，好開心"},
		{"hyphenated", "每個AVObject都包含了與JSON兼容的key-value對應的數據。數據是schema-free的", "每個 AVObject 都包含了與 JSON 兼容的 key-value 對應的數據。數據是 schema-free 的"},
		{"kana", "これはGoです", "これは Go です"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Autospace(tc.in))
		})
	}
}

func TestAutospaceIsIdempotent(t *testing.T) {
	inputs := []string{"使用GitHub登錄", "a你b好c", "3個蘋果和2個橘子"}
	for _, in := range inputs {
		once := Autospace(in)
		assert.Equal(t, once, Autospace(once), in)
	}
}

func TestAutospaceSkipsNouns(t *testing.T) {
	assert.Equal(t, "我最愛的產品是簡書和豆瓣FM，你呢？",
		Autospace("我最愛的產品是簡書和豆瓣FM，你呢？", "豆瓣FM"))
	assert.Equal(t, "我用豆瓣FM和QQ音乐聽歌",
		Autospace("我用豆瓣FM和QQ音乐聽歌", "豆瓣FM", "QQ音乐"))
	assert.Equal(t, "使用 GitHub 登錄", Autospace("使用GitHub登錄"))
	assert.Equal(t, "使用 GitHub 登錄", Autospace("使用GitHub登錄", "豆瓣FM", ""))
}

func TestNormalizePunctuation(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"comma", "你好,世界", "你好，世界"},
		{"dedupe full-width", "德國隊竟然戰勝了巴西隊！！", "德國隊竟然戰勝了巴西隊！"},
		{"dedupe half-width", "太好了!!!", "太好了！"},
		{"parentheses", "核磁共振成像(NMRI)是什麼", "核磁共振成像（NMRI）是什麼"},
		{"mixed terminators", "她竟然對你說「喵」??!!", "她竟然對你說「喵」？！"},
		{"ascii untouched", "Hello, world!", "Hello, world!"},
		{"already correct", "你好，世界！", "你好，世界！"},
		{"context resets after terminator", "好。Then, ok.", "好。Then, ok."},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizePunctuation(tc.in))
		})
	}
}

func TestIsCJK(t *testing.T) {
	assert.True(t, IsCJK('中'))
	assert.True(t, IsCJK('。'))
	assert.True(t, IsCJK('ア'))
	assert.False(t, IsCJK('a'))
	assert.True(t, IsIdeograph('ㇰ'))
	assert.False(t, IsIdeograph('，'))
}
