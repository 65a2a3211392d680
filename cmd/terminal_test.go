package cmd

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTerminalDeviceNames(t *testing.T) {
	in, out := terminalDeviceNames("windows")
	assert.Equal(t, "CONIN$", in)
	assert.Equal(t, "CONOUT$", out)

	in, out = terminalDeviceNames("linux")
	assert.Equal(t, "/dev/tty", in)
	assert.Equal(t, "/dev/tty", out)
}

func TestResolveSnapshotSize(t *testing.T) {
	orig := termGetSize
	t.Cleanup(func() { termGetSize = orig })
	t.Setenv("COLUMNS", "")

	termGetSize = func(int) (int, int, error) { return 0, 0, errors.New("not a terminal") }
	w, h := resolveSnapshotSize(0, 0)
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	w, h = resolveSnapshotSize(120, 0)
	assert.Equal(t, 120, w)
	assert.Equal(t, 24, h)

	termGetSize = func(int) (int, int, error) { return 132, 50, nil }
	w, h = resolveSnapshotSize(0, 0)
	assert.Equal(t, 132, w)
	assert.Equal(t, 50, h)

	w, h = resolveSnapshotSize(90, 20)
	assert.Equal(t, 90, w)
	assert.Equal(t, 20, h)
}

func TestGetProgramOptionsWithoutPipe(t *testing.T) {
	orig := stdinIsPiped
	t.Cleanup(func() { stdinIsPiped = orig })
	stdinIsPiped = func() bool { return false }

	opts, cleanup := getProgramOptions()
	assert.Nil(t, opts)
	cleanup()
}

func TestGetProgramOptionsFallsBackWithoutTTY(t *testing.T) {
	origPiped, origOpen := stdinIsPiped, openTerminalIOFn
	t.Cleanup(func() {
		stdinIsPiped = origPiped
		openTerminalIOFn = origOpen
	})
	stdinIsPiped = func() bool { return true }
	openTerminalIOFn = func() (*os.File, *os.File, error) { return nil, nil, errors.New("no tty") }

	opts, cleanup := getProgramOptions()
	assert.Nil(t, opts)
	cleanup()
}

func TestGetProgramOptionsReopensTTY(t *testing.T) {
	origPiped, origOpen := stdinIsPiped, openTerminalIOFn
	t.Cleanup(func() {
		stdinIsPiped = origPiped
		openTerminalIOFn = origOpen
	})
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	stdinIsPiped = func() bool { return true }
	openTerminalIOFn = func() (*os.File, *os.File, error) { return r, w, nil }

	opts, cleanup := getProgramOptions()
	assert.Len(t, opts, 4)
	cleanup()
	if _, err := w.Write([]byte("x")); err == nil {
		t.Fatal("cleanup should close the terminal files")
	}
}

type fakeTicker struct{ ch chan time.Time }

func (f fakeTicker) C() <-chan time.Time { return f.ch }
func (f fakeTicker) Stop()               {}

func TestWithTTYResizeWatcherStopsOnCancel(t *testing.T) {
	origTicker, origSize := newResizeTicker, termGetSize
	t.Cleanup(func() {
		newResizeTicker = origTicker
		termGetSize = origSize
	})
	ticks := make(chan time.Time)
	newResizeTicker = func(time.Duration) resizeTicker { return fakeTicker{ch: ticks} }
	polled := make(chan struct{}, 4)
	termGetSize = func(int) (int, int, error) {
		polled <- struct{}{}
		return 0, 0, errors.New("gone")
	}

	ctx, cancel := context.WithCancel(context.Background())
	f, err := os.CreateTemp(t.TempDir(), "tty")
	if err != nil {
		t.Fatalf("temp: %v", err)
	}
	defer f.Close()

	withTTYResizeWatcher(ctx, f)(nil)
	ticks <- time.Now()
	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("watcher did not poll the terminal size")
	}
	cancel()
}
