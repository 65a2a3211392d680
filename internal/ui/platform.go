package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// copyToClipboardFn is the active clipboard implementation. Tests replace it
// via StubPlatformActions.
var copyToClipboardFn = copyToClipboardImpl

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// StubPlatformActions replaces the clipboard with a no-op and returns a
// restore function.
func StubPlatformActions() (restore func()) {
	return StubClipboard(func(string) error { return nil })
}

// StubClipboard replaces the clipboard with fn and returns a restore
// function.
func StubClipboard(fn func(string) error) (restore func()) {
	orig := copyToClipboardFn
	copyToClipboardFn = fn
	return func() { copyToClipboardFn = orig }
}

// clipboardCommand picks the clipboard program for the platform.
func clipboardCommand(ctx context.Context, goos string, lookPath func(string) (string, error)) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.CommandContext(ctx, "pbcopy"), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		if _, err := lookPath("wl-copy"); err == nil {
			return exec.CommandContext(ctx, "wl-copy"), nil
		}
		if _, err := lookPath("xclip"); err == nil {
			return exec.CommandContext(ctx, "xclip", "-selection", "clipboard"), nil
		}
		if _, err := lookPath("xsel"); err == nil {
			return exec.CommandContext(ctx, "xsel", "--clipboard", "--input"), nil
		}
		return nil, fmt.Errorf("no clipboard command found (install xclip, xsel, or wl-clipboard)")
	case "windows":
		return exec.CommandContext(ctx, "clip"), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func copyToClipboardImpl(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd, err := clipboardCommand(ctx, runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	_, _ = stdin.Write([]byte(text))
	_ = stdin.Close()
	return cmd.Wait()
}
