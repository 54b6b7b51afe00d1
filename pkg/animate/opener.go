package animate

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/drpeachy/tagbubbles/pkg/errors"
)

// Opener opens an action target, the equivalent of following a link in a
// new tab.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// BrowserOpener opens URLs with the platform's default handler.
type BrowserOpener struct{}

// Open validates url and hands it to xdg-open, open, or rundll32.
func (BrowserOpener) Open(ctx context.Context, url string) error {
	if err := errors.ValidateURL(url); err != nil {
		return err
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// RecordingOpener records every URL instead of opening it.
type RecordingOpener struct {
	mu   sync.Mutex
	urls []string
}

// Open records url.
func (o *RecordingOpener) Open(_ context.Context, url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
	return nil
}

// Opened returns the recorded URLs in order.
func (o *RecordingOpener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.urls...)
}

// NopOpener discards every request.
type NopOpener struct{}

func (NopOpener) Open(context.Context, string) error { return nil }
