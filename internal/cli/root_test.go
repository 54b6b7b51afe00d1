package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, name := range []string{"render", "preview", "serve", "showcases", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootDescribesPointerAttraction(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, text := range []string{root.Short, root.Long} {
		if strings.Contains(strings.ToLower(text), "drag") {
			t.Errorf("root help mentions dragging, which bubbles do not support: %q", text)
		}
	}
	if !strings.Contains(root.Short, "pointer") {
		t.Errorf("Short = %q, want it to mention the pointer", root.Short)
	}
}

func TestVerboseSetsDebugLevel(t *testing.T) {
	tests := []struct {
		args []string
		want log.Level
	}{
		{[]string{"showcases"}, log.InfoLevel},
		{[]string{"showcases", "-v"}, log.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var logs bytes.Buffer
			c := New(&logs, LogInfo)
			root := c.command()
			root.SetArgs(tt.args)
			root.SetOut(&bytes.Buffer{})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if got := c.Logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.command()
	root.SetArgs([]string{"bogus"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("unknown command succeeded")
	}
}
