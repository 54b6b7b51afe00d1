package cli

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/drpeachy/tagbubbles/pkg/animate"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "preview <showcase>",
		Short: "Run a showcase live in the terminal",
		Long: `Preview mounts a showcase in the terminal. Moving the mouse draws the
bubbles toward it, clicking the action bubble opens its target in the browser,
r reshuffles the layout and q quits.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeShowcases(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], seed)
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 keeps the showcase seed)")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, name string, seed uint64) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := cfg.Showcase(name)
	if err != nil {
		return err
	}
	ec := cfg.EngineConfig(s)
	if seed != 0 {
		ec.Seed = seed
	}

	sched := animate.NewManualScheduler(time.Now())
	comp, err := animate.NewComponent(ec, sched, animate.WithOpener(animate.BrowserOpener{}))
	if err != nil {
		return err
	}
	host := animate.NewEventHost()
	if err := comp.Mount(host); err != nil {
		return err
	}
	defer comp.Unmount()

	model := NewPreviewModel(ctx, s.Name, comp, sched, host)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	return nil
}
