// Package animate drives a [bubbles.Engine] the way a browser drives an
// animated widget: one frame callback rescheduled after every frame,
// listeners attached to a host element, and cleanup on unmount.
//
// A [Component] owns exactly one engine. It is mounted onto a [Host], which
// delivers pointer and resize events, and advanced by a [Scheduler], which
// invokes frame callbacks. All engine mutation happens inside the frame
// callback. Host events are queued and applied at the start of the next
// frame, and every frame publishes an immutable [bubbles.Frame] snapshot that
// readers can take at any time with [Component.Frame].
//
// Two schedulers are provided. [TickerScheduler] runs callbacks on its own
// goroutine at a fixed rate and is used by the terminal preview and the HTTP
// server. [ManualScheduler] only runs callbacks when advanced explicitly,
// which makes lifecycle properties (no callbacks after unmount, no duplicate
// loops after replace) directly countable in tests.
//
// # Usage
//
//	sched := animate.NewTickerScheduler(ctx, animate.DefaultFrameInterval)
//	defer sched.Stop()
//
//	host := animate.NewEventHost()
//	c, err := animate.NewComponent(cfg, sched, animate.WithOpener(animate.BrowserOpener{}))
//	if err != nil {
//	    return err
//	}
//	if err := c.Mount(host); err != nil {
//	    return err
//	}
//	defer c.Unmount()
//
//	host.Dispatch(animate.Event{Kind: animate.PointerMove, X: 120, Y: 80})
package animate
