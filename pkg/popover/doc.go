// Package popover implements the behaviour of a toggleable overlay anchored
// to a trigger element.
//
// A Popover coordinates four parts that share one open state:
//
//	p := popover.New(
//	    popover.WithPlacement(floating.BottomStart),
//	    popover.WithHost(loop),
//	    popover.WithPositioner(floating.NewEngine(doc)),
//	)
//	defer p.Dispose()
//
//	p.Trigger.Bind(button)   // click toggles, aria attributes follow state
//	p.Content.Bind(panel)    // hidden while closed, positioned while open
//	p.Arrow.Bind(arrow)      // static arrow styling
//	p.Close.Bind(closeBtn)   // click closes
//
// Open is also exposed for programmatic control:
//
//	p.Open.Set(true)
//
// Every transition commits the open flag and the active trigger together,
// then runs the effects that depend on them: attribute updates, the
// positioning lifecycle and focus restoration.
package popover
