// Package reactive provides the signal, memo and effect primitives the
// popover core is built on.
//
// Dependencies are tracked automatically: reading a Signal or Memo while a
// Memo computes or an Effect runs subscribes that listener to the value.
//
//	open := reactive.NewSignal(false)
//	state := reactive.NewMemo(func() string {
//	    if open.Get() {
//	        return "open"
//	    }
//	    return "closed"
//	})
//
// Memos recompute eagerly when a dependency changes and cache the result
// until the next change. Effects are queued on their Owner and run by
// Owner.RunPendingEffects, after the mutation that dirtied them has
// finished propagating.
//
// # Batching
//
// Batch delays notifications until the outermost batch returns, so several
// signals can change as one logical transition:
//
//	reactive.Batch(func() {
//	    open.Set(true)
//	    anchor.Set(el)
//	})
//
// # Thread Safety
//
// Primitives are safe for concurrent use. The tracking context is per
// goroutine; a popover instance is expected to be driven from a single
// goroutine (its host loop).
package reactive
