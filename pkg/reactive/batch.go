package reactive

// Batch groups signal writes into one notification phase. Listeners
// notified inside fn are deduplicated and marked dirty once, when the
// outermost batch returns, so derived values never observe a partial
// update.
//
//	reactive.Batch(func() {
//	    open.Set(false)
//	    anchor.Set(nil)
//	})
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			flushPendingUpdates(ctx)
		}
	}()

	fn()
}

// flushPendingUpdates notifies queued listeners until the queue stays
// empty. Memos recomputed here may queue further listeners only if a new
// batch opens, so one drain normally suffices.
func flushPendingUpdates(ctx *trackingContext) {
	for len(ctx.pendingUpdates) > 0 {
		updates := ctx.pendingUpdates
		ctx.pendingUpdates = nil

		seen := make(map[uint64]struct{}, len(updates))
		for _, l := range updates {
			id := l.ID()
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			l.MarkDirty()
		}
	}
}
