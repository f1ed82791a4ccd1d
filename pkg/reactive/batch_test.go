package reactive

import "testing"

func TestBatchDeliversOneConsistentNotification(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	open := NewSignal(false)
	anchor := NewSignal("")

	var seen []string
	WithOwner(owner, func() {
		pair := NewMemo(func() string {
			if open.Get() {
				return "open:" + anchor.Get()
			}
			return "closed:" + anchor.Get()
		})
		CreateEffect(func() Cleanup {
			seen = append(seen, pair.Get())
			return nil
		})
	})

	Batch(func() {
		open.Set(true)
		anchor.Set("a")
	})
	owner.RunPendingEffects()

	want := []string{"closed:", "open:a"}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], seen[i])
		}
	}
}

func TestNestedBatch(t *testing.T) {
	s := NewSignal(0)
	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = s.Get()
		runs++
		return nil
	})
	defer e.Dispose()

	Batch(func() {
		s.Set(1)
		Batch(func() {
			s.Set(2)
		})
		if runs != 1 {
			t.Errorf("inner batch must not flush, got %d runs", runs)
		}
		s.Set(3)
	})

	if runs != 2 {
		t.Errorf("expected exactly one re-run after the outer batch, got %d", runs)
	}
}

func TestUntracked(t *testing.T) {
	s := NewSignal(0)
	runs := 0
	e := CreateEffect(func() Cleanup {
		Untracked(func() { _ = s.Get() })
		runs++
		return nil
	})
	defer e.Dispose()

	s.Set(1)
	if runs != 1 {
		t.Errorf("untracked read must not subscribe, got %d runs", runs)
	}
}
