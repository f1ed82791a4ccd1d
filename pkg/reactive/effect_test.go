package reactive

import "testing"

func TestEffectRunsOnCreate(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	ran := false
	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			ran = true
			return nil
		})
	})

	if !ran {
		t.Error("effect should run immediately on creation")
	}
}

func TestEffectWaitsForRunPendingEffects(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	count := NewSignal(0)
	runs := 0
	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})

	count.Set(1)
	if runs != 1 {
		t.Errorf("owned effect must not run before the flush, got %d runs", runs)
	}
	if !owner.HasPendingEffects() {
		t.Error("expected a pending effect")
	}

	owner.RunPendingEffects()
	if runs != 2 {
		t.Errorf("expected 2 runs after flush, got %d", runs)
	}
	if owner.HasPendingEffects() {
		t.Error("no effects should be pending after flush")
	}
}

func TestEffectCleanupOrder(t *testing.T) {
	owner := NewOwner(nil)
	s := NewSignal(0)

	var log []string
	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			v := s.Get()
			log = append(log, "run")
			return func() {
				_ = v
				log = append(log, "cleanup")
			}
		})
	})

	s.Set(1)
	owner.RunPendingEffects()
	owner.Dispose()

	want := []string{"run", "cleanup", "run", "cleanup"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], log[i])
		}
	}
}

func TestEffectDisposeIdempotent(t *testing.T) {
	cleanups := 0
	e := CreateEffect(func() Cleanup {
		return func() { cleanups++ }
	})

	e.Dispose()
	e.Dispose()
	if cleanups != 1 {
		t.Errorf("expected cleanup to run once, got %d", cleanups)
	}
}

func TestOwnerDisposeRunsCleanupsInReverse(t *testing.T) {
	owner := NewOwner(nil)
	child := NewOwner(owner)

	var order []string
	owner.OnCleanup(func() { order = append(order, "parent-1") })
	owner.OnCleanup(func() { order = append(order, "parent-2") })
	child.OnCleanup(func() { order = append(order, "child") })

	owner.Dispose()
	owner.Dispose()

	want := []string{"child", "parent-2", "parent-1"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], order[i])
		}
	}

	late := false
	owner.OnCleanup(func() { late = true })
	if !late {
		t.Error("cleanup registered after dispose should run immediately")
	}
}
