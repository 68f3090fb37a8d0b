package task

import (
	"context"
	"errors"
	"testing"
)

func TestMainWaitsForSpawnedTask(t *testing.T) {
	Reset()
	ran := false
	Main(func() {
		Run(func(ctx context.Context) error {
			ran = true
			return nil
		})
	})
	if !ran {
		t.Fatal("Main returned before the spawned task ran")
	}
}

func TestMainDrainsTransitivelySpawnedTasks(t *testing.T) {
	Reset()
	grandchildRan := false
	Main(func() {
		Run(func(ctx context.Context) error {
			Run(func(ctx context.Context) error {
				grandchildRan = true
				return nil
			})
			return nil
		})
	})
	if !grandchildRan {
		t.Fatal("Main returned before a transitively spawned task ran")
	}
}

func TestErroringTaskDoesNotAbortSiblings(t *testing.T) {
	Reset()
	siblingRan := false
	Main(func() {
		Run(func(ctx context.Context) error {
			return errors.New("boom")
		})
		Run(func(ctx context.Context) error {
			siblingRan = true
			return nil
		})
	})
	if !siblingRan {
		t.Fatal("a failing task should not prevent its sibling from completing")
	}
}

func TestAbortCancelsContext(t *testing.T) {
	Reset()
	var observedDone bool
	h := Run(func(ctx context.Context) error {
		<-ctx.Done()
		observedDone = true
		return ctx.Err()
	})
	h.Abort()
	h.Wait()
	if !observedDone {
		t.Fatal("task did not observe context cancellation")
	}
}
