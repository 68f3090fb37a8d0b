package event

import (
	"sync"
	"testing"
	"time"

	"github.com/periph-dev/boardkit/task/taskruntimetest"
)

func TestOnReceivesMatchingPayload(t *testing.T) {
	taskruntimetest.Run(func() {
		b := New()
		var mu sync.Mutex
		var got string
		On(b, "ready", func(msg string) {
			mu.Lock()
			got = msg
			mu.Unlock()
		})
		b.Emit("ready", "hello")
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		if got != "hello" {
			t.Fatalf("got %q, want %q", got, "hello")
		}
	})
}

func TestOnSkipsMismatchedPayloadType(t *testing.T) {
	taskruntimetest.Run(func() {
		b := New()
		called := false
		On(b, "topic", func(n int) {
			called = true
		})
		b.Emit("topic", "not an int")
		time.Sleep(10 * time.Millisecond)
		if called {
			t.Fatal("handler should not run for mismatched payload type")
		}
	})
}

func TestUnregisterStopsFutureDelivery(t *testing.T) {
	taskruntimetest.Run(func() {
		b := New()
		count := 0
		var mu sync.Mutex
		h := On(b, "x", func(int) {
			mu.Lock()
			count++
			mu.Unlock()
		})
		b.Emit("x", 1)
		time.Sleep(10 * time.Millisecond)
		b.Unregister(h)
		b.Emit("x", 2)
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		if count != 1 {
			t.Fatalf("count = %d, want 1", count)
		}
	})
}

func TestMultipleHandlersAllReceive(t *testing.T) {
	taskruntimetest.Run(func() {
		b := New()
		var mu sync.Mutex
		var a, c int
		On(b, "t", func(int) {
			mu.Lock()
			a++
			mu.Unlock()
		})
		On(b, "t", func(int) {
			mu.Lock()
			c++
			mu.Unlock()
		})
		b.Emit("t", 1)
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		if a != 1 || c != 1 {
			t.Fatalf("a=%d c=%d, want 1,1", a, c)
		}
	})
}
