// Package taskruntimetest is the single-threaded runtime entry point used
// by tests: it resets the shared queue, runs the test body, and drains
// synchronously so assertions never race a still-running background task.
// This mirrors the source project's single-threaded #[test] runtime macro.
package taskruntimetest

import "github.com/periph-dev/boardkit/task"

// Run executes fn then drains the task queue before returning.
func Run(fn func()) {
	task.Reset()
	task.Main(fn)
}
