package analogin

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/periph-dev/boardkit/iofacade"
	"github.com/periph-dev/boardkit/task/taskruntimetest"
)

type fakeIO struct {
	mu     sync.Mutex
	modes  map[uint16]iofacade.PinMode
	analog map[uint16]uint16
}

func newFakeIO() *fakeIO {
	return &fakeIO{modes: map[uint16]iofacade.PinMode{}, analog: map[uint16]uint16{}}
}

func (f *fakeIO) Open() error       { return nil }
func (f *fakeIO) Close() error      { return nil }
func (f *fakeIO) IsConnected() bool { return true }
func (f *fakeIO) SetPinMode(pin uint16, mode iofacade.PinMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes[pin] = mode
	return nil
}
func (f *fakeIO) DigitalRead(uint16) (uint16, error) { return 0, nil }
func (f *fakeIO) DigitalWrite(uint16, bool) error    { return nil }
func (f *fakeIO) AnalogRead(pin uint16) (uint16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analog[pin], nil
}
func (f *fakeIO) AnalogWrite(uint16, uint16) error         { return nil }
func (f *fakeIO) ServoConfig(uint16, uint16, uint16) error { return nil }
func (f *fakeIO) I2CConfig(uint16) error                   { return nil }
func (f *fakeIO) I2CRead(uint16, uint8) ([]byte, error)     { return nil, nil }
func (f *fakeIO) I2CWrite(uint16, []byte) error             { return nil }
func (f *fakeIO) ReportAnalog(uint8, bool) error            { return nil }
func (f *fakeIO) ReportDigital(uint16, bool) error          { return nil }
func (f *fakeIO) SamplingInterval(uint16) error             { return nil }

func (f *fakeIO) setAnalog(pin, v uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analog[pin] = v
}

func TestNewSetsAnalogModeAndInitialState(t *testing.T) {
	taskruntimetest.Run(func() {
		io := newFakeIO()
		io.setAnalog(0, 512)
		a, err := New(io, 0)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if io.modes[0] != iofacade.ModeAnalog {
			t.Fatalf("pin mode = %v, want analog", io.modes[0])
		}
		if a.GetState().AsInteger() != 512 {
			t.Fatalf("state = %d, want 512", a.GetState().AsInteger())
		}
		a.Detach()
	})
}

func TestChangeEventFiresOnNewReading(t *testing.T) {
	taskruntimetest.Run(func() {
		io := newFakeIO()
		a, _ := New(io, 0)

		var got atomic.Uint64
		a.On(EventChange, func(v uint16) { got.Store(uint64(v)) })

		io.setAnalog(0, 777)
		time.Sleep(300 * time.Millisecond)
		if got.Load() != 777 {
			t.Fatalf("change event value = %d, want 777", got.Load())
		}
		a.Detach()
	})
}

func TestDetachStopsPolling(t *testing.T) {
	taskruntimetest.Run(func() {
		io := newFakeIO()
		a, _ := New(io, 0)
		a.Detach()

		var fired atomic.Bool
		a.On(EventChange, func(uint16) { fired.Store(true) })

		io.setAnalog(0, 999)
		time.Sleep(250 * time.Millisecond)
		if fired.Load() {
			t.Fatal("expected no change event after Detach")
		}
	})
}
