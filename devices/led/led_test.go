package led

import (
	"sync"
	"testing"
	"time"

	"github.com/periph-dev/boardkit/iofacade"
	"github.com/periph-dev/boardkit/task/taskruntimetest"
)

type fakeIO struct {
	mu      sync.Mutex
	written map[uint16]uint16
	modes   map[uint16]iofacade.PinMode
}

func newFakeIO() *fakeIO {
	return &fakeIO{written: map[uint16]uint16{}, modes: map[uint16]iofacade.PinMode{}}
}

func (f *fakeIO) Open() error               { return nil }
func (f *fakeIO) Close() error               { return nil }
func (f *fakeIO) IsConnected() bool          { return true }
func (f *fakeIO) SetPinMode(pin uint16, mode iofacade.PinMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes[pin] = mode
	return nil
}
func (f *fakeIO) DigitalRead(uint16) (uint16, error) { return 0, nil }
func (f *fakeIO) DigitalWrite(uint16, bool) error    { return nil }
func (f *fakeIO) AnalogRead(uint16) (uint16, error)  { return 0, nil }
func (f *fakeIO) AnalogWrite(pin uint16, value uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written[pin] = value
	return nil
}
func (f *fakeIO) ServoConfig(uint16, uint16, uint16) error { return nil }
func (f *fakeIO) I2CConfig(uint16) error                   { return nil }
func (f *fakeIO) I2CRead(uint16, uint8) ([]byte, error)    { return nil, nil }
func (f *fakeIO) I2CWrite(uint16, []byte) error            { return nil }
func (f *fakeIO) ReportAnalog(uint8, bool) error           { return nil }
func (f *fakeIO) ReportDigital(uint16, bool) error         { return nil }
func (f *fakeIO) SamplingInterval(uint16) error            { return nil }

func (f *fakeIO) lastWrite(pin uint16) uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written[pin]
}

func TestNewSetsModeAndDefault(t *testing.T) {
	io := newFakeIO()
	l, err := New(io, 9, true, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if io.modes[9] != iofacade.ModePWM {
		t.Fatalf("pin mode = %v, want PWM", io.modes[9])
	}
	if io.lastWrite(9) != FullBrightness {
		t.Fatalf("default write = %d, want %d", io.lastWrite(9), FullBrightness)
	}
	if !l.IsOn() {
		t.Fatal("expected LED to start on given default=true")
	}
}

func TestTurnOnOffToggle(t *testing.T) {
	io := newFakeIO()
	l, _ := New(io, 9, true, false)

	if err := l.TurnOn(); err != nil {
		t.Fatalf("TurnOn: %v", err)
	}
	if io.lastWrite(9) != FullBrightness {
		t.Fatalf("TurnOn wrote %d, want %d", io.lastWrite(9), FullBrightness)
	}

	if err := l.TurnOff(); err != nil {
		t.Fatalf("TurnOff: %v", err)
	}
	if io.lastWrite(9) != 0 {
		t.Fatalf("TurnOff wrote %d, want 0", io.lastWrite(9))
	}

	if err := l.Toggle(); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !l.IsOn() {
		t.Fatal("expected Toggle from off to turn on")
	}
}

func TestBlinkLoopsUntilStopped(t *testing.T) {
	taskruntimetest.Run(func() {
		io := newFakeIO()
		l, _ := New(io, 9, false, false)
		l.Blink(20)
		time.Sleep(60 * time.Millisecond)
		if !l.IsBusy() {
			t.Fatal("expected Blink to still be running")
		}
		l.Stop()
		time.Sleep(20 * time.Millisecond)
		if l.IsBusy() {
			t.Fatal("expected Stop to end the blink animation")
		}
	})
}
