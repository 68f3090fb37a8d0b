package digitalout

import (
	"sync"
	"testing"

	"github.com/periph-dev/boardkit/iofacade"
)

type fakeIO struct {
	mu      sync.Mutex
	written map[uint16]bool
	modes   map[uint16]iofacade.PinMode
}

func newFakeIO() *fakeIO {
	return &fakeIO{written: map[uint16]bool{}, modes: map[uint16]iofacade.PinMode{}}
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
func (f *fakeIO) DigitalWrite(pin uint16, level bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written[pin] = level
	return nil
}
func (f *fakeIO) AnalogRead(uint16) (uint16, error)        { return 0, nil }
func (f *fakeIO) AnalogWrite(uint16, uint16) error         { return nil }
func (f *fakeIO) ServoConfig(uint16, uint16, uint16) error { return nil }
func (f *fakeIO) I2CConfig(uint16) error                   { return nil }
func (f *fakeIO) I2CRead(uint16, uint8) ([]byte, error)     { return nil, nil }
func (f *fakeIO) I2CWrite(uint16, []byte) error             { return nil }
func (f *fakeIO) ReportAnalog(uint8, bool) error            { return nil }
func (f *fakeIO) ReportDigital(uint16, bool) error          { return nil }
func (f *fakeIO) SamplingInterval(uint16) error             { return nil }

func (f *fakeIO) lastWrite(pin uint16) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written[pin]
}

func TestNewSetsOutputModeAndDefault(t *testing.T) {
	io := newFakeIO()
	d, err := New(io, 13, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if io.modes[13] != iofacade.ModeOutput {
		t.Fatalf("pin mode = %v, want output", io.modes[13])
	}
	if !d.IsHigh() {
		t.Fatal("expected default state HIGH")
	}
	if !io.lastWrite(13) {
		t.Fatal("expected default write HIGH")
	}
}

func TestTurnOnOffToggle(t *testing.T) {
	io := newFakeIO()
	d, _ := New(io, 13, false)

	if err := d.TurnOn(); err != nil {
		t.Fatalf("TurnOn: %v", err)
	}
	if !io.lastWrite(13) {
		t.Fatal("TurnOn should write HIGH")
	}

	if err := d.TurnOff(); err != nil {
		t.Fatalf("TurnOff: %v", err)
	}
	if io.lastWrite(13) {
		t.Fatal("TurnOff should write LOW")
	}

	if err := d.Toggle(); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !d.IsHigh() {
		t.Fatal("expected Toggle from LOW to turn HIGH")
	}
}
