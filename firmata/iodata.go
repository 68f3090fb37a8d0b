package firmata

import (
	"sync"

	"github.com/periph-dev/boardkit/ioerrors"
)

// I2CReply is one inbound I2C reply frame, appended by the codec and
// consumed by I2CRead callers.
type I2CReply struct {
	Address  uint16
	Register uint16
	Data     []uint16
}

// IoData is the whole observable board state, guarded by a shared-read,
// exclusive-write lock: many concurrent readers (devices polling pin
// values), one writer at a time (inbound dispatch or an outbound op).
type IoData struct {
	mu sync.RWMutex

	pins                   map[uint16]*Pin
	i2cReplies             []I2CReply
	digitalReportedPins    map[uint16]bool
	analogReportedChannels map[uint8]bool

	protocolVersion string
	firmwareName    string
	firmwareVersion string
	connected       bool
}

func newIoData() *IoData {
	return &IoData{
		pins:                   make(map[uint16]*Pin),
		digitalReportedPins:    make(map[uint16]bool),
		analogReportedChannels: make(map[uint8]bool),
	}
}

// GetPin looks a pin up by numeric id.
func (d *IoData) GetPin(id uint16) (*Pin, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.pins[id]
	if !ok {
		return nil, ioerrors.NewUnknownPin(digitalName(id))
	}
	return p, nil
}

// GetPinByName looks a pin up by its canonical name ("D3", "A0", ...).
func (d *IoData) GetPinByName(name string) (*Pin, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.pins {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, ioerrors.NewUnknownPin(name)
}

// Connected reports whether the handshake has completed.
func (d *IoData) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// FirmwareVersion and FirmwareName report handshake metadata.
func (d *IoData) FirmwareVersion() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.firmwareVersion
}

func (d *IoData) FirmwareName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.firmwareName
}

// LastI2CReply returns the most recently appended I2C reply, if any.
func (d *IoData) LastI2CReply() (I2CReply, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.i2cReplies) == 0 {
		return I2CReply{}, false
	}
	return d.i2cReplies[len(d.i2cReplies)-1], true
}

// pinCount exposes the pin table size for tests/diagnostics.
func (d *IoData) pinCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.pins)
}
