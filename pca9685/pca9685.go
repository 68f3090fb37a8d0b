// Package pca9685 implements the second I/O Facade: a 16-channel PWM
// expander chip driven over I2C on an underlying Firmata-speaking board.
// Register map and prescale formula follow the chip's datasheet sequence
// (MODE1 sleep, PRESCALE write, MODE1 restart); the bus underneath is an
// I2C passthrough over Firmata sysex rather than a native host I2C bus.
package pca9685

import (
	"math"

	"github.com/periph-dev/boardkit/conn/physic"
	"github.com/periph-dev/boardkit/ioerrors"
	"github.com/periph-dev/boardkit/iofacade"
)

const (
	regMode1    = 0x00
	regPrescale = 0xFE
	regLed0OnL  = 0x06

	mode1Reset   = 0x00
	mode1Sleep   = 0x10
	mode1Restart = 0x80 // RESTART bit, combined with auto-increment below
	mode1AI      = 0x20

	minFrequency physic.Frequency = 24 * physic.Hertz
	maxFrequency physic.Frequency = 1526 * physic.Hertz

	channelCount = 16

	freqOutputPWM physic.Frequency = 300 * physic.Hertz
	freqAnalog    physic.Frequency = 30 * physic.Hertz
	freqServo     physic.Frequency = 50 * physic.Hertz
)

// i2cBus is the minimal surface the driver needs from the underlying board:
// a single-byte-or-more write and read against an I2C device address. It is
// satisfied by an adapter over iofacade.IO's I2C* operations.
type i2cBus interface {
	I2CWrite(address uint16, data []byte) error
	I2CRead(address uint16, size uint8) ([]byte, error)
	I2CConfig(delayMicros uint16) error
}

type servoRange struct {
	minPulse, maxPulse uint16
	configured         bool
}

// Driver is the PCA9685 I/O Facade implementation.
type Driver struct {
	bus       i2cBus
	address   uint16
	connected bool

	servoConfigs [channelCount]servoRange
	values       [channelCount]uint16
	modes        [channelCount]iofacade.PinMode
}

// DefaultAddress is the PCA9685's usual 7-bit I2C address.
const DefaultAddress uint16 = 0x40

// New constructs a Driver bound to an I2C bus, defaulting to DefaultAddress.
func New(bus i2cBus, address uint16) *Driver {
	if address == 0 {
		address = DefaultAddress
	}
	return &Driver{bus: bus, address: address}
}

func (d *Driver) Open() error {
	if err := d.bus.I2CConfig(0); err != nil {
		return err
	}
	d.connected = true
	return nil
}

func (d *Driver) Close() error {
	err := d.writeReg(regMode1, mode1Restart)
	d.connected = false
	return err
}

func (d *Driver) IsConnected() bool { return d.connected }

func (d *Driver) SetPinMode(pin uint16, mode iofacade.PinMode) error {
	if pin >= channelCount {
		return ioerrors.NewUnknownPin(channelName(pin))
	}
	switch mode {
	case iofacade.ModeOutput, iofacade.ModePWM:
		if err := d.SetFrequency(freqOutputPWM); err != nil {
			return err
		}
	case iofacade.ModeAnalog:
		if err := d.SetFrequency(freqAnalog); err != nil {
			return err
		}
	case iofacade.ModeServo:
		if err := d.SetFrequency(freqServo); err != nil {
			return err
		}
	default:
		return ioerrors.NewIncompatiblePin(channelName(pin), mode.String(), "set_pin_mode")
	}
	d.modes[pin] = mode
	return nil
}

// SetFrequency programs the chip's global PWM frequency following the
// normative five-step sequence: reset, sleep, prescale, wake, restart with
// auto-increment.
func (d *Driver) SetFrequency(freq physic.Frequency) error {
	if freq < minFrequency || freq > maxFrequency {
		return ioerrors.NewUnknown("pca9685: frequency %s out of range [%s,%s]", freq, minFrequency, maxFrequency)
	}
	hz := float64(freq) / float64(physic.Hertz)
	prescale := int(math.Round(25_000_000.0/(4096.0*hz))) - 1
	if prescale < 3 {
		prescale = 3
	}
	if prescale > 255 {
		prescale = 255
	}
	if err := d.writeReg(regMode1, mode1Reset); err != nil {
		return err
	}
	if err := d.writeReg(regMode1, mode1Sleep); err != nil {
		return err
	}
	if err := d.writeReg(regPrescale, byte(prescale)); err != nil {
		return err
	}
	if err := d.writeReg(regMode1, mode1Reset); err != nil {
		return err
	}
	return d.writeReg(regMode1, mode1Restart|mode1AI)
}

func (d *Driver) DigitalRead(pin uint16) (uint16, error) {
	if pin >= channelCount {
		return 0, ioerrors.NewUnknownPin(channelName(pin))
	}
	return d.values[pin], nil
}

func (d *Driver) DigitalWrite(pin uint16, level bool) error {
	var v uint16
	if level {
		v = 255
	}
	return d.AnalogWrite(pin, v)
}

func (d *Driver) AnalogRead(pin uint16) (uint16, error) {
	if pin >= channelCount {
		return 0, ioerrors.NewUnknownPin(channelName(pin))
	}
	return d.values[pin], nil
}

func (d *Driver) AnalogWrite(pin uint16, level uint16) error {
	if pin >= channelCount {
		return ioerrors.NewUnknownPin(channelName(pin))
	}
	var on, off uint16
	if cfg := d.servoConfigs[pin]; cfg.configured {
		off = uint16(math.Round(float64(level) / 4.88))
	} else {
		switch {
		case level == 0:
			on, off = 0, 4096
		case level >= 255:
			on, off = 4096, 0
		default:
			on, off = 0, uint16(uint32(level)*4095/255)
		}
	}
	reg := byte(regLed0OnL + 4*pin)
	payload := []byte{
		byte(on & 0xFF), byte(on >> 8),
		byte(off & 0xFF), byte(off >> 8),
	}
	if err := d.bus.I2CWrite(d.address, append([]byte{reg}, payload...)); err != nil {
		return err
	}
	d.values[pin] = level
	return nil
}

func (d *Driver) ServoConfig(pin uint16, minPulse, maxPulse uint16) error {
	if pin >= channelCount {
		return ioerrors.NewUnknownPin(channelName(pin))
	}
	d.servoConfigs[pin] = servoRange{minPulse: minPulse, maxPulse: maxPulse, configured: true}
	return nil
}

// ReadRegister is the direct-bus read primitive: it writes the register
// index then issues a one-byte I²C read and returns the last reply's last
// data byte. Exposed so callers (and tests) can verify register state such
// as MODE1 or the PRESCALE value programmed by SetFrequency without
// decoding Firmata sysex replies.
func (d *Driver) ReadRegister(reg byte) (byte, error) {
	if err := d.bus.I2CWrite(d.address, []byte{reg}); err != nil {
		return 0, err
	}
	data, err := d.bus.I2CRead(d.address, 1)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, ioerrors.NewUnknown("pca9685: empty reply reading register 0x%02X", reg)
	}
	return data[len(data)-1], nil
}

func (d *Driver) writeReg(reg, value byte) error {
	return d.bus.I2CWrite(d.address, []byte{reg, value})
}

// I2C passthroughs: the PCA9685's own bus is the board's, so these forward.
func (d *Driver) I2CConfig(delayMicros uint16) error        { return d.bus.I2CConfig(delayMicros) }
func (d *Driver) I2CRead(addr uint16, n uint8) ([]byte, error) { return d.bus.I2CRead(addr, n) }
func (d *Driver) I2CWrite(addr uint16, data []byte) error    { return d.bus.I2CWrite(addr, data) }

func (d *Driver) ReportAnalog(channel uint8, on bool) error {
	return ioerrors.NewUnknown("pca9685: report_analog is not supported")
}

func (d *Driver) ReportDigital(pin uint16, on bool) error {
	return ioerrors.NewUnknown("pca9685: report_digital is not supported")
}

func (d *Driver) SamplingInterval(ms uint16) error {
	return ioerrors.NewUnknown("pca9685: sampling_interval is not supported")
}

func channelName(pin uint16) string {
	const hexDigits = "0123456789ABCDEF"
	if pin < 16 {
		return "CH" + string(hexDigits[pin])
	}
	return "CH?"
}
