// Package iofacade defines the single polymorphic contract both I/O
// protocol implementations (firmata.Protocol and pca9685.Driver) satisfy,
// so a device binds to either a real board or a test fake without caring
// which.
package iofacade

// IO is the uniform surface devices and the board program against.
// A concrete implementation may return an *ioerrors.UnknownError for any
// operation it does not support; callers must not invoke unsupported
// operations for a given device category (enforced at the device layer,
// not here).
type IO interface {
	Open() error
	Close() error
	IsConnected() bool

	SetPinMode(pin uint16, mode PinMode) error
	DigitalRead(pin uint16) (uint16, error)
	DigitalWrite(pin uint16, level bool) error
	AnalogRead(pin uint16) (uint16, error)
	AnalogWrite(pin uint16, value uint16) error
	ServoConfig(pin uint16, minPulse, maxPulse uint16) error

	I2CConfig(delayMicros uint16) error
	I2CRead(address uint16, size uint8) ([]byte, error)
	I2CWrite(address uint16, data []byte) error

	ReportAnalog(channel uint8, on bool) error
	ReportDigital(pin uint16, on bool) error
	SamplingInterval(ms uint16) error
}

// PinMode is the closed enumeration of pin capabilities; every value round
// trips through the Firmata wire byte code used for SET_PIN_MODE messages.
type PinMode uint8

const (
	ModeInput PinMode = iota
	ModeOutput
	ModeAnalog
	ModePWM
	ModeServo
	ModeShift
	ModeI2C
	ModeOneWire
	ModeStepper
	ModeEncoder
	ModeSerial
	ModePullup
	ModeSPI
	ModeSonar
	ModeTone
	ModeDHT
	ModeUnsupported PinMode = 0x7F
)

func (m PinMode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeOutput:
		return "output"
	case ModeAnalog:
		return "analog"
	case ModePWM:
		return "pwm"
	case ModeServo:
		return "servo"
	case ModeShift:
		return "shift"
	case ModeI2C:
		return "i2c"
	case ModeOneWire:
		return "onewire"
	case ModeStepper:
		return "stepper"
	case ModeEncoder:
		return "encoder"
	case ModeSerial:
		return "serial"
	case ModePullup:
		return "pullup"
	case ModeSPI:
		return "spi"
	case ModeSonar:
		return "sonar"
	case ModeTone:
		return "tone"
	case ModeDHT:
		return "dht"
	default:
		return "unsupported"
	}
}
