package firmata

import (
	"fmt"

	"github.com/periph-dev/boardkit/iofacade"
)

// Capability pairs a supported mode with its resolution in bits, as
// reported by the capability-query response.
type Capability struct {
	Mode       iofacade.PinMode
	Resolution uint8
}

// Pin is one entry of the pin table: identity, current mode, the modes it
// supports, its analog channel if any, and the last observed value.
type Pin struct {
	ID             uint16
	Name           string
	Mode           iofacade.PinMode
	SupportedModes []Capability
	Channel        *uint8
	Value          uint16
}

// SupportsMode reports whether mode is one of the pin's SupportedModes.
func (p *Pin) SupportsMode(mode iofacade.PinMode) bool {
	for _, c := range p.SupportedModes {
		if c.Mode == mode {
			return true
		}
	}
	return false
}

// ResolutionFor returns the resolution, in bits, for the given supported
// mode, or 0 if unsupported.
func (p *Pin) ResolutionFor(mode iofacade.PinMode) uint8 {
	for _, c := range p.SupportedModes {
		if c.Mode == mode {
			return c.Resolution
		}
	}
	return 0
}

func (p *Pin) String() string {
	return fmt.Sprintf("pin(%s, mode=%s, value=%d)", p.Name, p.Mode, p.Value)
}

func digitalName(id uint16) string { return fmt.Sprintf("D%d", id) }
func analogName(channel uint8) string { return fmt.Sprintf("A%d", channel) }
