// Package firmata implements the wire codec for the Firmata protocol: sysex
// framing, channel messages, capability discovery, and the handshake and
// dispatch loop that keep a Pin table in sync with a running board.
package firmata

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/periph-dev/boardkit/ioerrors"
	"github.com/periph-dev/boardkit/iofacade"
	"github.com/periph-dev/boardkit/iotransport"
)

const (
	handshakeTimeout = 10 * time.Second
	steadyTimeout    = 500 * time.Millisecond
	pollInterval     = 10 * time.Millisecond
)

// Protocol is a Firmata-speaking iofacade.IO implementation: the wire codec
// plus the pin table it maintains.
type Protocol struct {
	transport iotransport.Transport
	io        *IoData

	writeMu sync.Mutex // serializes one frame write at a time on the transport

	pollMu     sync.Mutex
	pollCancel context.CancelFunc
	pollWG     sync.WaitGroup
}

// New wraps transport in a Protocol. The transport is not opened yet.
func New(transport iotransport.Transport) *Protocol {
	return &Protocol{transport: transport, io: newIoData()}
}

// IO exposes the shared pin-table state for devices and the board.
func (p *Protocol) IO() *IoData { return p.io }

func (p *Protocol) IsConnected() bool { return p.io.Connected() }

// Open performs the five-step handshake described by the wire codec
// component: reset, firmware query, capability query, analog-mapping
// query, then lowers the transport timeout and marks connected.
func (p *Protocol) Open() error {
	if err := p.transport.Open(); err != nil {
		return err
	}
	if err := p.transport.SetReadTimeout(handshakeTimeout); err != nil {
		return err
	}
	if err := p.writeFrame([]byte{cmdSystemReset}); err != nil {
		return err
	}
	if err := p.writeSysex(sysexFirmwareReport); err != nil {
		return err
	}
	if err := p.drainUntil(func(kind byte) bool { return kind == sysexFirmwareReport }); err != nil {
		return err
	}
	if err := p.writeSysex(sysexCapabilityQuery); err != nil {
		return err
	}
	if err := p.drainUntil(func(kind byte) bool { return kind == sysexCapabilityResponse }); err != nil {
		return err
	}
	if err := p.writeSysex(sysexAnalogMappingQuery); err != nil {
		return err
	}
	if err := p.drainUntil(func(kind byte) bool { return kind == sysexAnalogMappingReply }); err != nil {
		return err
	}
	if err := p.transport.SetReadTimeout(steadyTimeout); err != nil {
		return err
	}
	p.io.mu.Lock()
	p.io.connected = true
	p.io.mu.Unlock()
	return nil
}

func (p *Protocol) Close() error {
	p.stopPolling()
	p.io.mu.Lock()
	p.io.connected = false
	p.io.mu.Unlock()
	return p.transport.Close()
}

// drainUntil reads and dispatches frames until one of the dispatched sysex
// commands satisfies want, tolerating every other interleaved frame
// (protocol version reports, spurious samples) without dropping state.
func (p *Protocol) drainUntil(want func(kind byte) bool) error {
	for {
		kind, err := p.readAndDispatch()
		if err != nil {
			return err
		}
		if want(kind) {
			return nil
		}
	}
}

// readAndDispatch performs a single read step: read the first byte,
// switch on it, consume and interpret whatever follows. It returns the
// sysex command byte dispatched, or 0 for a non-sysex frame.
func (p *Protocol) readAndDispatch() (byte, error) {
	var head [1]byte
	if err := p.transport.ReadExact(head[:]); err != nil {
		return 0, err
	}
	b := head[0]

	switch {
	case b == sysexStart:
		return p.dispatchSysex()
	case b&0xF0 == cmdDigitalIO:
		return 0, p.dispatchDigital(b & 0x0F)
	case b&0xF0 == cmdAnalogIO:
		return 0, p.dispatchAnalog(b & 0x0F)
	case b == cmdProtocolVersion:
		return 0, p.dispatchProtocolVersion()
	default:
		// Unrecognized channel command: log and continue (see DESIGN.md
		// open-question decision) rather than tearing down the read loop.
		log.Printf("firmata: unrecognized leading byte 0x%02X, skipping", b)
		return 0, nil
	}
}

func (p *Protocol) dispatchProtocolVersion() error {
	var buf [2]byte
	if err := p.transport.ReadExact(buf[:]); err != nil {
		return ioerrors.NewMessageTooShort("protocol_version", 2, 0)
	}
	p.io.mu.Lock()
	p.io.protocolVersion = strconv.Itoa(int(buf[0])) + "." + strconv.Itoa(int(buf[1]))
	p.io.mu.Unlock()
	return nil
}

func (p *Protocol) dispatchDigital(port byte) error {
	var buf [2]byte
	if err := p.transport.ReadExact(buf[:]); err != nil {
		return ioerrors.NewMessageTooShort("digital_io", 2, 0)
	}
	value := from7(buf[0], buf[1])
	p.io.mu.Lock()
	defer p.io.mu.Unlock()
	for bit := uint16(0); bit < 8; bit++ {
		id := uint16(port)*8 + bit
		pin, ok := p.io.pins[id]
		if !ok {
			continue
		}
		if pin.Mode == iofacade.ModeInput || pin.Mode == iofacade.ModePullup {
			pin.Value = (value >> bit) & 1
		}
	}
	return nil
}

func (p *Protocol) dispatchAnalog(channel byte) error {
	var buf [2]byte
	if err := p.transport.ReadExact(buf[:]); err != nil {
		return ioerrors.NewMessageTooShort("analog_io", 2, 0)
	}
	value := from7(buf[0], buf[1])
	p.io.mu.Lock()
	defer p.io.mu.Unlock()
	for _, pin := range p.io.pins {
		if pin.Channel != nil && *pin.Channel == channel {
			pin.Value = value
			return nil
		}
	}
	// Reference devices also map channel directly onto pin id+14.
	if pin, ok := p.io.pins[uint16(channel)+14]; ok {
		pin.Value = value
	}
	return nil
}

func (p *Protocol) dispatchSysex() (byte, error) {
	var cmdBuf [1]byte
	if err := p.transport.ReadExact(cmdBuf[:]); err != nil {
		return 0, ioerrors.NewMessageTooShort("sysex", 1, 0)
	}
	cmd := cmdBuf[0]

	var payload []byte
	for {
		var b [1]byte
		if err := p.transport.ReadExact(b[:]); err != nil {
			return 0, ioerrors.NewMessageTooShort("sysex_payload", 1, 0)
		}
		if b[0] == sysexEnd {
			break
		}
		payload = append(payload, b[0])
	}

	switch cmd {
	case sysexFirmwareReport:
		p.handleFirmwareReport(payload)
	case sysexCapabilityResponse:
		p.handleCapabilityResponse(payload)
	case sysexAnalogMappingReply:
		p.handleAnalogMapping(payload)
	case sysexI2CReply:
		p.handleI2CReply(payload)
	case sysexPinStateResponse:
		p.handlePinState(payload)
	default:
		log.Printf("firmata: unrecognized sysex command 0x%02X, discarding frame", cmd)
	}
	return cmd, nil
}

func (p *Protocol) handleFirmwareReport(payload []byte) {
	if len(payload) < 2 {
		return
	}
	p.io.mu.Lock()
	defer p.io.mu.Unlock()
	p.io.firmwareVersion = strconv.Itoa(int(payload[0])) + "." + strconv.Itoa(int(payload[1]))
	name := make([]byte, 0, (len(payload)-2)/2)
	for i := 2; i+1 < len(payload); i += 2 {
		name = append(name, byte(from7(payload[i], payload[i+1])))
	}
	p.io.firmwareName = string(name)
}

func (p *Protocol) handleCapabilityResponse(payload []byte) {
	p.io.mu.Lock()
	defer p.io.mu.Unlock()
	p.io.pins = make(map[uint16]*Pin)

	var id uint16
	var caps []Capability
	flush := func() {
		if len(caps) == 0 {
			return
		}
		p.io.pins[id] = &Pin{
			ID:             id,
			Name:           digitalName(id),
			Mode:           caps[0].Mode,
			SupportedModes: caps,
		}
		id++
		caps = nil
	}
	for i := 0; i < len(payload); i++ {
		if payload[i] == sysexCapabilityListEnd {
			flush()
			continue
		}
		if i+1 >= len(payload) {
			break
		}
		mode := iofacade.PinMode(payload[i])
		resolution := payload[i+1]
		caps = append(caps, Capability{Mode: mode, Resolution: resolution})
		i++
	}
}

func (p *Protocol) handleAnalogMapping(payload []byte) {
	p.io.mu.Lock()
	defer p.io.mu.Unlock()
	for i, b := range payload {
		if b == sysexCapabilityListEnd {
			continue
		}
		pin, ok := p.io.pins[uint16(i)]
		if !ok {
			continue
		}
		channel := b
		pin.Channel = &channel
		pin.Name = analogName(channel)
		pin.Mode = iofacade.ModeAnalog
	}
}

func (p *Protocol) handleI2CReply(payload []byte) {
	if len(payload) < 4 {
		return
	}
	address := from7(payload[0], payload[1])
	register := from7(payload[2], payload[3])
	var data []uint16
	for i := 4; i+1 < len(payload); i += 2 {
		data = append(data, from7(payload[i], payload[i+1]))
	}
	p.io.mu.Lock()
	p.io.i2cReplies = append(p.io.i2cReplies, I2CReply{Address: address, Register: register, Data: data})
	p.io.mu.Unlock()
}

func (p *Protocol) handlePinState(payload []byte) {
	if len(payload) < 2 {
		return
	}
	id := uint16(payload[0])
	p.io.mu.Lock()
	defer p.io.mu.Unlock()
	pin, ok := p.io.pins[id]
	if !ok {
		return
	}
	pin.Mode = iofacade.PinMode(payload[1])
	var value uint32
	for i, b := range payload[2:] {
		value |= uint32(b&0x7F) << (7 * i)
	}
	pin.Value = uint16(value)
}

// --- outbound operations ---

func (p *Protocol) SetPinMode(id uint16, mode iofacade.PinMode) error {
	pin, err := p.io.GetPin(id)
	if err != nil {
		return err
	}
	if !pin.SupportsMode(mode) {
		return ioerrors.NewIncompatiblePin(pin.Name, mode.String(), "set_pin_mode")
	}
	if err := p.writeFrame([]byte{cmdSetPinMode, byte(id), byte(mode)}); err != nil {
		return err
	}
	p.io.mu.Lock()
	pin.Mode = mode
	p.io.mu.Unlock()
	return nil
}

func (p *Protocol) DigitalRead(id uint16) (uint16, error) {
	pin, err := p.io.GetPin(id)
	if err != nil {
		return 0, err
	}
	p.io.mu.RLock()
	defer p.io.mu.RUnlock()
	return pin.Value, nil
}

func (p *Protocol) DigitalWrite(id uint16, level bool) error {
	pin, err := p.io.GetPin(id)
	if err != nil {
		return err
	}
	if pin.Mode != iofacade.ModeOutput {
		return ioerrors.NewIncompatiblePin(pin.Name, iofacade.ModeOutput.String(), "digital_write")
	}
	port := id / 8

	p.io.mu.Lock()
	pin.Value = boolToU16(level)
	var mask uint16
	for bit := uint16(0); bit < 8; bit++ {
		if other, ok := p.io.pins[port*8+bit]; ok && other.Value != 0 {
			mask |= 1 << bit
		}
	}
	p.io.mu.Unlock()

	return p.writeFrame([]byte{cmdDigitalIO | byte(port), lo7(uint32(mask)), hi7(uint32(mask))})
}

func (p *Protocol) AnalogRead(id uint16) (uint16, error) {
	pin, err := p.io.GetPin(id)
	if err != nil {
		return 0, err
	}
	p.io.mu.RLock()
	defer p.io.mu.RUnlock()
	return pin.Value, nil
}

func (p *Protocol) AnalogWrite(id uint16, value uint16) error {
	pin, err := p.io.GetPin(id)
	if err != nil {
		return err
	}
	var err2 error
	if id <= 15 {
		err2 = p.writeFrame([]byte{cmdAnalogIO | byte(id), lo7(uint32(value)), hi7(uint32(value))})
	} else {
		v := uint32(value)
		err2 = p.writeSysexPayload(sysexExtendedAnalog, []byte{byte(id), lo7(v), hi7(v), ext7(v)})
	}
	if err2 != nil {
		return err2
	}
	p.io.mu.Lock()
	pin.Value = value
	p.io.mu.Unlock()
	return nil
}

func (p *Protocol) ServoConfig(id uint16, minPulse, maxPulse uint16) error {
	return p.writeSysexPayload(sysexServoConfig, []byte{
		byte(id),
		lo7(uint32(minPulse)), hi7(uint32(minPulse)),
		lo7(uint32(maxPulse)), hi7(uint32(maxPulse)),
	})
}

func (p *Protocol) ReportAnalog(channel uint8, on bool) error {
	if err := p.writeFrame([]byte{cmdReportAnalog | channel, boolToByte(on)}); err != nil {
		return err
	}
	p.io.mu.Lock()
	if on {
		p.io.analogReportedChannels[channel] = true
	} else {
		delete(p.io.analogReportedChannels, channel)
	}
	n := len(p.io.analogReportedChannels) + len(p.io.digitalReportedPins)
	p.io.mu.Unlock()
	p.syncPolling(n > 0)
	return nil
}

func (p *Protocol) ReportDigital(id uint16, on bool) error {
	port := byte(id / 8)
	if err := p.writeFrame([]byte{cmdReportDigital | port, boolToByte(on)}); err != nil {
		return err
	}
	p.io.mu.Lock()
	if on {
		p.io.digitalReportedPins[id] = true
	} else {
		delete(p.io.digitalReportedPins, id)
	}
	n := len(p.io.analogReportedChannels) + len(p.io.digitalReportedPins)
	p.io.mu.Unlock()
	p.syncPolling(n > 0)
	return nil
}

func (p *Protocol) SamplingInterval(ms uint16) error {
	return p.writeSysexPayload(sysexSamplingInterval, []byte{lo7(uint32(ms)), hi7(uint32(ms))})
}

func (p *Protocol) I2CConfig(delayMicros uint16) error {
	return p.writeSysexPayload(sysexI2CConfig, []byte{lo7(uint32(delayMicros)), hi7(uint32(delayMicros))})
}

func (p *Protocol) I2CWrite(address uint16, data []byte) error {
	payload := []byte{lo7(uint32(address)), hi7(uint32(address)) | (i2cModeWrite << 3)}
	for _, b := range data {
		payload = append(payload, lo7(uint32(b)), hi7(uint32(b)))
	}
	return p.writeSysexPayload(sysexI2CRequest, payload)
}

func (p *Protocol) I2CRead(address uint16, size uint8) ([]byte, error) {
	payload := []byte{lo7(uint32(address)), hi7(uint32(address)) | (i2cModeRead << 3), lo7(uint32(size)), hi7(uint32(size))}
	if err := p.writeSysexPayload(sysexI2CRequest, payload); err != nil {
		return nil, err
	}
	if err := p.drainUntil(func(kind byte) bool { return kind == sysexI2CReply }); err != nil {
		return nil, err
	}
	reply, ok := p.io.LastI2CReply()
	if !ok {
		return nil, ioerrors.NewUnknown("i2c_read: no reply observed")
	}
	out := make([]byte, len(reply.Data))
	for i, v := range reply.Data {
		out[i] = byte(v)
	}
	return out, nil
}

// --- polling task ---

func (p *Protocol) syncPolling(shouldRun bool) {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()
	running := p.pollCancel != nil
	switch {
	case shouldRun && !running:
		ctx, cancel := context.WithCancel(context.Background())
		p.pollCancel = cancel
		p.pollWG.Add(1)
		go p.pollLoop(ctx)
	case !shouldRun && running:
		p.pollCancel()
		p.pollCancel = nil
	}
}

func (p *Protocol) stopPolling() {
	p.pollMu.Lock()
	cancel := p.pollCancel
	p.pollCancel = nil
	p.pollMu.Unlock()
	if cancel != nil {
		cancel()
	}
	p.pollWG.Wait()
}

func (p *Protocol) pollLoop(ctx context.Context) {
	defer p.pollWG.Done()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.readAndDispatch(); err != nil {
				log.Printf("firmata: polling read failed: %v", err)
			}
		}
	}
}

// --- wire helpers ---

func (p *Protocol) writeFrame(b []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.transport.Write(b)
}

func (p *Protocol) writeSysex(cmd byte) error {
	return p.writeFrame([]byte{sysexStart, cmd, sysexEnd})
}

func (p *Protocol) writeSysexPayload(cmd byte, payload []byte) error {
	frame := make([]byte, 0, len(payload)+3)
	frame = append(frame, sysexStart, cmd)
	frame = append(frame, payload...)
	frame = append(frame, sysexEnd)
	return p.writeFrame(frame)
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func boolToU16(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

