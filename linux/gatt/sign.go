package gatt

import (
	"encoding/binary"
	"sync"

	"github.com/nimbus-ble/ble"
	"github.com/nimbus-ble/ble/linux/att"
	"github.com/nimbus-ble/ble/linux/sign"
)

// CSRKSigner signs outgoing ATT Signed Write Commands with a Connection
// Signature Resolving Key, incrementing its sign counter after every
// signature so a replayed PDU is never accepted twice by a compliant
// server. [Vol 3, Part H, 2.4.5]
type CSRKSigner struct {
	mu      sync.Mutex
	csrk    [16]byte
	counter uint32
}

// NewCSRKSigner returns a signer seeded with csrk at the given starting
// sign counter (0 for a freshly bonded peer).
func NewCSRKSigner(csrk [16]byte, startCounter uint32) *CSRKSigner {
	return &CSRKSigner{csrk: csrk, counter: startCounter}
}

// Counter returns the sign counter that will be used by the next call to
// sign, for persistence across reconnects.
func (s *CSRKSigner) Counter() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

func (s *CSRKSigner) sign(message []byte) ([12]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sig, err := sign.Sign(s.csrk, s.counter, message)
	if err != nil {
		return sig, err
	}
	s.counter++
	return sig, nil
}

// SignedWriteCharacteristic writes a characteristic's value using a Signed
// Write Command authenticated by signer, the one write variant usable
// without link-layer encryption. [Vol 3, Part F, 3.4.5.4]
func (p *Client) SignedWriteCharacteristic(c *ble.Characteristic, v []byte, signer *CSRKSigner) error {
	p.Lock()
	defer p.Unlock()

	message := make([]byte, 3+len(v))
	message[0] = att.SignedWriteCommandCode
	binary.LittleEndian.PutUint16(message[1:3], c.ValueHandle)
	copy(message[3:], v)

	sig, err := signer.sign(message)
	if err != nil {
		return err
	}
	return p.ac.SignedWrite(c.ValueHandle, v, sig)
}
