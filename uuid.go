package ble

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// UUID is a BLE UUID: either a 2-byte SIG-assigned short form or a 16-byte
// custom form. 32-bit UUIDs never appear on the wire in ATT PDUs, so this
// type does not model them. [Vol 3, Part F, 3.2.1]
type UUID struct {
	b []byte
}

// UUID16 converts a uint16 (such as 0x1800) to a UUID.
func UUID16(i uint16) UUID {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, i)
	return UUID{b}
}

// UUID128 wraps a 16-byte custom UUID, stored little-endian as it appears
// on the wire. Panics if b is not exactly 16 bytes.
func UUID128(b []byte) UUID {
	if len(b) != 16 {
		panic("ble: UUID128 requires exactly 16 bytes")
	}
	u := make([]byte, 16)
	copy(u, b)
	return UUID{u}
}

// Parse parses a standard-format UUID string, such as "1800" or
// "34DA3AD1-7110-41A1-B1EF-4430F509CDE7", into its little-endian wire form.
func Parse(s string) (UUID, error) {
	s = strings.Replace(s, "-", "", -1)
	b, err := hex.DecodeString(s)
	if err != nil {
		return UUID{}, err
	}
	if err := lenErr(len(b)); err != nil {
		return UUID{}, err
	}
	return UUID{reverse(b)}, nil
}

// MustParse parses a standard-format UUID string, like Parse, but panics on error.
func MustParse(s string) UUID {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func lenErr(n int) error {
	switch n {
	case 2, 16:
		return nil
	}
	return fmt.Errorf("ble: UUIDs must have length 2 or 16, got %d", n)
}

// Len returns the length of the UUID in bytes: 2 or 16.
func (u UUID) Len() int { return len(u.b) }

// Bytes returns the UUID's wire-order (little-endian) bytes.
func (u UUID) Bytes() []byte { return u.b }

// IsZero reports whether u carries no bytes (the zero value).
func (u UUID) IsZero() bool { return len(u.b) == 0 }

// String renders the UUID in big-endian hex, matching how BLE tooling
// conventionally displays it (e.g. "1800", "34DA3AD1...").
func (u UUID) String() string {
	return fmt.Sprintf("%X", reverse(u.b))
}

// Equal reports whether u and v represent the same UUID. A 16-bit UUID is
// equal to its 128-bit SIG base-UUID expansion.
func (u UUID) Equal(v UUID) bool {
	if len(u.b) == len(v.b) {
		return bytes.Equal(u.b, v.b)
	}
	return bytes.Equal(expand16(u).b, expand16(v).b)
}

// sigBaseUUID is the Bluetooth SIG base UUID, big-endian:
// 00000000-0000-1000-8000-00805F9B34FB, with the 16-bit short-form UUID
// spliced into bytes 2:4.
var sigBaseUUID = [16]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00,
	0x80, 0x00, 0x00, 0x80, 0x5F, 0x9B, 0x34, 0xFB,
}

func expand16(u UUID) UUID {
	if len(u.b) == 16 {
		return u
	}
	be := reverse(u.b)
	full := sigBaseUUID
	full[2], full[3] = be[0], be[1]
	return UUID{reverse(full[:])}
}

// Contains returns a boolean reporting whether u is in the slice s. A nil
// filter slice matches everything (no filter).
func Contains(s []UUID, u UUID) bool {
	if s == nil {
		return true
	}
	for _, a := range s {
		if a.Equal(u) {
			return true
		}
	}
	return false
}

// reverse returns a reversed copy of b (flips wire little-endian to
// display big-endian and back).
func reverse(b []byte) []byte {
	l := len(b)
	if l == 2 {
		return []byte{b[1], b[0]}
	}
	out := make([]byte, l)
	for i := 0; i < l; i++ {
		out[i] = b[l-i-1]
	}
	return out
}
