// Package sign computes and verifies the Connection Signature Resolving
// Key (CSRK) signatures carried by ATT Signed Write Command PDUs, letting
// a client write to a server over an unencrypted link while still proving
// its identity to a server that knows the same CSRK. [Vol 3, Part H, 2.4.5]
package sign

import (
	"crypto/aes"
	"encoding/binary"
	"errors"

	"github.com/aead/cmac"
)

// ErrVerifyFailed is returned by Verify when the signature's MAC does not
// match the message, counter, and key supplied.
var ErrVerifyFailed = errors.New("sign: signature verification failed")

// Sign computes the 12-octet authentication signature for message under
// csrk at the given sign counter: the counter (4 octets, little-endian)
// followed by the low 8 octets of the AES-CMAC over message||counter.
// [Vol 3, Part H, 2.4.5; Vol 3, Part F, 3.4.5.4]
func Sign(csrk [16]byte, signCounter uint32, message []byte) ([12]byte, error) {
	var out [12]byte
	binary.LittleEndian.PutUint32(out[:4], signCounter)

	mac, err := macOf(csrk, message, signCounter)
	if err != nil {
		return out, err
	}
	copy(out[4:], mac)
	return out, nil
}

// Verify recomputes the signature over message using the counter embedded
// in sig and reports whether it matches the trailing MAC octets.
func Verify(csrk [16]byte, message []byte, sig [12]byte) error {
	signCounter := binary.LittleEndian.Uint32(sig[:4])
	mac, err := macOf(csrk, message, signCounter)
	if err != nil {
		return err
	}
	for i := range mac {
		if mac[i] != sig[4+i] {
			return ErrVerifyFailed
		}
	}
	return nil
}

func macOf(csrk [16]byte, message []byte, signCounter uint32) ([8]byte, error) {
	var mac [8]byte

	block, err := aes.NewCipher(csrk[:])
	if err != nil {
		return mac, err
	}

	signed := make([]byte, len(message)+4)
	copy(signed, message)
	binary.LittleEndian.PutUint32(signed[len(message):], signCounter)

	full, err := cmac.Sum(signed, block, block.BlockSize())
	if err != nil {
		return mac, err
	}
	// The Bluetooth signing algorithm keeps the least significant 64 bits
	// of the 128-bit CMAC output as the MAC field.
	copy(mac[:], full[len(full)-8:])
	return mac, nil
}
