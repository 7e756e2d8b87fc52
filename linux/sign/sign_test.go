package sign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignThenVerifySucceeds(t *testing.T) {
	var csrk [16]byte
	for i := range csrk {
		csrk[i] = byte(i)
	}
	message := []byte{0x12, 0xAA, 0x00, 0xDE, 0xAD, 0xBE, 0xEF}

	sig, err := Sign(csrk, 7, message)
	require.NoError(t, err)

	require.NoError(t, Verify(csrk, message, sig))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	var csrk [16]byte
	message := []byte{0x01, 0x02, 0x03}

	sig, err := Sign(csrk, 0, message)
	require.NoError(t, err)

	tampered := append([]byte(nil), message...)
	tampered[0] ^= 0xFF
	assert.Equal(t, ErrVerifyFailed, Verify(csrk, tampered, sig))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	var a, b [16]byte
	b[0] = 0xFF
	message := []byte{0xAB, 0xCD}

	sig, err := Sign(a, 3, message)
	require.NoError(t, err)

	assert.Equal(t, ErrVerifyFailed, Verify(b, message, sig))
}

func TestSignatureCarriesCounterInFirstFourBytes(t *testing.T) {
	var csrk [16]byte
	sig, err := Sign(csrk, 0x01020304, []byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, sig[:4])
}
