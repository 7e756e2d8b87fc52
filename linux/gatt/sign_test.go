package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-ble/ble"
	"github.com/nimbus-ble/ble/linux/att"
	"github.com/nimbus-ble/ble/linux/sign"
)

func TestSignedWriteCharacteristicIncrementsCounter(t *testing.T) {
	client, conn := newTestClient(t)
	ch := &ble.Characteristic{ValueHandle: 0x0030}
	var csrk [16]byte
	signer := NewCSRKSigner(csrk, 5)

	go func() {
		req := <-conn.writec
		require.EqualValues(t, att.SignedWriteCommandCode, req[0])
		cmd := att.SignedWriteCommand(req)
		assert.EqualValues(t, ch.ValueHandle, cmd.AttributeHandle())
		assert.Equal(t, []byte{0xAA, 0xBB}, cmd.AttributeValue())

		message := append([]byte{att.SignedWriteCommandCode, byte(ch.ValueHandle), byte(ch.ValueHandle >> 8)}, 0xAA, 0xBB)
		require.NoError(t, sign.Verify(csrk, message, cmd.AuthenticationSignature()))
	}()

	err := client.SignedWriteCharacteristic(ch, []byte{0xAA, 0xBB}, signer)
	require.NoError(t, err)
	assert.EqualValues(t, 6, signer.Counter())
}
