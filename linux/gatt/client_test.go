package gatt

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-ble/ble"
	"github.com/nimbus-ble/ble/linux/att"
)

func newTestClient(t *testing.T) (*Client, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	done := make(chan bool)
	c, err := NewClient(conn, done, ble.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { close(done) })
	return c, conn
}

func TestDiscoverServicesSingleFullRangeService(t *testing.T) {
	client, conn := newTestClient(t)

	go func() {
		<-conn.writec // ReadByGroupType(1, 0xFFFF, PrimaryService)
		rsp := make([]byte, 2+6)
		r := att.ReadByGroupTypeResponse(rsp)
		r.SetAttributeOpcode()
		r.SetLength(6)
		data := r.AttributeDataList()
		binary.LittleEndian.PutUint16(data[0:], 1)
		binary.LittleEndian.PutUint16(data[2:], 0xFFFF)
		binary.LittleEndian.PutUint16(data[4:], 0x1800)
		conn.readc <- rsp
	}()

	services, err := client.DiscoverServices(nil)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.EqualValues(t, 1, services[0].Handle)
	assert.EqualValues(t, 0xFFFF, services[0].EndHandle)
	assert.Equal(t, ble.UUID16(0x1800).String(), services[0].UUID.String())
}

func TestDiscoverCharacteristicsThenAttrNotFoundEndsWalk(t *testing.T) {
	client, conn := newTestClient(t)
	svc := &ble.Service{Handle: 1, EndHandle: 5}

	go func() {
		<-conn.writec // ReadByType(1, 5, CharacteristicUUID)
		rsp := make([]byte, 2+7)
		r := att.ReadByTypeResponse(rsp)
		r.SetAttributeOpcode()
		r.SetLength(7)
		data := r.AttributeDataList()
		binary.LittleEndian.PutUint16(data[0:], 2)
		data[2] = byte(ble.CharRead)
		binary.LittleEndian.PutUint16(data[3:], 3)
		binary.LittleEndian.PutUint16(data[5:], 0x2A00)
		conn.readc <- rsp

		<-conn.writec // ReadByType(4, 5, ...) -> not found
		conn.readc <- errResp(att.ReadByTypeRequestCode, 4, ble.ErrAttrNotFound)
	}()

	chars, err := client.DiscoverCharacteristics(nil, svc)
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.EqualValues(t, 2, chars[0].DeclarationHandle)
	assert.EqualValues(t, 3, chars[0].ValueHandle)
	assert.EqualValues(t, 5, chars[0].EndHandle)
}

func TestWriteLongCharacteristicReliableSucceeds(t *testing.T) {
	client, conn := newTestClient(t)
	ch := &ble.Characteristic{ValueHandle: 0x0010}
	value := make([]byte, 40)
	for i := range value {
		value[i] = byte(i)
	}

	go func() {
		for {
			req := <-conn.writec
			switch req[0] {
			case att.PrepareWriteRequestCode:
				preq := att.PrepareWriteRequest(req)
				rsp := make([]byte, len(req))
				r := att.PrepareWriteResponse(rsp)
				r.SetAttributeOpcode()
				r.SetAttributeHandle(preq.AttributeHandle())
				r.SetValueOffset(preq.ValueOffset())
				r.SetPartAttributeValue(preq.PartAttributeValue())
				conn.readc <- rsp
			case att.ExecuteWriteRequestCode:
				rsp := make([]byte, 1)
				r := att.ExecuteWriteResponse(rsp)
				r.SetAttributeOpcode()
				conn.readc <- rsp
				return
			}
		}
	}()

	err := client.WriteLongCharacteristic(ch, value, true)
	require.NoError(t, err)
	assert.Equal(t, value, ch.Value)
}

func TestWriteLongCharacteristicCancelsOnMismatch(t *testing.T) {
	client, conn := newTestClient(t)
	ch := &ble.Characteristic{ValueHandle: 0x0010}
	value := make([]byte, 40)

	go func() {
		req := <-conn.writec // first PrepareWrite
		preq := att.PrepareWriteRequest(req)
		rsp := make([]byte, len(req))
		r := att.PrepareWriteResponse(rsp)
		r.SetAttributeOpcode()
		r.SetAttributeHandle(preq.AttributeHandle())
		r.SetValueOffset(preq.ValueOffset())
		corrupted := make([]byte, len(preq.PartAttributeValue()))
		copy(corrupted, preq.PartAttributeValue())
		corrupted[0] ^= 0xFF
		r.SetPartAttributeValue(corrupted)
		conn.readc <- rsp

		cancelReq := <-conn.writec // ExecuteWrite(cancel)
		require.EqualValues(t, att.ExecuteWriteCancel, att.ExecuteWriteRequest(cancelReq).Flags())
		cancelRsp := make([]byte, 1)
		cr := att.ExecuteWriteResponse(cancelRsp)
		cr.SetAttributeOpcode()
		conn.readc <- cancelRsp
	}()

	err := client.WriteLongCharacteristic(ch, value, true)
	assert.Error(t, err)
}

func TestWriteLongCharacteristicRejectsConcurrentLongWrite(t *testing.T) {
	client, conn := newTestClient(t)
	ch := &ble.Characteristic{ValueHandle: 0x0010}
	value := make([]byte, 40)

	client.inLongWrite = true
	err := client.WriteLongCharacteristic(ch, value, false)
	assert.Equal(t, ErrInLongWrite, err)
	_ = conn
}

func TestReadCharacteristicsByUUIDReturnsValuesByHandle(t *testing.T) {
	client, conn := newTestClient(t)

	go func() {
		<-conn.writec // ReadByType(1, 0xFFFF, 0x2A00)
		rsp := make([]byte, 2+4)
		r := att.ReadByTypeResponse(rsp)
		r.SetAttributeOpcode()
		r.SetLength(4)
		data := r.AttributeDataList()
		binary.LittleEndian.PutUint16(data[0:], 0x0003)
		copy(data[2:4], []byte("hi"))
		conn.readc <- rsp
	}()

	values, err := client.ReadCharacteristicsByUUID(ble.UUID16(0x2A00), 1, 0xFFFF)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, []byte("hi"), values[0x0003])
}

func TestReadCharacteristicsByUUIDNotFoundIsEmptySuccess(t *testing.T) {
	client, conn := newTestClient(t)

	go func() {
		<-conn.writec
		conn.readc <- errResp(att.ReadByTypeRequestCode, 1, ble.ErrAttrNotFound)
	}()

	values, err := client.ReadCharacteristicsByUUID(ble.UUID16(0x2A00), 1, 0xFFFF)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestReadMultipleCharacteristicsRequiresAtLeastTwo(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.ReadMultipleCharacteristics([]*ble.Characteristic{{ValueHandle: 1}})
	assert.Equal(t, att.ErrInvalidArgument, err)
}

func TestReadMultipleCharacteristicsReturnsConcatenatedValues(t *testing.T) {
	client, conn := newTestClient(t)
	cs := []*ble.Characteristic{{ValueHandle: 0x0003}, {ValueHandle: 0x0005}}

	go func() {
		req := <-conn.writec
		require.Equal(t, byte(att.ReadMultipleRequestCode), req[0])
		rsp := make([]byte, 1+4)
		r := att.ReadMultipleResponse(rsp)
		r.SetAttributeOpcode()
		copy(r.SetOfValues(), []byte{0x01, 0x02, 0x03, 0x04})
		conn.readc <- rsp
	}()

	values, err := client.ReadMultipleCharacteristics(cs)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, values)
}

func errResp(reqOpcode byte, handle uint16, code ble.ATTError) []byte {
	b := make([]byte, 5)
	b[0] = att.ErrorResponseCode
	b[1] = reqOpcode
	binary.LittleEndian.PutUint16(b[2:], handle)
	b[4] = byte(code)
	return b
}
