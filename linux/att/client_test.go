package att

import (
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbus-ble/ble"
)

type recordingHandler struct {
	mu            sync.Mutex
	notifications [][]byte
	indications   [][]byte
	notified      chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{notified: make(chan struct{}, 16)}
}

func (h *recordingHandler) HandleNotification(handle uint16, value []byte) {
	h.mu.Lock()
	h.notifications = append(h.notifications, append([]byte{byte(handle)}, value...))
	h.mu.Unlock()
	h.notified <- struct{}{}
}

func (h *recordingHandler) HandleIndication(handle uint16, value []byte) {
	h.mu.Lock()
	h.indications = append(h.indications, append([]byte{byte(handle)}, value...))
	h.mu.Unlock()
	h.notified <- struct{}{}
}

func newTestClient(t *testing.T) (*Client, *fakeConn, *recordingHandler) {
	t.Helper()
	conn := newFakeConn()
	h := newRecordingHandler()
	done := make(chan bool)
	c := NewClient(conn, h, done, ble.NopLogger{})
	go c.Loop()
	t.Cleanup(func() { close(done) })
	return c, conn, h
}

func TestExchangeMTU(t *testing.T) {
	c, conn, _ := newTestClient(t)

	go func() {
		req := <-conn.writec
		require.EqualValues(t, ExchangeMTURequestCode, req[0])
		require.EqualValues(t, 100, binary.LittleEndian.Uint16(req[1:]))

		rsp := ExchangeMTUResponse(make([]byte, 3))
		rsp.SetAttributeOpcode()
		rsp.SetServerRxMTU(185)
		conn.readc <- rsp
	}()

	mtu, err := c.ExchangeMTU(100)
	require.NoError(t, err)
	assert.Equal(t, 185, mtu)
	assert.Equal(t, 185, conn.TxMTU())
}

func TestExchangeMTURejectsBelowFloor(t *testing.T) {
	c, _, _ := newTestClient(t)
	_, err := c.ExchangeMTU(ble.ATTDefaultMTU - 1)
	assert.Equal(t, ErrInvalidArgument, err)
}

func TestReadErrorResponseMapsToATTError(t *testing.T) {
	c, conn, _ := newTestClient(t)

	go func() {
		<-conn.writec
		conn.readc <- newErrorResponse(ReadRequestCode, 0x0042, byte(ble.ErrInvalidHandle))
	}()

	_, err := c.Read(0x0042)
	assert.Equal(t, ble.ErrInvalidHandle, err)
}

func TestSingleInFlightSerializesRequests(t *testing.T) {
	c, conn, _ := newTestClient(t)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := c.Read(0x0001)
		results <- err
	}()
	go func() {
		defer wg.Done()
		_, err := c.Read(0x0002)
		results <- err
	}()

	// Only one request should be writable at a time; answer them one at a
	// time and confirm the second caller was still blocked until the
	// first got its response.
	first := <-conn.writec
	select {
	case <-conn.writec:
		t.Fatal("second request was sent before the first received a response")
	case <-time.After(20 * time.Millisecond):
	}
	rsp := ReadResponse(make([]byte, 2))
	rsp.SetAttributeOpcode()
	rsp.SetAttributeValue([]byte{0x01})
	_ = first
	conn.readc <- rsp

	second := <-conn.writec
	_ = second
	conn.readc <- rsp

	wg.Wait()
	close(results)
	for err := range results {
		assert.NoError(t, err)
	}
}

func TestNotificationRoutedWithoutConfirmation(t *testing.T) {
	_, conn, h := newTestClient(t)

	pdu := HandleValueNotification(make([]byte, 5))
	pdu.SetAttributeOpcode()
	pdu.SetAttributeHandle(0x0010)
	pdu.SetAttributeValue([]byte{0xAB, 0xCD})
	conn.readc <- pdu

	<-h.notified

	select {
	case w := <-conn.writec:
		t.Fatalf("unexpected write after notification: %x", w)
	case <-time.After(10 * time.Millisecond):
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.notifications, 1)
}

func TestIndicationConfirmedBeforeDispatch(t *testing.T) {
	_, conn, h := newTestClient(t)

	pdu := HandleValueIndication(make([]byte, 5))
	pdu.SetAttributeOpcode()
	pdu.SetAttributeHandle(0x0011)
	pdu.SetAttributeValue([]byte{0x01})
	conn.readc <- pdu

	confirm := <-conn.writec
	assert.EqualValues(t, HandleValueConfirmationCode, confirm[0])

	<-h.notified
	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.indications, 1)
}
