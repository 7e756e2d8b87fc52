package att

import (
	"context"
	"sync"

	"github.com/nimbus-ble/ble"
)

// fakeAddr is a throwaway ble.Addr for tests that don't care what it says.
type fakeAddr string

func (a fakeAddr) Bytes() []byte  { return []byte(a) }
func (a fakeAddr) String() string { return string(a) }

// fakeConn is a channel-driven ble.Conn double: Write pushes the PDU onto
// writec for the test to inspect, Read blocks for the test to push a PDU
// onto readc. This lets a test drive both directions of the wire without
// a real transport. [paypal-gatt's testL2CShim — same shape, client side]
type fakeConn struct {
	readc  chan []byte
	writec chan []byte

	mu        sync.Mutex
	rxMTU     int
	txMTU     int
	closeOnce sync.Once
	done      chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		readc:  make(chan []byte, 8),
		writec: make(chan []byte, 8),
		rxMTU:  ble.ATTDefaultMTU,
		txMTU:  ble.ATTDefaultMTU,
		done:   make(chan struct{}),
	}
}

func (c *fakeConn) Read(b []byte) (int, error) {
	select {
	case r := <-c.readc:
		return copy(b, r), nil
	case <-c.done:
		return 0, errClosed
	}
}

func (c *fakeConn) Write(b []byte) (int, error) {
	cp := make([]byte, len(b))
	copy(cp, b)
	select {
	case c.writec <- cp:
		return len(b), nil
	case <-c.done:
		return 0, errClosed
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) Context() context.Context       { return context.Background() }
func (c *fakeConn) SetContext(ctx context.Context) {}
func (c *fakeConn) LocalAddr() ble.Addr            { return fakeAddr("local") }
func (c *fakeConn) RemoteAddr() ble.Addr           { return fakeAddr("remote") }
func (c *fakeConn) ReadRSSI() (int8, error)        { return -42, nil }

func (c *fakeConn) RxMTU() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rxMTU
}
func (c *fakeConn) SetRxMTU(mtu int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rxMTU = mtu
}
func (c *fakeConn) TxMTU() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txMTU
}
func (c *fakeConn) SetTxMTU(mtu int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.txMTU = mtu
}

func (c *fakeConn) Disconnected() <-chan struct{} { return c.done }

type closedErr struct{}

func (closedErr) Error() string { return "fakeConn: closed" }

var errClosed = closedErr{}
