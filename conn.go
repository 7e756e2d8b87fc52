package ble

import (
	"context"
	"io"
)

// Addr identifies one end of a BLE link. It is deliberately minimal: address
// formatting and resolution belong to the HCI/GAP layers this core treats as
// external collaborators.
type Addr interface {
	// Bytes returns the address in wire order (as carried on advertising PDUs).
	Bytes() []byte
	String() string
}

// Conn is the downward interface this core consumes: a reliable, ordered,
// bidirectional L2CAP fixed-channel byte pipe with a known local/remote MTU
// ceiling. Security establishment (pairing, bonding, encryption) happens
// below this interface; by the time a Conn is handed to an att.Client the
// link is already at whatever security level the application requires.
type Conn interface {
	io.ReadWriteCloser

	// Context returns the context that is used by this Conn.
	Context() context.Context

	// SetContext sets the context that is used by this Conn.
	SetContext(ctx context.Context)

	// LocalAddr returns local device's address.
	LocalAddr() Addr

	// RemoteAddr returns remote device's address.
	RemoteAddr() Addr

	// ReadRSSI returns the remote device's RSSI.
	ReadRSSI() (int8, error)

	// RxMTU returns the ATT_MTU which the local device is capable of accepting.
	RxMTU() int

	// SetRxMTU sets the ATT_MTU which the local device is capable of accepting.
	SetRxMTU(mtu int)

	// TxMTU returns the ATT_MTU which the remote device is capable of accepting.
	TxMTU() int

	// SetTxMTU sets the ATT_MTU which the remote device is capable of accepting.
	SetTxMTU(mtu int)

	// Disconnected returns a receiving channel, which is closed when the connection disconnects.
	Disconnected() <-chan struct{}
}
