// Package att implements the Attribute Protocol client: a single-in-flight
// request/response multiplexer over an ble.Conn, plus the sub-procedure
// wire calls (MTU exchange, discovery, read/write, long-value transfer)
// built on top of it. [Vol 3, Part F]
package att

import (
	"encoding/binary"
	"errors"
	"io"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/nimbus-ble/ble"
)

// reqTimeout bounds how long a request waits for its matching response
// before the client gives up and reports a sequential protocol timeout.
// [Vol 3, Part F, 3.3.3]
const reqTimeout = 30 * time.Second

// NotificationHandler receives server-initiated PDUs routed off the
// single-in-flight request path. For an indication, the client has already
// written the confirmation back to the peer by the time HandleIndication is
// invoked — the handler cannot delay it.
type NotificationHandler interface {
	HandleNotification(handle uint16, value []byte)
	HandleIndication(handle uint16, value []byte)
}

// Client is an Attribute Protocol client multiplexed over a single Conn.
// Only one request may be outstanding at a time; Client serializes callers
// by having every request-issuing method acquire the shared txBuf before
// writing and hold it until the matching response (or an error) arrives.
//
type Client struct {
	l2c  ble.Conn
	rspc chan []byte

	rxBuf      []byte
	chTxBuf    chan []byte
	chErr      chan error
	handler    NotificationHandler
	done       chan bool
	connClosed chan struct{}

	ble.Logger
}

// NewClient returns an Attribute Protocol client writing/reading PDUs over
// l2c. h receives routed notifications and indications; done, when closed
// by the caller, stops Loop and fails any request in flight.
func NewClient(l2c ble.Conn, h NotificationHandler, done chan bool, l ble.Logger) *Client {
	c := &Client{
		l2c:        l2c,
		rspc:       make(chan []byte),
		chTxBuf:    make(chan []byte, 1),
		rxBuf:      make([]byte, ble.MaxMTU),
		chErr:      make(chan error, 1),
		handler:    h,
		done:       done,
		connClosed: make(chan struct{}),
		Logger:     l,
	}
	c.chTxBuf <- make([]byte, l2c.TxMTU())

	go func() {
		<-l2c.Disconnected()
		close(c.connClosed)
	}()

	return c
}

// ExchangeMTU informs the server of the client's maximum receive MTU size
// and asks the server to respond with its own. [Vol 3, Part F, 3.4.2.1 & 3.4.2.2]
func (c *Client) ExchangeMTU(clientRxMTU int) (serverRxMTU int, err error) {
	if clientRxMTU < ble.ATTDefaultMTU || clientRxMTU > ble.MaxMTU {
		return 0, ErrInvalidArgument
	}

	// Acquire and reuse the txBuf, and release it after usage.
	// The same txBuf, or a newly allocated one if txMTU changed, is
	// released back to the channel.
	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	// Let L2CAP know the MTU we can handle.
	c.l2c.SetRxMTU(clientRxMTU)

	req := ExchangeMTURequest(txBuf[:3])
	req.SetAttributeOpcode()
	req.SetClientRxMTU(uint16(clientRxMTU))

	b, err := c.sendReq(req)
	if err != nil {
		return 0, err
	}

	rsp := ExchangeMTUResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return 0, ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		fallthrough
	case len(rsp) != 3:
		return 0, ErrInvalidResponse
	}

	txMTU := int(rsp.ServerRxMTU())
	if len(txBuf) != txMTU {
		c.l2c.SetTxMTU(txMTU)
		txBuf = make([]byte, txMTU)
	}

	return txMTU, nil
}

// ReadRSSI reads the RSSI of the underlying link. This is a transport
// property, not an ATT PDU, so it passes straight through to the Conn.
func (c *Client) ReadRSSI() (int8, error) {
	return c.l2c.ReadRSSI()
}

// FindInformation obtains the mapping of attribute handles to their
// associated types, letting a client discover the attributes present on a
// server without already knowing their types. [Vol 3, Part F, 3.4.3.1 & 3.4.3.2]
func (c *Client) FindInformation(starth, endh uint16) (format int, data []byte, err error) {
	if starth == 0 || starth > endh {
		return 0x00, nil, ErrInvalidArgument
	}

	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := FindInformationRequest(txBuf[:5])
	req.SetAttributeOpcode()
	req.SetStartingHandle(starth)
	req.SetEndingHandle(endh)

	b, err := c.sendReq(req)
	if err != nil {
		return 0x00, nil, err
	}

	rsp := FindInformationResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return 0x00, nil, ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		fallthrough
	case len(rsp) < 6:
		fallthrough
	case rsp.Format() == FindInfoFormat16Bit && ((len(rsp)-2)%4) != 0:
		fallthrough
	case rsp.Format() == FindInfoFormat128Bit && ((len(rsp)-2)%18) != 0:
		return 0x00, nil, ErrInvalidResponse
	}
	return int(rsp.Format()), rsp.InformationData(), nil
}

// HandleInformationList is the repeating [handle, group-end-handle] tuple
// carried in a Find By Type Value Response. [Vol 3, Part F, 3.4.3.4]
type HandleInformationList []byte

// FoundAttributeHandle returns the handle of the attribute that matched.
func (l HandleInformationList) FoundAttributeHandle() uint16 { return binary.LittleEndian.Uint16(l[0:]) }

// GroupEndHandle returns the last handle in the attribute's group (equal
// to FoundAttributeHandle for a non-grouping attribute).
func (l HandleInformationList) GroupEndHandle() uint16 { return binary.LittleEndian.Uint16(l[2:]) }

// FindByTypeValue obtains the handles of attributes with a known 16-bit
// type and a known value, without knowing the handle in advance — used to
// discover primary services by UUID directly rather than walking and
// filtering the full service list. [Vol 3, Part F, 3.4.3.3 & 3.4.3.4]
func (c *Client) FindByTypeValue(starth, endh, attrType uint16, value []byte) ([]HandleInformationList, error) {
	if starth == 0 || starth > endh {
		return nil, ErrInvalidArgument
	}

	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := FindByTypeValueRequest(txBuf[:7+len(value)])
	req.SetAttributeOpcode()
	req.SetStartingHandle(starth)
	req.SetEndingHandle(endh)
	req.SetAttributeType(attrType)
	req.SetAttributeValue(value)

	b, err := c.sendReq(req)
	if err != nil {
		return nil, err
	}

	rsp := FindByTypeValueResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return nil, ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		fallthrough
	case len(rsp.HandleInformationList())%4 != 0:
		return nil, ErrInvalidResponse
	}

	raw := rsp.HandleInformationList()
	list := make([]HandleInformationList, 0, len(raw)/4)
	for len(raw) > 0 {
		list = append(list, HandleInformationList(raw[:4]))
		raw = raw[4:]
	}
	return list, nil
}

// ReadByType obtains the values of attributes whose type is known but
// whose handle is not. [Vol 3, Part F, 3.4.4.1 & 3.4.4.2]
func (c *Client) ReadByType(starth, endh uint16, uuid ble.UUID) (int, []byte, error) {
	if starth > endh || (uuid.Len() != 2 && uuid.Len() != 16) {
		return 0, nil, ErrInvalidArgument
	}

	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := ReadByTypeRequest(txBuf[:5+uuid.Len()])
	req.SetAttributeOpcode()
	req.SetStartingHandle(starth)
	req.SetEndingHandle(endh)
	req.SetAttributeType(uuid.Bytes())

	b, err := c.sendReq(req)
	if err != nil {
		return 0, nil, err
	}

	rsp := ReadByTypeResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return 0, nil, ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		fallthrough
	case len(rsp) < 4 || len(rsp.AttributeDataList())%int(rsp.Length()) != 0:
		return 0, nil, ErrInvalidResponse
	}
	return int(rsp.Length()), rsp.AttributeDataList(), nil
}

// Read requests the server return the full value of an attribute.
// [Vol 3, Part F, 3.4.4.3 & 3.4.4.4]
func (c *Client) Read(handle uint16) ([]byte, error) {
	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := ReadRequest(txBuf[:3])
	req.SetAttributeOpcode()
	req.SetAttributeHandle(handle)

	b, err := c.sendReq(req)
	if err != nil {
		return nil, err
	}

	rsp := ReadResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return nil, ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		fallthrough
	case len(rsp) < 1:
		return nil, ErrInvalidResponse
	}
	return rsp.AttributeValue(), nil
}

// ReadBlob requests part of an attribute's value at a given offset, used to
// read values longer than fit in a single Read Response.
// [Vol 3, Part F, 3.4.4.5 & 3.4.4.6]
func (c *Client) ReadBlob(handle, offset uint16) ([]byte, error) {
	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := ReadBlobRequest(txBuf[:5])
	req.SetAttributeOpcode()
	req.SetAttributeHandle(handle)
	req.SetValueOffset(offset)

	b, err := c.sendReq(req)
	if err != nil {
		return nil, err
	}

	rsp := ReadBlobResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return nil, ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		fallthrough
	case len(rsp) < 1:
		return nil, ErrInvalidResponse
	}
	return rsp.PartAttributeValue(), nil
}

// ReadMultiple requests the values of two or more attributes of known
// fixed size in a single round trip. [Vol 3, Part F, 3.4.4.7 & 3.4.4.8]
func (c *Client) ReadMultiple(handles []uint16) ([]byte, error) {
	if len(handles) < 2 || len(handles)*2 > c.l2c.TxMTU()-1 {
		return nil, ErrInvalidArgument
	}

	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := ReadMultipleRequest(txBuf[:1+len(handles)*2])
	req.SetAttributeOpcode()
	p := req.SetOfHandles()
	for _, h := range handles {
		binary.LittleEndian.PutUint16(p, h)
		p = p[2:]
	}

	b, err := c.sendReq(req)
	if err != nil {
		return nil, err
	}

	rsp := ReadMultipleResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return nil, ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		fallthrough
	case len(rsp) < 1:
		return nil, ErrInvalidResponse
	}
	return rsp.SetOfValues(), nil
}

// ReadByGroupType obtains the values of grouping attributes (primary and
// secondary services) whose type is known but whose handles are not.
// [Vol 3, Part F, 3.4.4.9 & 3.4.4.10]
func (c *Client) ReadByGroupType(starth, endh uint16, uuid ble.UUID) (int, []byte, error) {
	if starth > endh || (uuid.Len() != 2 && uuid.Len() != 16) {
		return 0, nil, ErrInvalidArgument
	}

	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := ReadByGroupTypeRequest(txBuf[:5+uuid.Len()])
	req.SetAttributeOpcode()
	req.SetStartingHandle(starth)
	req.SetEndingHandle(endh)
	req.SetAttributeGroupType(uuid.Bytes())

	b, err := c.sendReq(req)
	if err != nil {
		return 0, nil, err
	}

	rsp := ReadByGroupTypeResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return 0, nil, ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		fallthrough
	case len(rsp) < 4:
		fallthrough
	case len(rsp.AttributeDataList())%int(rsp.Length()) != 0:
		return 0, nil, ErrInvalidResponse
	}

	return int(rsp.Length()), rsp.AttributeDataList(), nil
}

// Write requests the server write an attribute's value and acknowledge it
// with a Write Response. [Vol 3, Part F, 3.4.5.1 & 3.4.5.2]
func (c *Client) Write(handle uint16, value []byte) error {
	if len(value) > c.l2c.TxMTU()-3 {
		return ErrInvalidArgument
	}

	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := WriteRequest(txBuf[:3+len(value)])
	req.SetAttributeOpcode()
	req.SetAttributeHandle(handle)
	req.SetAttributeValue(value)

	b, err := c.sendReq(req)
	if err != nil {
		return err
	}

	rsp := WriteResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		return ErrInvalidResponse
	}
	return nil
}

// WriteCommand requests the server write an attribute's value with no
// acknowledgement. It does not occupy the single request slot beyond the
// write itself: there is no response to wait for. [Vol 3, Part F, 3.4.5.3]
func (c *Client) WriteCommand(handle uint16, value []byte) error {
	if len(value) > c.l2c.TxMTU()-3 {
		return ErrInvalidArgument
	}

	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := WriteCommand(txBuf[:3+len(value)])
	req.SetAttributeOpcode()
	req.SetAttributeHandle(handle)
	req.SetAttributeValue(value)

	return c.sendCmd(req)
}

// SignedWrite requests the server write an attribute's value, authenticated
// by a CSRK-derived signature instead of link-layer encryption — the one
// write variant usable on an unencrypted link. [Vol 3, Part F, 3.4.5.4]
func (c *Client) SignedWrite(handle uint16, value []byte, signature [12]byte) error {
	if len(value) > c.l2c.TxMTU()-15 {
		return ErrInvalidArgument
	}

	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := SignedWriteCommand(txBuf[:15+len(value)])
	req.SetAttributeOpcode()
	req.SetAttributeHandle(handle)
	req.SetAttributeValue(value)
	req.SetAuthenticationSignature(signature)

	return c.sendCmd(req)
}

// PrepareWrite queues part of a long write in the server's prepare queue.
// The server echoes back the handle, offset and value so the client can
// verify the queued write matches what it sent before executing it.
// [Vol 3, Part F, 3.4.6.1 & 3.4.6.2]
func (c *Client) PrepareWrite(handle uint16, offset uint16, value []byte) (uint16, uint16, []byte, error) {
	if len(value) > c.l2c.TxMTU()-5 {
		return 0, 0, nil, ErrInvalidArgument
	}

	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := PrepareWriteRequest(txBuf[:5+len(value)])
	req.SetAttributeOpcode()
	req.SetAttributeHandle(handle)
	req.SetValueOffset(offset)
	req.SetPartAttributeValue(value)

	b, err := c.sendReq(req)
	if err != nil {
		return 0, 0, nil, err
	}

	rsp := PrepareWriteResponse(b)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return 0, 0, nil, ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		fallthrough
	case len(rsp) < 5:
		return 0, 0, nil, ErrInvalidResponse
	}
	return rsp.AttributeHandle(), rsp.ValueOffset(), rsp.PartAttributeValue(), nil
}

// ExecuteWrite commits (flags == ExecuteWriteImmediately) or discards
// (flags == ExecuteWriteCancel) every value currently queued by prior
// PrepareWrite calls, atomically. [Vol 3, Part F, 3.4.6.3 & 3.4.6.4]
func (c *Client) ExecuteWrite(flags uint8) error {
	txBuf := <-c.chTxBuf
	defer func() { c.chTxBuf <- txBuf }()

	req := ExecuteWriteRequest(txBuf[:2])
	req.SetAttributeOpcode()
	req.SetFlags(flags)

	rspBytes, err := c.sendReq(req)
	if err != nil {
		return err
	}

	rsp := ExecuteWriteResponse(rspBytes)
	switch {
	case rsp[0] == ErrorResponseCode && len(rsp) == 5:
		return ble.ATTError(rsp[4])
	case rsp[0] == ErrorResponseCode && len(rsp) != 5:
		fallthrough
	case rsp[0] != rsp.AttributeOpcode():
		return ErrInvalidResponse
	}
	return nil
}

func (c *Client) sendCmd(b []byte) error {
	_, err := c.l2c.Write(b)
	return pkgerrors.Wrap(err, "att: write command")
}

// sendReq writes a request and blocks for its matching response, an error
// on the link, or the protocol timeout — whichever comes first. Holding
// txBuf for the duration of this call is what gives the client its
// single-in-flight guarantee: no other request-issuing method can proceed
// until this one returns.
func (c *Client) sendReq(b []byte) (rsp []byte, err error) {
	c.Debugf("req: %x", b)
	if _, err := c.l2c.Write(b); err != nil {
		return nil, pkgerrors.Wrap(err, "att: send request")
	}
	for {
		select {
		case rsp := <-c.rspc:
			if rsp[0] == ErrorResponseCode || rsp[0] == rspOfReq[b[0]] {
				return rsp, nil
			}
			// A peer that sends us an unsolicited request while we're
			// waiting on our own is answered with Request Not Supported
			// and otherwise ignored; we keep waiting for our response.
			errRsp := newErrorResponse(rsp[0], 0x0000, byte(ble.ErrReqNotSupp))
			c.Debugf("unsolicited: %x", rsp)
			if _, err := c.l2c.Write(errRsp); err != nil {
				return nil, pkgerrors.Wrap(err, "att: respond to unsolicited request")
			}
		case err := <-c.chErr:
			return nil, pkgerrors.Wrap(err, "att: request failed")
		case <-c.done:
			return nil, ErrClientClosed
		case <-c.connClosed:
			return nil, ErrClientClosed
		case <-time.After(reqTimeout):
			return nil, ErrSeqProtoTimeout
		}
	}
}

// Loop reads PDUs off the Conn until it is closed or done fires. Response
// PDUs are routed to whichever sendReq call is waiting; notifications and
// indications are routed to the NotificationHandler. An indication is
// confirmed synchronously, before HandleIndication runs, so the peer never
// waits on application code to receive its acknowledgement.
func (c *Client) Loop() {
	type asyncWork struct {
		handle func([]byte)
		data   []byte
	}

	ch := make(chan asyncWork, 16)
	defer close(ch)
	go func() {
		for w := range ch {
			w.handle(w.data)
		}
	}()

	confirmation := []byte{HandleValueConfirmationCode}
	for {
		select {
		case <-c.done:
			c.Debug("att client loop: done")
			return
		case <-c.connClosed:
			c.Debug("att client loop: conn closed")
			return
		default:
		}

		n, err := c.l2c.Read(c.rxBuf)
		select {
		case <-c.done:
			c.Debug("att client loop: done")
			return
		case <-c.connClosed:
			c.Debug("att client loop: conn closed")
			return
		default:
		}
		if err != nil {
			if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, io.EOF) {
				c.Debug("att client loop: conn closed while reading")
			} else {
				c.Errorf("att client loop: read: %v", err)
			}
			select {
			case c.chErr <- err:
			default:
			}
			return
		}

		b := make([]byte, n)
		copy(b, c.rxBuf[:n])
		c.Debugf("rx: %x", b)

		switch b[0] {
		case HandleValueNotificationCode:
			pdu := HandleValueNotification(b)
			handle, value := pdu.AttributeHandle(), pdu.AttributeValue()
			select {
			case ch <- asyncWork{handle: func([]byte) { c.handler.HandleNotification(handle, value) }}:
			default:
				c.Error("att client loop: dropped notification, handler backlogged")
			}

		case HandleValueIndicationCode:
			pdu := HandleValueIndication(b)
			handle, value := pdu.AttributeHandle(), pdu.AttributeValue()
			// Confirm before dispatch: the peer's indication timer is
			// running the moment it sent the PDU.
			if _, err := c.l2c.Write(confirmation); err != nil {
				c.Errorf("att client loop: confirm indication: %v", err)
			}
			select {
			case ch <- asyncWork{handle: func([]byte) { c.handler.HandleIndication(handle, value) }}:
			default:
				c.Error("att client loop: dropped indication, handler backlogged")
			}

		default:
			// Every other opcode we might see here is a response to a
			// request we issued (we never act as an ATT server).
			select {
			case <-c.done:
				return
			case <-c.connClosed:
				return
			case c.rspc <- b:
			}
		}
	}
}
