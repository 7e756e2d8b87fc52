// Package gatt implements a Generic Attribute Profile client: the
// discovery, read/write and subscription sub-procedures defined in terms
// of the att package's request primitives. [Vol 3, Part G]
package gatt

import (
	"encoding/binary"
	"encoding/hex"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/nimbus-ble/ble"
	"github.com/nimbus-ble/ble/linux/att"
)

const (
	cccNotify   = uint16(0x0001)
	cccIndicate = uint16(0x0002)
)

// A Client is a GATT client bound to one connection.
type Client struct {
	sync.Mutex

	profile *ble.Profile
	name    string
	subs    map[uint16]*sub

	inLongWrite bool

	ac *att.Client

	conn ble.Conn

	ble.Logger
}

type sub struct {
	cccdh    uint16
	ccc      uint16
	nHandler ble.NotificationHandler
	iHandler ble.NotificationHandler
}

// NewClient returns a GATT client and starts its ATT read loop.
func NewClient(conn ble.Conn, done chan bool, l ble.Logger) (*Client, error) {
	cl := l.ChildLogger(map[string]interface{}{"gatt": hex.EncodeToString(conn.RemoteAddr().Bytes())})
	p := &Client{
		subs:   make(map[uint16]*sub),
		conn:   conn,
		Logger: cl,
	}
	p.ac = att.NewClient(conn, p, done, cl)

	go p.ac.Loop()

	return p, nil
}

// Addr returns the address of the remote server.
func (p *Client) Addr() ble.Addr {
	p.Lock()
	defer p.Unlock()
	return p.conn.RemoteAddr()
}

// Name returns the server's device name as stored on the client. No method
// of Client sets it, so it is always the empty string.
func (p *Client) Name() string {
	p.Lock()
	defer p.Unlock()
	return p.name
}

// Profile returns the profile discovered by the most recent
// DiscoverProfile call, or nil if none has been made.
func (p *Client) Profile() *ble.Profile {
	p.Lock()
	defer p.Unlock()
	return p.profile
}

// DiscoverProfile walks the full service/characteristic/descriptor
// hierarchy of the server. A repeated call returns the cached result
// unless force is set. [Vol 3, Part G, 4.4-4.7]
func (p *Client) DiscoverProfile(force bool) (*ble.Profile, error) {
	p.Lock()
	cached := p.profile
	p.Unlock()
	if cached != nil && !force {
		return cached, nil
	}

	ss, err := p.DiscoverServices(nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "discover services")
	}
	for _, s := range ss {
		cs, err := p.DiscoverCharacteristics(nil, s)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "discover characteristics")
		}
		for _, c := range cs {
			if _, err := p.DiscoverDescriptors(nil, c); err != nil {
				return nil, pkgerrors.Wrap(err, "discover descriptors")
			}
		}
	}

	p.Lock()
	p.profile = &ble.Profile{Services: ss}
	profile := p.profile
	p.Unlock()
	return profile, nil
}

// DiscoverServices finds all the primary services on a server, walking
// handle ranges with Read By Group Type until the range is exhausted.
// If filter is non-nil, only services whose UUID appears in it are kept,
// but the walk itself still covers the full handle space. [Vol 3, Part G, 4.4.1]
func (p *Client) DiscoverServices(filter []ble.UUID) ([]*ble.Service, error) {
	p.Lock()
	defer p.Unlock()

	var services []*ble.Service
	start := uint16(0x0001)
	for {
		length, b, err := p.ac.ReadByGroupType(start, 0xFFFF, ble.PrimaryServiceUUID)
		if err == ble.ErrAttrNotFound {
			break
		}
		if err != nil {
			return nil, err
		}
		for len(b) != 0 {
			h := binary.LittleEndian.Uint16(b[:2])
			endh := binary.LittleEndian.Uint16(b[2:4])
			if h == 0 || h < start || endh < h {
				return nil, att.ErrInvalidResponse
			}
			u := uuidFromBytes(b[4:length])
			if filter == nil || ble.Contains(filter, u) {
				services = append(services, &ble.Service{
					UUID:      u,
					IsPrimary: true,
					Handle:    h,
					EndHandle: endh,
				})
			}
			if endh == 0xFFFF {
				return services, nil
			}
			start = endh + 1
			b = b[length:]
		}
	}
	return services, nil
}

// FindServicesByUUID discovers only the primary services matching uuid,
// using Find By Type Value instead of a full Read By Group Type walk.
// [Vol 3, Part G, 4.4.2]
func (p *Client) FindServicesByUUID(uuid ble.UUID) ([]*ble.Service, error) {
	p.Lock()
	defer p.Unlock()

	var services []*ble.Service
	start := uint16(0x0001)
	for {
		list, err := p.ac.FindByTypeValue(start, 0xFFFF, binary.LittleEndian.Uint16(ble.PrimaryServiceUUID.Bytes()), uuid.Bytes())
		if err == ble.ErrAttrNotFound {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, hi := range list {
			h, endh := hi.FoundAttributeHandle(), hi.GroupEndHandle()
			services = append(services, &ble.Service{
				UUID:      uuid,
				IsPrimary: true,
				Handle:    h,
				EndHandle: endh,
			})
			if endh == 0xFFFF {
				return services, nil
			}
			start = endh + 1
		}
	}
	return services, nil
}

// DiscoverIncludedServices finds the included services of a service.
// [Vol 3, Part G, 4.5.1]
func (p *Client) DiscoverIncludedServices(filter []ble.UUID, s *ble.Service) ([]*ble.Service, error) {
	p.Lock()
	defer p.Unlock()

	var included []*ble.Service
	start := s.Handle
	for start <= s.EndHandle {
		length, b, err := p.ac.ReadByType(start, s.EndHandle, ble.IncludeUUID)
		if err == ble.ErrAttrNotFound {
			break
		} else if err != nil {
			return nil, err
		}
		for len(b) != 0 {
			h := binary.LittleEndian.Uint16(b[:2])
			inclh := binary.LittleEndian.Uint16(b[2:4])
			endh := binary.LittleEndian.Uint16(b[4:6])
			var u ble.UUID
			if length-6 > 0 {
				u = uuidFromBytes(b[6:length])
			}
			if filter == nil || ble.Contains(filter, u) {
				included = append(included, &ble.Service{UUID: u, IsPrimary: true, Handle: inclh, EndHandle: endh})
			}
			start = h + 1
			b = b[length:]
		}
	}
	return included, nil
}

// DiscoverCharacteristics finds all the characteristics within a service.
// [Vol 3, Part G, 4.6.1]
func (p *Client) DiscoverCharacteristics(filter []ble.UUID, s *ble.Service) ([]*ble.Characteristic, error) {
	p.Lock()
	defer p.Unlock()

	start := s.Handle
	var lastChar *ble.Characteristic
	for start <= s.EndHandle {
		length, b, err := p.ac.ReadByType(start, s.EndHandle, ble.CharacteristicUUID)
		if err == ble.ErrAttrNotFound {
			break
		} else if err != nil {
			return nil, err
		}
		for len(b) != 0 {
			h := binary.LittleEndian.Uint16(b[:2])
			if h == 0 || h < start {
				return nil, att.ErrInvalidResponse
			}
			prop := ble.Property(b[2])
			vh := binary.LittleEndian.Uint16(b[3:5])
			u := uuidFromBytes(b[5:length])
			c := &ble.Characteristic{
				UUID:              u,
				Property:          prop,
				DeclarationHandle: h,
				ValueHandle:       vh,
				EndHandle:         s.EndHandle,
			}
			if filter == nil || ble.Contains(filter, u) {
				s.Characteristics = append(s.Characteristics, c)
			}
			if lastChar != nil {
				lastChar.EndHandle = c.DeclarationHandle - 1
			}
			lastChar = c
			start = vh + 1
			b = b[length:]
		}
	}
	return s.Characteristics, nil
}

// DiscoverDescriptors finds all the descriptors within a characteristic.
// [Vol 3, Part G, 4.7.1]
func (p *Client) DiscoverDescriptors(filter []ble.UUID, c *ble.Characteristic) ([]*ble.Descriptor, error) {
	p.Lock()
	defer p.Unlock()

	start := c.ValueHandle + 1
	for start <= c.EndHandle {
		format, b, err := p.ac.FindInformation(start, c.EndHandle)
		if err == ble.ErrAttrNotFound {
			break
		} else if err != nil {
			return nil, err
		}
		length := 2 + 2
		if format == att.FindInfoFormat128Bit {
			length = 2 + 16
		}
		for len(b) != 0 {
			h := binary.LittleEndian.Uint16(b[:2])
			if h == 0 || h < start {
				return nil, att.ErrInvalidResponse
			}
			u := uuidFromBytes(b[2:length])
			d := &ble.Descriptor{UUID: u, Handle: h}
			if filter == nil || ble.Contains(filter, u) {
				c.AddDescriptor(d)
			}
			start = h + 1
			b = b[length:]
		}
	}
	return c.Descriptors, nil
}

// ReadCharacteristic reads a characteristic's value, transparently chaining
// Read Blob requests at increasing offsets per §4.C when the initial Read
// Response comes back full-length (MTU-1 bytes) — the prescribed signal
// that more data follows. A terminal ATT_INVALID_OFFSET once at least one
// byte has been accumulated is the prescribed end-of-value discovery
// mechanism, not a failure: the preceding blob read already read one octet
// past the end. [Vol 3, Part G, 4.8.1 & 4.8.3]
func (p *Client) ReadCharacteristic(c *ble.Characteristic) ([]byte, error) {
	p.Lock()
	defer p.Unlock()

	buffer := make([]byte, 0, ble.MaxMTU)

	read, err := p.ac.Read(c.ValueHandle)
	if err != nil {
		return nil, err
	}
	buffer = append(buffer, read...)

	for len(read) >= p.conn.TxMTU()-1 {
		read, err = p.ac.ReadBlob(c.ValueHandle, uint16(len(buffer)))
		if err != nil {
			if len(buffer) > 0 && err == ble.ErrInvalidOffset {
				break
			}
			return nil, err
		}
		buffer = append(buffer, read...)
	}

	c.Value = buffer
	return buffer, nil
}

// ReadCharacteristicsByUUID reads every attribute of type uuid within
// [starth, endh] in a single Read By Type round trip, returning each
// matching value keyed by its value handle. Unlike ReadCharacteristic, a
// value that reaches the single-response truncation threshold is NOT
// chased with follow-on Read Blob requests here — by design, per [Vol 3,
// Part G, 4.8.2]: a caller that needs the untruncated value for a specific
// handle must follow up with ReadCharacteristic for that handle alone.
func (p *Client) ReadCharacteristicsByUUID(uuid ble.UUID, starth, endh uint16) (map[uint16][]byte, error) {
	p.Lock()
	defer p.Unlock()

	length, b, err := p.ac.ReadByType(starth, endh, uuid)
	if err == ble.ErrAttrNotFound {
		return map[uint16][]byte{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := make(map[uint16][]byte)
	for len(b) != 0 {
		h := binary.LittleEndian.Uint16(b[:2])
		v := make([]byte, length-2)
		copy(v, b[2:length])
		values[h] = v
		b = b[length:]
	}
	return values, nil
}

// ReadMultipleCharacteristics reads the values of two or more
// characteristics in a single Read Multiple round trip, returning the raw
// concatenated value bytes in characteristic order. [Vol 3, Part G, 4.8.4]
//
// The server's response carries no per-value length prefix: the boundary
// between one characteristic's value and the next is recoverable only if
// the caller already knows each value's length out of band. Per [Vol 3,
// Part F, 3.4.4.8]'s warning (propagated at §4.E), do not call this if any
// of the characteristics could hold a value of MTU-1 bytes — that length
// is indistinguishable from a value truncated by the response boundary.
func (p *Client) ReadMultipleCharacteristics(cs []*ble.Characteristic) ([]byte, error) {
	p.Lock()
	defer p.Unlock()

	if len(cs) < 2 {
		return nil, att.ErrInvalidArgument
	}
	handles := make([]uint16, len(cs))
	for i, c := range cs {
		handles[i] = c.ValueHandle
	}
	return p.ac.ReadMultiple(handles)
}

// WriteCharacteristic writes a characteristic's value, per §4.E: a value
// that fits within the negotiated MTU is sent as a single Write Request, or
// as an unacknowledged Write Command if noRsp is set; a value that exceeds
// it falls through to the queued Prepare Write / Execute Write
// sub-procedure (WriteLongCharacteristic), with reliable controlling its
// echo verification — noRsp has no meaning for that path, since a long
// write is always acknowledged by its final Execute Write Response.
// [Vol 3, Part G, 4.9.3 & 4.9.4]
func (p *Client) WriteCharacteristic(c *ble.Characteristic, v []byte, noRsp, reliable bool) error {
	if len(v) > p.conn.TxMTU()-3 {
		return p.WriteLongCharacteristic(c, v, reliable)
	}

	p.Lock()
	defer p.Unlock()
	if noRsp {
		return p.ac.WriteCommand(c.ValueHandle, v)
	}
	return p.ac.Write(c.ValueHandle, v)
}

// ErrInLongWrite is returned when a long write is attempted while another
// is already queued on this client. The prepare queue is a single,
// server-wide resource per client; a second caller must wait its turn
// rather than interleave chunks into the same queue.
var ErrInLongWrite = pkgerrors.New("gatt: long write already in progress")

// WriteLongCharacteristic writes a value longer than fits a single Write
// Request using the queued Prepare Write / Execute Write sub-procedure.
// When reliable is true, each prepared chunk's echo is compared against
// what was sent, and any mismatch cancels the whole queue instead of
// executing a corrupted write. [Vol 3, Part G, 4.9.4 & 4.9.5]
func (p *Client) WriteLongCharacteristic(c *ble.Characteristic, v []byte, reliable bool) error {
	p.Lock()
	if p.inLongWrite {
		p.Unlock()
		return ErrInLongWrite
	}
	p.inLongWrite = true
	p.Unlock()

	defer func() {
		p.Lock()
		p.inLongWrite = false
		p.Unlock()
	}()

	for offset := 0; offset < len(v); {
		// Sampled every round, not cached at the start: a concurrent MTU
		// exchange may widen the link's capacity mid-write.
		chunk := p.conn.TxMTU() - 5
		if chunk < 1 {
			chunk = 1
		}
		end := offset + chunk
		if end > len(v) {
			end = len(v)
		}
		part := v[offset:end]

		rh, roff, rpart, err := p.ac.PrepareWrite(c.ValueHandle, uint16(offset), part)
		if err != nil {
			p.cancelQueuedWrite()
			return err
		}
		if reliable && (rh != c.ValueHandle || int(roff) != offset || !bytesEqual(rpart, part)) {
			p.cancelQueuedWrite()
			return pkgerrors.New("gatt: reliable write echo mismatch")
		}
		offset = end
	}

	if err := p.ac.ExecuteWrite(att.ExecuteWriteImmediately); err != nil {
		return err
	}
	c.Value = v
	return nil
}

// cancelQueuedWrite discards a partially-prepared queue on a best-effort
// basis; its own failure is not reported since the caller is already
// returning the error that triggered the cancellation.
func (p *Client) cancelQueuedWrite() {
	_ = p.ac.ExecuteWrite(att.ExecuteWriteCancel)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ReadDescriptor reads a characteristic descriptor. [Vol 3, Part G, 4.12.1]
func (p *Client) ReadDescriptor(d *ble.Descriptor) ([]byte, error) {
	p.Lock()
	defer p.Unlock()
	val, err := p.ac.Read(d.Handle)
	if err != nil {
		return nil, err
	}
	d.Value = val
	return val, nil
}

// WriteDescriptor writes a characteristic descriptor. [Vol 3, Part G, 4.12.3]
func (p *Client) WriteDescriptor(d *ble.Descriptor, v []byte) error {
	p.Lock()
	defer p.Unlock()
	return p.ac.Write(d.Handle, v)
}

// ReadRSSI retrieves the current RSSI of the connection. [Vol 2, Part E, 7.5.4]
func (p *Client) ReadRSSI() (int8, error) {
	p.Lock()
	defer p.Unlock()
	return p.ac.ReadRSSI()
}

// ExchangeMTU informs the server of the client's maximum receive MTU size
// and requests the server's own. [Vol 3, Part F, 3.4.2.1]
func (p *Client) ExchangeMTU(mtu int) (int, error) {
	p.Lock()
	defer p.Unlock()
	return p.ac.ExchangeMTU(mtu)
}

// Subscribe subscribes to indications (ind true) or notifications of a
// characteristic's value, registering h before the CCCD write is sent so
// that a server which starts pushing values the instant it sees the write
// never finds the subscription table empty. [Vol 3, Part G, 4.10 & 4.11]
func (p *Client) Subscribe(c *ble.Characteristic, ind bool, h ble.NotificationHandler) error {
	p.Lock()
	defer p.Unlock()
	if c.CCCD == nil {
		return ble.ErrCCCDNotAllowed
	}
	flag := cccNotify
	if ind {
		flag = cccIndicate
	}
	return p.setHandlers(c.CCCD.Handle, c.ValueHandle, flag, h)
}

// Unsubscribe cancels a notification or indication subscription.
// [Vol 3, Part G, 4.10 & 4.11]
func (p *Client) Unsubscribe(c *ble.Characteristic, ind bool) error {
	p.Lock()
	defer p.Unlock()
	if c.CCCD == nil {
		return ble.ErrCCCDNotAllowed
	}
	flag := cccNotify
	if ind {
		flag = cccIndicate
	}
	return p.setHandlers(c.CCCD.Handle, c.ValueHandle, flag, nil)
}

// setHandlers updates the subscription table before writing the CCCD, so
// a value pushed as soon as the server processes the write is never
// dropped for lack of a registered handler. If the write fails, the
// speculative registration is rolled back.
func (p *Client) setHandlers(cccdh, vh, flag uint16, h ble.NotificationHandler) error {
	s, ok := p.subs[vh]
	if !ok {
		s = &sub{cccdh: cccdh}
		p.subs[vh] = s
	}
	prevCCC := s.ccc
	var prevHandler ble.NotificationHandler
	if flag == cccNotify {
		prevHandler = s.nHandler
	} else {
		prevHandler = s.iHandler
	}

	switch {
	case h == nil && (s.ccc&flag) == 0:
		return nil
	case h != nil && (s.ccc&flag) != 0:
		return nil
	case h == nil && (s.ccc&flag) != 0:
		s.ccc &= ^flag
	case h != nil && (s.ccc&flag) == 0:
		s.ccc |= flag
	}
	if flag == cccNotify {
		s.nHandler = h
	} else {
		s.iHandler = h
	}

	v := make([]byte, 2)
	binary.LittleEndian.PutUint16(v, s.ccc)
	if err := p.ac.Write(cccdh, v); err != nil {
		s.ccc = prevCCC
		if flag == cccNotify {
			s.nHandler = prevHandler
		} else {
			s.iHandler = prevHandler
		}
		if s.ccc == 0 && s.nHandler == nil && s.iHandler == nil {
			delete(p.subs, vh)
		}
		return err
	}
	if s.ccc == 0 && s.nHandler == nil && s.iHandler == nil {
		delete(p.subs, vh)
	}
	return nil
}

// ClearSubscriptions cancels every notification and indication
// subscription on this client by zeroing each CCCD in turn.
func (p *Client) ClearSubscriptions() error {
	p.Lock()
	defer p.Unlock()
	zero := make([]byte, 2)
	for vh, s := range p.subs {
		if err := p.ac.Write(s.cccdh, zero); err != nil {
			return err
		}
		delete(p.subs, vh)
	}
	return nil
}

// CancelConnection closes the underlying connection.
func (p *Client) CancelConnection() error {
	p.Lock()
	defer p.Unlock()
	return p.conn.Close()
}

// Disconnected returns a channel closed when the connection drops.
func (p *Client) Disconnected() <-chan struct{} {
	p.Lock()
	defer p.Unlock()
	return p.conn.Disconnected()
}

// Conn returns the client's underlying connection.
func (p *Client) Conn() ble.Conn {
	return p.conn
}

// HandleNotification implements att.NotificationHandler, routing a pushed
// value to the handler registered by Subscribe for its value handle.
func (p *Client) HandleNotification(handle uint16, value []byte) {
	p.dispatch(handle, value, false)
}

// HandleIndication implements att.NotificationHandler. The ATT confirmation
// has already been sent by the time this runs; it only fans the value out
// to the application's handler.
func (p *Client) HandleIndication(handle uint16, value []byte) {
	p.dispatch(handle, value, true)
}

func (p *Client) dispatch(handle uint16, value []byte, indication bool) {
	p.Lock()
	s, ok := p.subs[handle]
	p.Unlock()
	if !ok {
		p.Warnf("got a notification for an unregistered handle 0x%04x", handle)
		return
	}

	var h ble.NotificationHandler
	if indication {
		h = s.iHandler
	} else {
		h = s.nHandler
	}
	if h == nil {
		select {
		case <-p.conn.Disconnected():
		default:
			p.Warnf("no handler registered for handle 0x%04x, indication=%v", handle, indication)
		}
		return
	}
	h(value)
}

// uuidFromBytes re-slices a raw wire fragment into an owned ble.UUID,
// copying it so the backing array of a reused read buffer can't alias it.
func uuidFromBytes(b []byte) ble.UUID {
	cp := make([]byte, len(b))
	copy(cp, b)
	if len(cp) == 2 {
		return ble.UUID16(binary.LittleEndian.Uint16(cp))
	}
	return ble.UUID128(cp)
}
