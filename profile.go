package ble

// Property is the bitmask of operations a characteristic declaration
// advertises. [Vol 3, Part G, 3.3.1.1]
type Property uint8

// Characteristic property flags.
const (
	CharBroadcast   Property = 0x01 // may be broadcast
	CharRead        Property = 0x02 // may be read
	CharWriteNR     Property = 0x04 // may be written to, with no reply
	CharWrite       Property = 0x08 // may be written to, with a reply
	CharNotify      Property = 0x10 // supports notifications
	CharIndicate    Property = 0x20 // supports indications
	CharSignedWrite Property = 0x40 // supports signed write commands
	CharExtended    Property = 0x80 // supports extended properties
)

// NotificationHandler receives a pushed value from a subscribed
// characteristic. req is the raw attribute value, unowned by the caller
// past the call.
type NotificationHandler func(req []byte)

// Profile is the service hierarchy discovered from a server.
type Profile struct {
	Services []*Service
}

// Find searches a discovered profile for the entity matching target's type
// and UUID. target must be a *Service, *Characteristic, or *Descriptor
// carrying the UUID to search for.
func (p *Profile) Find(target interface{}) interface{} {
	switch target.(type) {
	case *Service, *Characteristic, *Descriptor:
	default:
		return nil
	}
	for _, s := range p.Services {
		if ts, ok := target.(*Service); ok && s.UUID.Equal(ts.UUID) {
			return s
		}
		for _, c := range s.Characteristics {
			if tc, ok := target.(*Characteristic); ok && c.UUID.Equal(tc.UUID) {
				return c
			}
			for _, d := range c.Descriptors {
				if td, ok := target.(*Descriptor); ok && d.UUID.Equal(td.UUID) {
					return d
				}
			}
		}
	}
	return nil
}

// Service is a group of related attributes, delimited by [Handle, EndHandle]
// inclusive. gatt's DiscoverServices rejects a response whose EndHandle is
// below its Handle; FindServicesByUUID and DiscoverIncludedServices store
// the handles as the server sends them, without that check.
type Service struct {
	UUID      UUID
	IsPrimary bool

	Characteristics []*Characteristic

	Handle    uint16
	EndHandle uint16
}

// AddCharacteristic adds a characteristic to a service. AddCharacteristic
// panics if the service already contains another characteristic with the
// same UUID.
func (s *Service) AddCharacteristic(c *Characteristic) *Characteristic {
	for _, x := range s.Characteristics {
		if x.UUID.Equal(c.UUID) {
			panic("ble: service already contains a characteristic with UUID " + c.UUID.String())
		}
	}
	s.Characteristics = append(s.Characteristics, c)
	return c
}

// Characteristic is a named, typed attribute with metadata, a value handle,
// and optional descriptors. In conforming servers ValueHandle ==
// DeclarationHandle+1, but the wire carries both explicitly and this client
// trusts the wire over the assumption.
type Characteristic struct {
	UUID     UUID
	Property Property

	Descriptors []*Descriptor
	CCCD        *Descriptor

	Value []byte

	// DeclarationHandle is the handle of the characteristic declaration
	// attribute itself.
	DeclarationHandle uint16
	// ValueHandle is the handle of the characteristic's value attribute.
	ValueHandle uint16
	// EndHandle is the last handle belonging to this characteristic
	// (one less than the next characteristic's declaration handle, or the
	// owning service's EndHandle if this is the last characteristic).
	EndHandle uint16
}

// AddDescriptor adds a descriptor to a characteristic. AddDescriptor panics
// if the characteristic already contains another descriptor with the same
// UUID.
func (c *Characteristic) AddDescriptor(d *Descriptor) *Descriptor {
	for _, x := range c.Descriptors {
		if x.UUID.Equal(d.UUID) {
			panic("ble: characteristic already contains a descriptor with UUID " + d.UUID.String())
		}
	}
	c.Descriptors = append(c.Descriptors, d)
	if d.UUID.Equal(ClientCharacteristicConfigUUID) {
		c.CCCD = d
	}
	return d
}

// Descriptor is a metadata attribute attached to a characteristic. The
// Client Characteristic Configuration Descriptor (UUID 0x2902) controls
// notifications and indications.
type Descriptor struct {
	UUID   UUID
	Handle uint16
	Value  []byte
}
