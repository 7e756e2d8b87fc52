package ble

// ATTDefaultMTU is the ATT_MTU in effect before any MTU exchange takes
// place. [Vol 3, Part F, 3.2.8]
const ATTDefaultMTU = 23

// DefaultMTU is a preferred ATT_MTU an application can pass to ExchangeMTU.
// Nothing in this module requests it automatically.
const DefaultMTU = 339

// MaxMTU is maximum of ATT_MTU: 512 bytes of value length, plus 3 bytes of
// ATT header. The maximum length of an attribute value shall be 512 octets.
// [Vol 3, Part F, 3.2.9]
const MaxMTU = 512 + 3

// Declaration and descriptor UUIDs used by the discovery sub-procedures.
var (
	GAPUUID  = UUID16(0x1800) // Generic Access
	GATTUUID = UUID16(0x1801) // Generic Attribute

	PrimaryServiceUUID   = UUID16(0x2800)
	SecondaryServiceUUID = UUID16(0x2801)
	IncludeUUID          = UUID16(0x2802)
	CharacteristicUUID   = UUID16(0x2803)

	ClientCharacteristicConfigUUID = UUID16(0x2902)
	ServerCharacteristicConfigUUID = UUID16(0x2903)
)
