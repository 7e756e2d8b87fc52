package ble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCharacteristicRejectsDuplicateUUID(t *testing.T) {
	s := &Service{UUID: UUID16(0x1800)}
	s.AddCharacteristic(&Characteristic{UUID: UUID16(0x2A00)})

	assert.Panics(t, func() {
		s.AddCharacteristic(&Characteristic{UUID: UUID16(0x2A00)})
	})
}

func TestAddDescriptorTracksCCCD(t *testing.T) {
	c := &Characteristic{UUID: UUID16(0x2A00)}
	require.Nil(t, c.CCCD)

	d := c.AddDescriptor(&Descriptor{UUID: ClientCharacteristicConfigUUID, Handle: 9})
	require.NotNil(t, c.CCCD)
	assert.Same(t, d, c.CCCD)
}

func TestProfileFindLocatesNestedEntities(t *testing.T) {
	target := &Characteristic{UUID: UUID16(0x2A19)}
	svc := &Service{UUID: UUID16(0x180F)}
	svc.AddCharacteristic(&Characteristic{UUID: UUID16(0x2A00)})
	svc.AddCharacteristic(target)

	profile := &Profile{Services: []*Service{svc}}

	found := profile.Find(&Characteristic{UUID: UUID16(0x2A19)})
	require.NotNil(t, found)
	assert.Same(t, target, found)

	assert.Nil(t, profile.Find(&Characteristic{UUID: UUID16(0xDEAD)}))
}

func TestProfileFindRejectsUnsupportedType(t *testing.T) {
	profile := &Profile{}
	assert.Nil(t, profile.Find("not a profile entity"))
}
