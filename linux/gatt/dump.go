package gatt

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/nimbus-ble/ble"
)

// dumpService/dumpCharacteristic/dumpDescriptor are the JSON-friendly shape
// DumpProfile renders a discovered profile into, since ble.UUID and
// ble.Property don't carry struct tags of their own (the core package has
// no JSON dependency — only this diagnostic path does).
type dumpService struct {
	UUID            string               `json:"uuid"`
	Handle          uint16               `json:"handle"`
	EndHandle       uint16               `json:"end_handle"`
	Characteristics []dumpCharacteristic `json:"characteristics,omitempty"`
}

type dumpCharacteristic struct {
	UUID              string          `json:"uuid"`
	Property          uint8           `json:"property"`
	DeclarationHandle uint16          `json:"declaration_handle"`
	ValueHandle       uint16          `json:"value_handle"`
	EndHandle         uint16          `json:"end_handle"`
	Descriptors       []dumpDescriptor `json:"descriptors,omitempty"`
}

type dumpDescriptor struct {
	UUID   string `json:"uuid"`
	Handle uint16 `json:"handle"`
}

// DumpProfile renders a discovered profile to indented JSON for logging
// and diagnostics. It is not a cache: nothing reads this back in, and
// nothing persists it across connections.
func DumpProfile(p *ble.Profile) (string, error) {
	services := make([]dumpService, 0, len(p.Services))
	for _, s := range p.Services {
		ds := dumpService{
			UUID:      s.UUID.String(),
			Handle:    s.Handle,
			EndHandle: s.EndHandle,
		}
		for _, c := range s.Characteristics {
			dc := dumpCharacteristic{
				UUID:              c.UUID.String(),
				Property:          uint8(c.Property),
				DeclarationHandle: c.DeclarationHandle,
				ValueHandle:       c.ValueHandle,
				EndHandle:         c.EndHandle,
			}
			for _, d := range c.Descriptors {
				dc.Descriptors = append(dc.Descriptors, dumpDescriptor{UUID: d.UUID.String(), Handle: d.Handle})
			}
			ds.Characteristics = append(ds.Characteristics, dc)
		}
		services = append(services, ds)
	}

	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(services, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
