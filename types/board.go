package types

import (
	"strings"

	"flightcode-go/x/conv"
)

// ------------------------
// Board variants
// ------------------------

// Variant selects one hardware revision of the Sparky2 family.
// Values match the board revision codes burnt into the bootloader.
type Variant uint8

const (
	VariantUnknown    Variant = 0x00
	Sparky2V2_0       Variant = 0x01
	BrushedSparkyV0_1 Variant = 0x21
	BrushedSparkyV0_2 Variant = 0x22
)

// Variants lists every known revision, full-featured first.
var Variants = []Variant{Sparky2V2_0, BrushedSparkyV0_1, BrushedSparkyV0_2}

func (v Variant) String() string {
	switch v {
	case Sparky2V2_0:
		return "sparky2_v2_0"
	case BrushedSparkyV0_1:
		return "brushedsparky_v0_1"
	case BrushedSparkyV0_2:
		return "brushedsparky_v0_2"
	}
	return "unknown"
}

// Full reports whether v is the full-featured revision.
func (v Variant) Full() bool { return v == Sparky2V2_0 }

// ParseVariant accepts the String form (case-insensitive).
func ParseVariant(s string) (Variant, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range Variants {
		if v.String() == s {
			return v, true
		}
	}
	return VariantUnknown, false
}

// MarshalText / UnmarshalText let variants appear by name in YAML plans.
func (v Variant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Variant) UnmarshalText(b []byte) error {
	p, ok := ParseVariant(string(b))
	if !ok {
		return &parseError{what: "variant", s: string(b)}
	}
	*v = p
	return nil
}

// ------------------------
// Resource classes
// ------------------------

// Class is a kind of peripheral instance. Pooled classes carry a capacity.
type Class uint8

const (
	ClassNone Class = iota
	ClassCom
	ClassI2C
	ClassSPI
	ClassTimer
	ClassADCSubDriver
	ClassHSUM
	ClassPacketHandler
	ClassRadio

	NumClasses
)

var classNames = [NumClasses]string{
	ClassNone:          "none",
	ClassCom:           "com",
	ClassI2C:           "i2c",
	ClassSPI:           "spi",
	ClassTimer:         "timer",
	ClassADCSubDriver:  "adc",
	ClassHSUM:          "hsum",
	ClassPacketHandler: "packet_handler",
	ClassRadio:         "radio",
}

func (c Class) String() string {
	if c < NumClasses {
		return classNames[c]
	}
	return "unknown"
}

func ParseClass(s string) (Class, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c := ClassCom; c < NumClasses; c++ {
		if classNames[c] == s {
			return c, true
		}
	}
	return ClassNone, false
}

// ------------------------
// Roles
// ------------------------

// Role is a logical function a peripheral fulfils. The set is closed.
type Role uint8

const (
	RoleNone Role = iota

	// Communication channels.
	RoleGPS
	RoleTelemRF
	RoleTelemUSB
	RoleBridge
	RoleVCP
	RoleMAVLink
	RoleHoTT
	RoleFrSkySensorHub
	RoleFrSkySPort
	RoleLightTelemetry
	RolePicoC
	RoleDebug
	RoleOpenLog
	RoleSPIFlash

	// Packet handler transport.
	RolePacketHandler

	// I2C adapters.
	RoleI2CMain
	RoleI2CFlexi
	RoleI2CETASV3

	// Radio.
	RoleRFM22B
	RoleRFM22SPI

	NumRoles
)

type roleInfo struct {
	name  string
	class Class
}

var roles = [NumRoles]roleInfo{
	RoleNone:           {"none", ClassNone},
	RoleGPS:            {"gps", ClassCom},
	RoleTelemRF:        {"telem_rf", ClassCom},
	RoleTelemUSB:       {"telem_usb", ClassCom},
	RoleBridge:         {"bridge", ClassCom},
	RoleVCP:            {"vcp", ClassCom},
	RoleMAVLink:        {"mavlink", ClassCom},
	RoleHoTT:           {"hott", ClassCom},
	RoleFrSkySensorHub: {"frsky_sensor_hub", ClassCom},
	RoleFrSkySPort:     {"frsky_sport", ClassCom},
	RoleLightTelemetry: {"lighttelemetry", ClassCom},
	RolePicoC:          {"picoc", ClassCom},
	RoleDebug:          {"debug", ClassCom},
	RoleOpenLog:        {"openlog", ClassCom},
	RoleSPIFlash:       {"spiflash", ClassCom},
	RolePacketHandler:  {"packet_handler", ClassPacketHandler},
	RoleI2CMain:        {"i2c_main", ClassI2C},
	RoleI2CFlexi:       {"i2c_flexi", ClassI2C},
	RoleI2CETASV3:      {"i2c_etasv3", ClassI2C},
	RoleRFM22B:         {"rfm22b", ClassRadio},
	RoleRFM22SPI:       {"rfm22_spi", ClassSPI},
}

func (r Role) String() string {
	if r < NumRoles {
		return roles[r].name
	}
	return "unknown"
}

// Class returns the resource class a role binds to.
func (r Role) Class() Class {
	if r < NumRoles {
		return roles[r].class
	}
	return ClassNone
}

// Valid reports whether r is a real role (not RoleNone, in range).
func (r Role) Valid() bool { return r > RoleNone && r < NumRoles }

func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r := RoleNone + 1; r < NumRoles; r++ {
		if roles[r].name == s {
			return r, true
		}
	}
	return RoleNone, false
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Role) UnmarshalText(b []byte) error {
	p, ok := ParseRole(string(b))
	if !ok {
		return &parseError{what: "role", s: string(b)}
	}
	*r = p
	return nil
}

// ------------------------
// Handles
// ------------------------

// ID is an opaque handle for one bound peripheral instance.
// The zero ID is the "absent" sentinel and never names a real instance.
type ID uint32

// NoID is the absent sentinel.
const NoID ID = 0

const idClassShift = 24

// MakeID tags a 1-based instance number with its class.
func MakeID(c Class, n uint32) ID {
	return ID(uint32(c)<<idClassShift | n&(1<<idClassShift-1))
}

// Class recovers the class tag of a minted ID.
func (id ID) Class() Class { return Class(uint32(id) >> idClassShift) }

// Index is the 0-based instance index within its class.
func (id ID) Index() int { return int(uint32(id)&(1<<idClassShift-1)) - 1 }

// String renders the ID as fixed-width hex, e.g. 0x01000004.
func (id ID) String() string {
	buf := [10]byte{'0', 'x'}
	conv.U32Hex(buf[2:], uint32(id))
	return string(buf[:])
}

// Binding is a snapshot row: one role and the handle it resolves to.
type Binding struct {
	Role Role `json:"role"`
	ID   ID   `json:"id"`
}

type parseError struct{ what, s string }

func (e *parseError) Error() string { return "unknown " + e.what + " " + `"` + e.s + `"` }
