package board

import "flightcode-go/types"

// Descriptor describes what a board revision populates. It must not include
// wiring choices (ports, pins) or operating parameters; those live in plans.
type Descriptor struct {
	Variant types.Variant
	Name    string

	// Roles the revision can populate. Roles outside this set always
	// resolve absent and cannot be bound.
	roles [types.NumRoles]bool
}

// Supports reports whether the revision can populate role r.
func (d *Descriptor) Supports(r types.Role) bool {
	return r.Valid() && d.roles[r]
}

// Roles lists supported roles in declaration order.
func (d *Descriptor) Roles() []types.Role {
	out := make([]types.Role, 0, types.NumRoles)
	for r := types.RoleNone + 1; r < types.NumRoles; r++ {
		if d.roles[r] {
			out = append(out, r)
		}
	}
	return out
}

// radioOnly are populated only on the full-featured revision.
var radioOnly = map[types.Role]bool{
	types.RoleRFM22B:        true,
	types.RoleRFM22SPI:      true,
	types.RolePacketHandler: true,
}

// aliases resolve through another role and are never bound directly.
var aliases = map[types.Role]types.Role{
	types.RoleI2CETASV3: types.RoleI2CFlexi,
}

// hardwired roles are absent on every revision of this board.
var hardwired = map[types.Role]bool{
	types.RoleOpenLog: true,
}

func newDescriptor(v types.Variant) *Descriptor {
	d := &Descriptor{Variant: v, Name: v.String()}
	for r := types.RoleNone + 1; r < types.NumRoles; r++ {
		if radioOnly[r] && !v.Full() {
			continue
		}
		d.roles[r] = true
	}
	return d
}

var descriptors = func() map[types.Variant]*Descriptor {
	m := make(map[types.Variant]*Descriptor, len(types.Variants))
	for _, v := range types.Variants {
		m[v] = newDescriptor(v)
	}
	return m
}()

// Describe returns the descriptor for v, or nil for an unknown revision.
func Describe(v types.Variant) *Descriptor { return descriptors[v] }

// SelectedVariant is the build-time default revision. Build-tagged files in
// this package set it; startup configuration may override it.
var SelectedVariant = types.Sparky2V2_0
