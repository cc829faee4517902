package board

import (
	"context"
	"sync"
	"sync/atomic"

	"flightcode-go/errcode"
	"flightcode-go/types"
	"flightcode-go/x/conv"
)

// itoa avoids strconv on the MCU build.
func itoa(n int) string {
	var buf [20]byte
	return string(conv.Itoa(buf[:], int64(n)))
}

// Registry maps roles to bound handles for one board revision.
//
// Writes (Allocate, Bind, Seal) belong to the single-threaded boot phase.
// Seal publishes the table: after it, Resolve, Device and Capacity are
// lock-free reads of immutable data and are safe from any goroutine.
// A registry is never unsealed; a reboot builds a new one.
type Registry struct {
	desc *Descriptor

	mu     sync.Mutex // serialises boot-phase writers
	slots  [types.NumRoles]types.ID
	pools  [types.NumClasses][]any
	sealed atomic.Bool
	ready  chan struct{}
}

// New returns an empty (all roles unbound) registry for revision v.
// Unknown revisions fall back to an empty descriptor that supports no roles.
func New(v types.Variant) *Registry {
	d := Describe(v)
	if d == nil {
		d = &Descriptor{Variant: v, Name: v.String()}
	}
	return &Registry{desc: d, ready: make(chan struct{})}
}

// Variant returns the revision the registry was built for.
func (r *Registry) Variant() types.Variant { return r.desc.Variant }

// Descriptor returns the revision descriptor.
func (r *Registry) Descriptor() *Descriptor { return r.desc }

// Capacity returns the compile-time limit for pooled class c.
func (r *Registry) Capacity(c types.Class) int { return CapacityOf(c) }

// ---- boot phase ----

// Allocate registers one instance of pooled class c backed by dev and mints
// its handle. Registering beyond the class capacity fails with
// CapacityExceeded; nothing is truncated.
func (r *Registry) Allocate(c types.Class, dev any) (types.ID, error) {
	const op = "allocate"
	if c == types.ClassNone || c >= types.NumClasses {
		return types.NoID, errcode.Wrap(errcode.UnknownClass, op, c.String())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return types.NoID, errcode.Wrap(errcode.Sealed, op, c.String())
	}
	pool := r.pools[c]
	if len(pool) >= CapacityOf(c) {
		return types.NoID, errcode.Wrap(errcode.CapacityExceeded, op, c.String()+" limit "+itoa(CapacityOf(c)))
	}
	r.pools[c] = append(pool, dev)
	return types.MakeID(c, uint32(len(pool)+1)), nil
}

// Bind attaches id to role. Each role may be bound once per boot; a second
// Bind is a DoubleBind error regardless of the handle, before or after Seal.
func (r *Registry) Bind(role types.Role, id types.ID) error {
	const op = "bind"
	if !role.Valid() {
		return errcode.Wrap(errcode.UnknownRole, op, role.String())
	}
	if _, alias := aliases[role]; alias || hardwired[role] || !r.desc.Supports(role) {
		return errcode.Wrap(errcode.Unsupported, op, role.String()+" on "+r.desc.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// A bound slot stays bound for the session, sealed or not.
	if r.slots[role] != types.NoID {
		return errcode.Wrap(errcode.DoubleBind, op, role.String())
	}
	if r.sealed.Load() {
		return errcode.Wrap(errcode.Sealed, op, role.String())
	}
	if id == types.NoID || id.Class() != role.Class() || id.Index() < 0 || id.Index() >= len(r.pools[role.Class()]) {
		return errcode.Wrap(errcode.InvalidHandle, op, role.String())
	}
	r.slots[role] = id
	return nil
}

// Seal ends the boot phase and publishes readiness. It is idempotent.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return
	}
	r.sealed.Store(true)
	close(r.ready)
}

// Sealed reports whether boot-phase binding has completed.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Ready is closed when the registry is sealed.
func (r *Registry) Ready() <-chan struct{} { return r.ready }

// WaitReady blocks until the registry is sealed or ctx ends.
func (r *Registry) WaitReady(ctx context.Context) error {
	select {
	case <-r.ready:
		return nil
	case <-ctx.Done():
		return &errcode.E{C: errcode.NotReady, Op: "wait_ready", Err: ctx.Err()}
	}
}

// ---- steady state ----

// Resolve returns the handle bound to role. ok is false when the role is
// absent on this revision, was never bound, or the registry is not sealed.
func (r *Registry) Resolve(role types.Role) (id types.ID, ok bool) {
	if !r.sealed.Load() || !role.Valid() {
		return types.NoID, false
	}
	if target, alias := aliases[role]; alias {
		role = target
	}
	id = r.slots[role]
	return id, id != types.NoID
}

// Require is Resolve for callers that cannot work without the role.
func (r *Registry) Require(role types.Role) (types.ID, error) {
	if !r.sealed.Load() {
		return types.NoID, errcode.Wrap(errcode.NotReady, "require", role.String())
	}
	id, ok := r.Resolve(role)
	if !ok {
		return types.NoID, errcode.Wrap(errcode.Absent, "require", role.String())
	}
	return id, nil
}

// Device returns the object registered for id.
func (r *Registry) Device(id types.ID) (any, bool) {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	c, i := id.Class(), id.Index()
	if id == types.NoID || c >= types.NumClasses || i < 0 || i >= len(r.pools[c]) {
		return nil, false
	}
	return r.pools[c][i], true
}

// Count is the number of allocated instances of class c.
func (r *Registry) Count(c types.Class) int {
	if c >= types.NumClasses {
		return 0
	}
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	return len(r.pools[c])
}

// Bindings snapshots every role that resolves to a handle, in role order.
func (r *Registry) Bindings() []types.Binding {
	var out []types.Binding
	for role := types.RoleNone + 1; role < types.NumRoles; role++ {
		if id, ok := r.Resolve(role); ok {
			out = append(out, types.Binding{Role: role, ID: id})
		}
	}
	return out
}
