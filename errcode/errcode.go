package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"
	NotReady      Code = "registry_not_ready"
	UnknownRole   Code = "unknown_role"
	UnknownClass  Code = "unknown_class"
	Timeout       Code = "timeout"

	// Registry: consumer-side, recoverable.
	Absent Code = "absent_resource"

	// Registry: boot-phase contract violations (fatal).
	DoubleBind       Code = "double_bind"
	CapacityExceeded Code = "capacity_exceeded"
	InvalidHandle    Code = "invalid_handle"
	Sealed           Code = "registry_sealed"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.DoubleBind) match a wrapped *E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap builds an *E for op with a formatted-free message.
func Wrap(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return Of(u.Unwrap())
	}
	return Error
}

// IsFatal reports whether err is a boot-phase configuration error that must
// halt board bring-up.
func IsFatal(err error) bool {
	switch Of(err) {
	case DoubleBind, CapacityExceeded, InvalidHandle, Sealed, Unsupported, UnknownRole, UnknownClass:
		return true
	}
	return false
}
