package types

// ------------------------
// Board state (retained)
// ------------------------

// Board bring-up levels.
const (
	LevelBooting = "booting"
	LevelReady   = "ready"
	LevelHalted  = "halted"
)

type BoardState struct {
	Level   string `json:"level"`           // booting|ready|halted
	Variant string `json:"variant"`         // e.g. "sparky2_v2_0"
	Error   string `json:"error,omitempty"` // machine-readable short code
	TS      int64  `json:"ts_ns"`           // publish Unix ns
}

// RoleInfo is retained at hal/board/role/<name> for every bound role.
type RoleInfo struct {
	Role  string `json:"role"`
	Class string `json:"class"`
	ID    ID     `json:"id"`
}

// ------------------------
// Queries (request/reply)
// ------------------------

type ResolveQuery struct {
	Role string `json:"role"`
}

type ResolveReply struct {
	Role    string `json:"role"`
	ID      ID     `json:"id"`
	Present bool   `json:"present"`
}

type CapacityQuery struct {
	Class string `json:"class"`
}

type CapacityReply struct {
	Class    string `json:"class"`
	Capacity int    `json:"capacity"`
	Used     int    `json:"used"`
}

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
