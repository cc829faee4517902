// services/hal/internal/consts/consts.go
package consts

// Top-level topics
const (
	TokConfig = "config"
	TokHAL    = "hal"
	TokBoard  = "board"
	TokState  = "state"
	TokRole   = "role"
	TokQuery  = "query"
)

// Query verbs
const (
	QueryResolve  = "resolve"
	QueryCapacity = "capacity"
)
