//go:build brushedsparky_v0_1

package board

const brushedV01 = true
