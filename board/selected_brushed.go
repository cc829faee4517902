//go:build brushedsparky_v0_1 || brushedsparky_v0_2

package board

import "flightcode-go/types"

func init() {
	SelectedVariant = types.BrushedSparkyV0_2
	if brushedV01 {
		SelectedVariant = types.BrushedSparkyV0_1
	}
}
