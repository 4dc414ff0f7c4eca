//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/tp-mpc/yaogc/ot"
)

// LabelForBit returns the wire label corresponding to the provided
// plaintext bit.
func LabelForBit(wire ot.Wire, bit bool) ot.Label {
	if bit {
		return wire.L1
	}
	return wire.L0
}
