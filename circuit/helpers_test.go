//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"testing"

	"github.com/tp-mpc/yaogc/ot"
)

func TestLabelForBit(t *testing.T) {
	wire := ot.Wire{
		L0: ot.Label("label-zero"),
		L1: ot.Label("label-one-"),
	}
	if !LabelForBit(wire, false).Equal(wire.L0) {
		t.Fatalf("expected L0 label")
	}
	if !LabelForBit(wire, true).Equal(wire.L1) {
		t.Fatalf("expected L1 label")
	}
}

