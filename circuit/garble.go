//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"io"

	"github.com/tp-mpc/yaogc/cellcipher"
	"github.com/tp-mpc/yaogc/ot"
)

// GarbledTable holds a gate's encrypted cells, indexed by the ordered
// pair of input signal bits: cell[2*sa+sb] for binary gates, cell[sa]
// for NOT. No free-XOR or half-gates optimisation is applied; every
// gate gets a full table of its own.
type GarbledTable [][]byte

// GarbledCircuit is the garbler-side artifact produced once per
// circuit: every wire's label pair and p-bit, every gate's garbled
// table, and the p-bits of the disclosed output wires.
type GarbledCircuit struct {
	Circuit   *Circuit
	LabelSize int
	Wires     []ot.Wire
	PBits     []bool
	Tables    map[WireID]GarbledTable
	PBitsOut  map[WireID]bool
}

func cellIndex(sa, sb bool) int {
	idx := 0
	if sa {
		idx |= 0x2
	}
	if sb {
		idx |= 0x1
	}
	return idx
}

func unaryCellIndex(sa bool) int {
	if sa {
		return 1
	}
	return 0
}

// Garble produces a fresh GarbledCircuit for c. Randomness for every
// label and p-bit is drawn from rnd, which must be a cryptographically
// secure source.
func (c *Circuit) Garble(rnd io.Reader, labelSize int) (*GarbledCircuit, error) {
	wires := make([]ot.Wire, c.NumWires)
	pbits := make([]bool, c.NumWires)

	for w := 0; w < c.NumWires; w++ {
		l0, err := ot.NewLabel(rnd, labelSize)
		if err != nil {
			return nil, err
		}
		l1, err := ot.NewLabel(rnd, labelSize)
		if err != nil {
			return nil, err
		}
		wires[w] = ot.Wire{L0: l0, L1: l1}

		pbit, err := randBit(rnd)
		if err != nil {
			return nil, err
		}
		pbits[w] = pbit
	}

	gc := &GarbledCircuit{
		Circuit:   c,
		LabelSize: labelSize,
		Wires:     wires,
		PBits:     pbits,
		Tables:    make(map[WireID]GarbledTable, len(c.Gates)),
		PBitsOut:  make(map[WireID]bool, len(c.Out)),
	}

	for _, gate := range c.Gates {
		table, err := gc.garbleGate(gate)
		if err != nil {
			return nil, err
		}
		gc.Tables[gate.ID] = table
	}

	for _, w := range c.Out {
		gc.PBitsOut[w] = pbits[w]
	}

	return gc, nil
}

// garbleGate implements section 4.4's gate table construction: for
// every plaintext input combination, compute the plaintext output,
// derive the signal bits from the p-bits, and seal the output label
// plus its signal bit under the two input labels at the cell indexed
// by the input signal bits.
func (gc *GarbledCircuit) garbleGate(gate Gate) (GarbledTable, error) {
	out := gc.Wires[gate.ID]
	pc := gc.PBits[gate.ID]

	if gate.Type == NOT {
		a := gc.Wires[gate.In[0]]
		pa := gc.PBits[gate.In[0]]

		table := make(GarbledTable, 2)
		for _, aPlain := range []bool{false, true} {
			cPlain, err := gate.Type.Eval([]bool{aPlain})
			if err != nil {
				return nil, err
			}
			sa := aPlain != pa
			sc := cPlain != pc

			ka := LabelForBit(a, aPlain)
			kc := LabelForBit(out, cPlain)

			cell, err := cellcipher.Encrypt(ka.Bytes(), ka.Bytes(),
				append(append([]byte{}, kc.Bytes()...), boolByte(sc)))
			if err != nil {
				return nil, err
			}
			table[unaryCellIndex(sa)] = cell
		}
		return table, nil
	}

	a := gc.Wires[gate.In[0]]
	b := gc.Wires[gate.In[1]]
	pa := gc.PBits[gate.In[0]]
	pb := gc.PBits[gate.In[1]]

	table := make(GarbledTable, 4)
	for _, aPlain := range []bool{false, true} {
		for _, bPlain := range []bool{false, true} {
			cPlain, err := gate.Type.Eval([]bool{aPlain, bPlain})
			if err != nil {
				return nil, err
			}
			sa := aPlain != pa
			sb := bPlain != pb
			sc := cPlain != pc

			ka := LabelForBit(a, aPlain)
			kb := LabelForBit(b, bPlain)
			kc := LabelForBit(out, cPlain)

			cell, err := cellcipher.Encrypt(ka.Bytes(), kb.Bytes(),
				append(append([]byte{}, kc.Bytes()...), boolByte(sc)))
			if err != nil {
				return nil, err
			}
			table[cellIndex(sa, sb)] = cell
		}
	}
	return table, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func randBit(rnd io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(rnd, buf[:]); err != nil {
		return false, err
	}
	return buf[0]&1 == 1, nil
}
