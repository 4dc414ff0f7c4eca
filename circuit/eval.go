//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"

	"github.com/tp-mpc/yaogc/cellcipher"
	"github.com/tp-mpc/yaogc/ot"
)

// WireValue is what the evaluator knows about one wire after OT and
// gate evaluation: a label and the signal bit it carries.
type WireValue struct {
	Label ot.Label
	S     bool
}

// Evaluate runs section 4.5's propagation procedure: given the
// garbled tables and a WireValue for every circuit input wire, it
// decrypts gate by gate in the circuit's topological (ascending id)
// order and returns the WireValue for every output wire in c.Out.
//
// inputs must already contain an entry for every wire in c.Alice and
// c.Bob; Evaluate fills in the entries for every gate output as it
// goes.
func Evaluate(c *Circuit, tables map[WireID]GarbledTable,
	inputs map[WireID]WireValue) (map[WireID]WireValue, error) {

	values := make(map[WireID]WireValue, c.NumWires)
	for w, v := range inputs {
		values[w] = v
	}

	for _, gate := range c.Gates {
		table, ok := tables[gate.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no table for gate %d",
				ErrCircuitMalformed, gate.ID)
		}

		if gate.Type == NOT {
			a, ok := values[gate.In[0]]
			if !ok {
				return nil, fmt.Errorf(
					"%w: gate %d: wire %d not yet evaluated",
					ErrCircuitMalformed, gate.ID, gate.In[0])
			}
			idx := unaryCellIndex(a.S)
			if idx >= len(table) {
				return nil, ErrGarbledTableCorrupt
			}
			pt, err := cellcipher.Decrypt(a.Label.Bytes(), a.Label.Bytes(),
				table[idx])
			if err != nil {
				return nil, ErrGarbledTableCorrupt
			}
			v, err := splitCell(pt)
			if err != nil {
				return nil, err
			}
			values[gate.ID] = v
			continue
		}

		a, ok := values[gate.In[0]]
		if !ok {
			return nil, fmt.Errorf(
				"%w: gate %d: wire %d not yet evaluated",
				ErrCircuitMalformed, gate.ID, gate.In[0])
		}
		b, ok := values[gate.In[1]]
		if !ok {
			return nil, fmt.Errorf(
				"%w: gate %d: wire %d not yet evaluated",
				ErrCircuitMalformed, gate.ID, gate.In[1])
		}

		idx := cellIndex(a.S, b.S)
		if idx >= len(table) {
			return nil, ErrGarbledTableCorrupt
		}
		pt, err := cellcipher.Decrypt(a.Label.Bytes(), b.Label.Bytes(),
			table[idx])
		if err != nil {
			return nil, ErrGarbledTableCorrupt
		}
		v, err := splitCell(pt)
		if err != nil {
			return nil, err
		}
		values[gate.ID] = v
	}

	outputs := make(map[WireID]WireValue, len(c.Out))
	for _, w := range c.Out {
		v, ok := values[w]
		if !ok {
			return nil, fmt.Errorf("%w: output wire %d never assigned",
				ErrCircuitMalformed, w)
		}
		outputs[w] = v
	}
	return outputs, nil
}

// splitCell separates a decrypted garbled-table payload into its
// output label and signal bit.
func splitCell(pt []byte) (WireValue, error) {
	if len(pt) < 1 {
		return WireValue{}, ErrGarbledTableCorrupt
	}
	label := ot.Label(append([]byte{}, pt[:len(pt)-1]...))
	s := pt[len(pt)-1] != 0
	return WireValue{Label: label, S: s}, nil
}
