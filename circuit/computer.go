//
// Copyright (c) 2020-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import "fmt"

// Compute evaluates the circuit in the clear: inputs maps every
// alice/bob wire id to its plaintext bit, and the returned map carries
// every wire id's plaintext bit, including the gate outputs named in
// c.Out. It exists to let tests check garbled evaluation against a
// plaintext oracle; it is never used in the protocol itself.
func (c *Circuit) Compute(inputs map[WireID]bool) (map[WireID]bool, error) {
	values := make(map[WireID]bool, c.NumWires)
	for w, v := range inputs {
		values[w] = v
	}

	for _, gate := range c.Gates {
		var in []bool
		for _, w := range gate.In {
			v, ok := values[w]
			if !ok {
				return nil, fmt.Errorf(
					"%w: gate %d: wire %d not yet computed",
					ErrCircuitMalformed, gate.ID, w)
			}
			in = append(in, v)
		}
		out, err := gate.Type.Eval(in)
		if err != nil {
			return nil, err
		}
		values[gate.ID] = out
	}
	return values, nil
}
