//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import "fmt"

// GenerateAdder builds an n-bit ripple-carry adder circuit: n alice
// input wires, n bob input wires, and n sum output wires. The final
// carry-out is computed internally to drive the top bit's sum but is
// not itself an output wire, so the result is the correctly
// sign-extended n-bit two's-complement sum rather than an (n+1)-bit
// value with the raw carry as its top bit. Input and output wire
// lists are ordered most-significant-bit first, matching
// bitutil.ToBits/FromBits, while the internal adder chain is built
// least-significant-bit first, one full-adder block per bit position.
//
// This reproduces the topology of the reference adder generator (one
// half-adder block for the least significant bit, one full-adder
// block per subsequent bit, carry rippling upward) without carrying
// over the off-by-one wire indexing of the source generator, which
// only produces a well-formed circuit for n >= 2; GenerateAdder is
// correct for any n >= 1.
func GenerateAdder(n int, name, id string) (*File, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: adder width must be >= 1, got %d",
			ErrCircuitMalformed, n)
	}

	alice := make([]WireID, n)
	bob := make([]WireID, n)
	for i := 0; i < n; i++ {
		alice[i] = WireID(2 * i)
		bob[i] = WireID(2*i + 1)
	}

	nextID := WireID(2 * n)
	newWire := func() WireID {
		w := nextID
		nextID++
		return w
	}

	var gates []Gate
	gate := func(t Type, in ...WireID) WireID {
		w := newWire()
		gates = append(gates, Gate{ID: w, Type: t, In: in})
		return w
	}

	sums := make([]WireID, n)
	var carry WireID

	for i := 0; i < n; i++ {
		a := alice[i]
		b := bob[i]

		if i == 0 {
			sums[0] = gate(XOR, a, b)
			carry = gate(AND, a, b)
			continue
		}

		t1 := gate(XOR, a, b)
		sums[i] = gate(XOR, t1, carry)
		and1 := gate(AND, t1, carry)
		and2 := gate(AND, a, b)
		carry = gate(OR, and1, and2)
	}

	out := make([]WireID, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, sums[i])
	}

	aliceMSBFirst := make([]WireID, n)
	bobMSBFirst := make([]WireID, n)
	for i := 0; i < n; i++ {
		aliceMSBFirst[i] = alice[n-1-i]
		bobMSBFirst[i] = bob[n-1-i]
	}

	c := Circuit{
		ID:    id,
		Alice: aliceMSBFirst,
		Bob:   bobMSBFirst,
		Out:   out,
		Gates: gates,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	return &File{
		Name:     name,
		Circuits: []Circuit{c},
	}, nil
}
