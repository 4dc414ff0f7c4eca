//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package primegroup

import (
	"crypto/rand"
	"math/big"
	"testing"
)

func testGroup(t *testing.T) *Group {
	t.Helper()
	g, err := NewGroup(32, rand.Reader)
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}
	return g
}

func TestInvIsMultiplicativeInverse(t *testing.T) {
	g := testGroup(t)

	for i := 0; i < 20; i++ {
		x, err := g.RandElt(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		inv := g.Inv(x)
		prod := g.Mul(x, inv)
		if prod.Cmp(big.NewInt(1)) != 0 {
			t.Fatalf("Inv(%v) * %v mod P = %v, want 1", x, x, prod)
		}
	}
}

func TestGenPowZeroIsOne(t *testing.T) {
	g := testGroup(t)
	if got := g.GenPow(big.NewInt(0)); got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("GenPow(0) = %v, want 1", got)
	}
}

func TestGeneratorGeneratesFullOrder(t *testing.T) {
	g := testGroup(t)

	// The generator raised to P-1 must be 1 (Fermat), and raised to
	// any proper divisor of P-1 must not be.
	order := g.GenPow(g.pm1)
	if order.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("Generator^(P-1) = %v, want 1", order)
	}
	for _, q := range primeFactors(g.pm1) {
		e := g.GenPow(new(big.Int).Div(g.pm1, q))
		if e.Cmp(big.NewInt(1)) == 0 {
			t.Fatalf("Generator^((P-1)/%v) = 1, want != 1", q)
		}
	}
}

func TestRandEltInRange(t *testing.T) {
	g := testGroup(t)

	for i := 0; i < 50; i++ {
		x, err := g.RandElt(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		if x.Sign() <= 0 || x.Cmp(g.P) >= 0 {
			t.Fatalf("RandElt() = %v, out of range [1, P-1]", x)
		}
	}
}
