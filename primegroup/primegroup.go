//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package primegroup implements the cyclic multiplicative group modulo
// a prime that the Diffie-Hellman oblivious-transfer subprotocol runs
// in.
package primegroup

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/tp-mpc/yaogc/ot/mpint"
)

// DefaultBits is the default order-of-magnitude of the generated
// prime, in bits. The protocol is agnostic to this choice; 64 is
// adequate for tests, real deployments should configure a much larger
// value (recommended >= 2048 bits, see spec Open Questions).
const DefaultBits = 64

// Group is the cyclic multiplicative group of integers modulo the
// prime P (of order P-1), with Generator a chosen generator of the
// group.
type Group struct {
	P         *big.Int
	Generator *big.Int

	pm1 *big.Int // P - 1
	pm2 *big.Int // P - 2
}

// NewGroup generates a random prime of the requested bit size and
// finds a generator for the resulting cyclic group. Randomness is
// drawn from rnd.
func NewGroup(bits int, rnd io.Reader) (*Group, error) {
	if bits < 4 {
		return nil, fmt.Errorf("primegroup: bit size %d too small", bits)
	}
	p, err := genPrime(bits, rnd)
	if err != nil {
		return nil, err
	}
	g := &Group{
		P:   p,
		pm1: mpint.Sub(p, big.NewInt(1)),
		pm2: mpint.Sub(p, big.NewInt(2)),
	}
	gen, err := g.findGenerator(rnd)
	if err != nil {
		return nil, err
	}
	g.Generator = gen
	return g, nil
}

// FromParams reconstructs a Group from a prime and generator received
// from a peer, without running generator search again. Used by the OT
// chooser, which trusts the sender's published (P, Generator) pair.
func FromParams(p, generator *big.Int) *Group {
	return &Group{
		P:         p,
		Generator: generator,
		pm1:       mpint.Sub(p, big.NewInt(1)),
		pm2:       mpint.Sub(p, big.NewInt(2)),
	}
}

// genPrime returns a random prime of the given bit size.
func genPrime(bits int, rnd io.Reader) (*big.Int, error) {
	return rand.Prime(rnd, bits)
}

// Mul multiplies two elements of the group.
func (g *Group) Mul(a, b *big.Int) *big.Int {
	return mpint.Mod(new(big.Int).Mul(a, b), g.P)
}

// Pow computes base^exponent mod P.
func (g *Group) Pow(base, exponent *big.Int) *big.Int {
	return mpint.Exp(base, exponent, g.P)
}

// Inv computes the multiplicative inverse of x, via Fermat's little
// theorem: x^(P-2) mod P.
func (g *Group) Inv(x *big.Int) *big.Int {
	return mpint.Exp(x, g.pm2, g.P)
}

// RandElt returns a uniformly random element in [1, P-1].
func (g *Group) RandElt(rnd io.Reader) (*big.Int, error) {
	// rand.Int draws uniformly from [0, max), so sample from
	// [0, P-2] and shift by 1 to land in [1, P-1].
	n, err := rand.Int(rnd, g.pm1)
	if err != nil {
		return nil, err
	}
	return mpint.Add(n, big.NewInt(1)), nil
}

// GenPow computes Generator^exponent mod P.
func (g *Group) GenPow(exponent *big.Int) *big.Int {
	return g.Pow(g.Generator, exponent)
}

// findGenerator implements the spec's probabilistic generator search:
// factor P-1, then resample candidates until one fails the
// c^((P-1)/q) == 1 test for every prime factor q of P-1.
func (g *Group) findGenerator(rnd io.Reader) (*big.Int, error) {
	factors := primeFactors(g.pm1)

	for {
		candidate, err := g.RandElt(rnd)
		if err != nil {
			return nil, err
		}
		if isGenerator(candidate, g.pm1, factors, g.P) {
			return candidate, nil
		}
	}
}

func isGenerator(candidate, pm1 *big.Int, factors []*big.Int, p *big.Int) bool {
	one := big.NewInt(1)
	for _, q := range factors {
		e := mpint.Exp(candidate, new(big.Int).Div(pm1, q), p)
		if e.Cmp(one) == 0 {
			return false
		}
	}
	return true
}

// primeFactors returns the distinct prime factors of n by trial
// division. This is adequate for the bit lengths this package targets
// in practice (the default 64 bits, and the 32- and 48-bit groups
// used in tests); a production deployment running at >= 2048 bits
// would need a smarter factoring strategy for P-1, which is outside
// this package's scope.
func primeFactors(n *big.Int) []*big.Int {
	var factors []*big.Int
	remaining := new(big.Int).Set(n)

	two := big.NewInt(2)
	for remaining.Bit(0) == 0 {
		factors = append(factors, new(big.Int).Set(two))
		remaining.Rsh(remaining, 1)
	}

	d := big.NewInt(3)
	for new(big.Int).Mul(d, d).Cmp(remaining) <= 0 {
		q, mod := new(big.Int), new(big.Int)
		for {
			q.DivMod(remaining, d, mod)
			if mod.Sign() != 0 {
				break
			}
			factors = append(factors, new(big.Int).Set(d))
			remaining.Set(q)
		}
		d.Add(d, two)
	}
	if remaining.Cmp(big.NewInt(1)) > 0 {
		factors = append(factors, remaining)
	}
	return factors
}
