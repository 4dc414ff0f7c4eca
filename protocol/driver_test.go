//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"crypto/rand"
	"sync"
	"testing"

	"github.com/tp-mpc/yaogc/circuit"
	"github.com/tp-mpc/yaogc/env"
	"github.com/tp-mpc/yaogc/p2p"
)

func runSession(t *testing.T, c *circuit.Circuit, alice, bob int64,
	disableOT bool) int64 {
	t.Helper()

	gConn, eConn := p2p.Pipe()
	cfg := &env.Config{Rand: rand.Reader}

	var wg sync.WaitGroup
	wg.Add(2)

	var result int64
	var gErr, eErr error

	go func() {
		defer wg.Done()
		result, gErr = RunGarbler(gConn, NewOT(cfg, disableOT), cfg, c, alice, nil)
	}()
	go func() {
		defer wg.Done()
		eErr = RunEvaluator(eConn, NewOT(cfg, disableOT), cfg, bob, nil)
	}()
	wg.Wait()

	if gErr != nil {
		t.Fatalf("RunGarbler: %v", gErr)
	}
	if eErr != nil {
		t.Fatalf("RunEvaluator: %v", eErr)
	}
	return result
}

func adderCircuit(t *testing.T, n int) *circuit.Circuit {
	t.Helper()
	f, err := circuit.GenerateAdder(n, "test", "adder")
	if err != nil {
		t.Fatal(err)
	}
	return &f.Circuits[0]
}

func TestRunGarblerEvaluatorAdderWithDHOT(t *testing.T) {
	c := adderCircuit(t, 8)

	cases := []struct{ a, b, want int64 }{
		{5, 7, 12},
		{-1, 1, 0},
		{127, -1, 126},
		{-128, 127, -1},
		{0, 0, 0},
	}

	for _, cs := range cases {
		got := runSession(t, c, cs.a, cs.b, false)
		if got != cs.want {
			t.Fatalf("%d+%d = %d, want %d", cs.a, cs.b, got, cs.want)
		}
	}
}

func TestRunGarblerEvaluatorAdderWithPassthrough(t *testing.T) {
	c := adderCircuit(t, 8)
	got := runSession(t, c, 5, 7, true)
	if got != 12 {
		t.Fatalf("5+7 = %d, want 12", got)
	}
}
