//
// dhot_test.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestDHOTTransfersChosenLabels(t *testing.T) {
	senderConn, receiverConn := NewPipe()

	wires := []Wire{
		{L0: Label("label-0-wire-0"), L1: Label("label-1-wire-0")},
		{L0: Label("label-0-wire-1"), L1: Label("label-1-wire-1")},
		{L0: Label("label-0-wire-2"), L1: Label("label-1-wire-2")},
	}
	flags := []bool{false, true, true}
	result := make([]Label, len(wires))

	sender := NewDHOT(48, rand.Reader)
	receiver := NewDHOT(48, rand.Reader)

	errCh := make(chan error, 2)
	go func() {
		if err := sender.InitSender(senderConn); err != nil {
			errCh <- err
			return
		}
		errCh <- sender.Send(wires)
	}()
	go func() {
		if err := receiver.InitReceiver(receiverConn); err != nil {
			errCh <- err
			return
		}
		errCh <- receiver.Receive(flags, result)
	}()

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			t.Fatal(err)
		}
	}

	for i, flag := range flags {
		want := wires[i].L0
		if flag {
			want = wires[i].L1
		}
		if !bytes.Equal(result[i], want) {
			t.Fatalf("wire %d: got %x, want %x", i, result[i], want)
		}
	}
}
