//
// passthrough_test.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"bytes"
	"testing"
)

func TestPassthroughTransfersChosenLabels(t *testing.T) {
	senderConn, receiverConn := NewPipe()

	wires := []Wire{
		{L0: Label("zero-label-a"), L1: Label("one-label-aa")},
		{L0: Label("zero-label-b"), L1: Label("one-label-bb")},
	}
	flags := []bool{true, false}
	result := make([]Label, len(wires))

	sender := NewPassthrough()
	receiver := NewPassthrough()

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
