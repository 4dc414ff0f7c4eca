//
// protocol_test.go
//
// Copyright (c) 2023-2025 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"bytes"
	"testing"
)

var dataTests = [][]byte{
	{42},
	{0, 1, 2, 3},
	[]byte("Hello, world!"),
	{},
}

func writer(c *Conn) {
	for i, test := range dataTests {
		if err := c.SendUint32(i); err != nil {
			return
		}
		if err := c.SendData(test); err != nil {
			return
		}
	}
	c.Flush()
}

func TestProtocol(t *testing.T) {
	p0, p1 := Pipe()

	go writer(p0)

	for i, want := range dataTests {
		n, err := p1.ReceiveUint32()
		if err != nil {
			t.Fatalf("ReceiveUint32: %v", err)
		}
		if n != i {
			t.Fatalf("ReceiveUint32: got %d, want %d", n, i)
		}
		got, err := p1.ReceiveData()
		if err != nil {
			t.Fatalf("ReceiveData: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("ReceiveData: got %x, want %x", got, want)
		}
	}
	if err := p1.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
