//
// dhot.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"io"
	"math/big"

	"github.com/tp-mpc/yaogc/primegroup"
)

var (
	_ OT = &DHOT{}
	_ OT = &Passthrough{}
)

// DHOT implements the OT interface with the Diffie-Hellman base OT of
// spec section 4.6, run once per wire.
type DHOT struct {
	bits int
	rnd  io.Reader

	conn     IO
	sender   *Sender
	receiver *Receiver
}

// NewDHOT creates a DH-based OT protocol that generates a fresh group
// modulo a random prime of the given bit size at InitSender time.
func NewDHOT(bits int, rnd io.Reader) *DHOT {
	return &DHOT{bits: bits, rnd: rnd}
}

// InitSender generates the group and publishes (P, Generator) to the
// peer once for the whole session.
func (o *DHOT) InitSender(conn IO) error {
	group, err := primegroup.NewGroup(o.bits, o.rnd)
	if err != nil {
		return err
	}
	o.conn = conn
	o.sender = NewSender(group, o.rnd)

	if err := conn.SendData(group.P.Bytes()); err != nil {
		return err
	}
	if err := conn.SendData(group.Generator.Bytes()); err != nil {
		return err
	}
	return conn.Flush()
}

// InitReceiver receives (P, Generator) published by the sender.
func (o *DHOT) InitReceiver(conn IO) error {
	o.conn = conn

	pBytes, err := conn.ReceiveData()
	if err != nil {
		return err
	}
	genBytes, err := conn.ReceiveData()
	if err != nil {
		return err
	}
	group := primegroup.FromParams(
		new(big.Int).SetBytes(pBytes), new(big.Int).SetBytes(genBytes))
	o.receiver = NewReceiver(group, o.rnd)
	return nil
}

// Send runs the sender side of one OT instance per wire.
func (o *DHOT) Send(wires []Wire) error {
	for _, w := range wires {
		xfer, err := o.sender.NewTransfer(w.L0.Bytes(), w.L1.Bytes())
		if err != nil {
			return err
		}
		_, _, C := xfer.Setup()
		if err := o.conn.SendData(C); err != nil {
			return err
		}
		if err := o.conn.Flush(); err != nil {
			return err
		}

		h0, err := o.conn.ReceiveData()
		if err != nil {
			return err
		}
		h1, err := o.conn.ReceiveData()
		if err != nil {
			return err
		}
		if err := xfer.ReceiveChoice(h0, h1); err != nil {
			return err
		}

		g0, g1, e0, e1, err := xfer.Reply()
		if err != nil {
			return err
		}
		for _, v := range [][]byte{g0, g1, e0, e1} {
			if err := o.conn.SendData(v); err != nil {
				return err
			}
		}
		if err := o.conn.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Receive runs the chooser side of one OT instance per wire, filling
// result[i] with the label selected by flags[i].
func (o *DHOT) Receive(flags []bool, result []Label) error {
	for i, flag := range flags {
		C, err := o.conn.ReceiveData()
		if err != nil {
			return err
		}
		bit := 0
		if flag {
			bit = 1
		}
		xfer, err := o.receiver.NewTransfer(C, bit)
		if err != nil {
			return err
		}

		h0, h1 := xfer.Choice()
		if err := o.conn.SendData(h0); err != nil {
			return err
		}
		if err := o.conn.SendData(h1); err != nil {
			return err
		}
		if err := o.conn.Flush(); err != nil {
			return err
		}

		var parts [4][]byte
		for j := range parts {
			parts[j], err = o.conn.ReceiveData()
			if err != nil {
				return err
			}
		}
		msg, err := xfer.ReceiveReply(parts[0], parts[1], parts[2], parts[3])
		if err != nil {
			return err
		}
		result[i] = Label(msg)
	}
	return nil
}
