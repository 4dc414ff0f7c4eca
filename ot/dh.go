//
// dh.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/sha256"
	"errors"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"github.com/tp-mpc/yaogc/bitutil"
	"github.com/tp-mpc/yaogc/primegroup"
)

// ErrOTProtocol is returned when the chooser's published (h0, h1)
// pair fails the sender's h0*h1 == C check.
var ErrOTProtocol = errors.New("ot: h0 * h1 != C, protocol verification failed")

// kdf derives an n byte mask from a group element, used to one-time
// pad the two OT messages.
func kdf(elt *big.Int, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, elt.Bytes(), nil, []byte("yaogc/ot"))
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Sender runs the garbler side of the base Diffie-Hellman 1-out-of-2
// OT, one instance per evaluator input wire.
type Sender struct {
	group *primegroup.Group
	rnd   io.Reader
}

// NewSender creates a Sender for the given group.
func NewSender(group *primegroup.Group, rnd io.Reader) *Sender {
	return &Sender{group: group, rnd: rnd}
}

// NewTransfer starts a new OT instance offering the message pair
// (m0, m1). A fresh c is drawn per spec step 1.
func (s *Sender) NewTransfer(m0, m1 []byte) (*SenderXfer, error) {
	c, err := s.group.RandElt(s.rnd)
	if err != nil {
		return nil, err
	}
	C := s.group.GenPow(c)
	return &SenderXfer{
		sender: s,
		C:      C,
		m0:     m0,
		m1:     m1,
	}, nil
}

// SenderXfer is one in-flight sender-side OT instance.
type SenderXfer struct {
	sender *Sender
	C      *big.Int
	m0, m1 []byte
	h0, h1 *big.Int
}

// Setup returns the published group prime modulus and generator, and
// this instance's C = g^c.
func (x *SenderXfer) Setup() (p, gen, C []byte) {
	g := x.sender.group
	return g.P.Bytes(), g.Generator.Bytes(), x.C.Bytes()
}

// ReceiveChoice validates the chooser's (h0, h1) pair against
// h0 * h1 == C.
func (x *SenderXfer) ReceiveChoice(h0, h1 []byte) error {
	H0 := new(big.Int).SetBytes(h0)
	H1 := new(big.Int).SetBytes(h1)

	if x.sender.group.Mul(H0, H1).Cmp(x.C) != 0 {
		return ErrOTProtocol
	}
	x.h0, x.h1 = H0, H1
	return nil
}

// Reply picks fresh r0, r1 and returns (g^r0, g^r1, e0, e1) per spec
// step 3.
func (x *SenderXfer) Reply() (g0, g1, e0, e1 []byte, err error) {
	group := x.sender.group

	r0, err := group.RandElt(x.sender.rnd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	r1, err := group.RandElt(x.sender.rnd)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	G0 := group.GenPow(r0)
	G1 := group.GenPow(r1)

	s0 := group.Pow(x.h0, r0)
	s1 := group.Pow(x.h1, r1)

	k0, err := kdf(s0, len(x.m0))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	k1, err := kdf(s1, len(x.m1))
	if err != nil {
		return nil, nil, nil, nil, err
	}

	e0x, err := bitutil.XorBytes(x.m0, k0)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	e1x, err := bitutil.XorBytes(x.m1, k1)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return G0.Bytes(), G1.Bytes(), e0x, e1x, nil
}

// Receiver runs the evaluator (chooser) side of the base OT.
type Receiver struct {
	group *primegroup.Group
	rnd   io.Reader
}

// NewReceiver creates a Receiver bound to the group published by the
// sender.
func NewReceiver(group *primegroup.Group, rnd io.Reader) *Receiver {
	return &Receiver{group: group, rnd: rnd}
}

// NewTransfer starts a new OT instance for choice bit, against the
// sender's published C.
func (r *Receiver) NewTransfer(C []byte, bit int) (*ReceiverXfer, error) {
	x, err := r.group.RandElt(r.rnd)
	if err != nil {
		return nil, err
	}
	return &ReceiverXfer{
		receiver: r,
		bit:      bit,
		x:        x,
		C:        new(big.Int).SetBytes(C),
	}, nil
}

// ReceiverXfer is one in-flight chooser-side OT instance.
type ReceiverXfer struct {
	receiver *Receiver
	bit      int
	x        *big.Int
	C        *big.Int
}

// Choice computes h_b = g^x and h_{1-b} = C * g^(-x), returning them
// ordered (h0, h1).
func (rx *ReceiverXfer) Choice() (h0, h1 []byte) {
	group := rx.receiver.group

	hb := group.GenPow(rx.x)
	gInvX := group.Inv(hb)
	hOther := group.Mul(rx.C, gInvX)

	if rx.bit == 0 {
		return hb.Bytes(), hOther.Bytes()
	}
	return hOther.Bytes(), hb.Bytes()
}

// ReceiveReply computes M_b from the sender's (g0, g1, e0, e1) reply.
func (rx *ReceiverXfer) ReceiveReply(g0, g1, e0, e1 []byte) ([]byte, error) {
	group := rx.receiver.group

	var Gb *big.Int
	var eb []byte
	if rx.bit == 0 {
		Gb = new(big.Int).SetBytes(g0)
		eb = e0
	} else {
		Gb = new(big.Int).SetBytes(g1)
		eb = e1
	}

	s := group.Pow(Gb, rx.x)
	k, err := kdf(s, len(eb))
	if err != nil {
		return nil, err
	}
	return bitutil.XorBytes(eb, k)
}
