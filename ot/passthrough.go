//
// passthrough.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package ot

import "fmt"

// Passthrough implements the OT interface by sending choice bits and
// labels in the clear. It exists only for the --no-oblivious-transfer
// debug mode (spec §4.6: "an explicit, separately gated debug/test
// mode ... MUST NOT be the default"); it gives the evaluator both
// wire labels' worth of secrecy for free and must never be reachable
// without an explicit opt-in from the caller.
type Passthrough struct {
	conn IO
}

// NewPassthrough creates an OT-disabled transfer.
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// InitSender stores the transport.
func (o *Passthrough) InitSender(conn IO) error {
	o.conn = conn
	return nil
}

// InitReceiver stores the transport.
func (o *Passthrough) InitReceiver(conn IO) error {
	o.conn = conn
	return nil
}

// Send reads each choice bit in the clear and replies with the
// selected label.
func (o *Passthrough) Send(wires []Wire) error {
	for _, w := range wires {
		bit, err := o.conn.ReceiveUint32()
		if err != nil {
			return err
		}
		var l Label
		switch bit {
		case 0:
			l = w.L0
		case 1:
			l = w.L1
		default:
			return fmt.Errorf("ot: passthrough choice bit out of range: %d", bit)
		}
		if err := o.conn.SendData(l.Bytes()); err != nil {
			return err
		}
		if err := o.conn.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Receive sends each choice bit in the clear and reads back the
// selected label.
func (o *Passthrough) Receive(flags []bool, result []Label) error {
	for i, flag := range flags {
		bit := uint32(0)
		if flag {
			bit = 1
		}
		if err := o.conn.SendUint32(int(bit)); err != nil {
			return err
		}
		if err := o.conn.Flush(); err != nil {
			return err
		}
		data, err := o.conn.ReceiveData()
		if err != nil {
			return err
		}
		result[i] = Label(data)
	}
	return nil
}
