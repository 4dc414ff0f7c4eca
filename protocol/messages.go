//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package protocol implements the garbler and evaluator drivers that
// sequence garbled-circuit delivery, oblivious transfer, and output
// decoding over a p2p.Conn transport.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/tp-mpc/yaogc/circuit"
	"github.com/tp-mpc/yaogc/ot"
	"github.com/tp-mpc/yaogc/p2p"
)

// Tag identifies a message kind on the wire.
type Tag uint32

// Message tags, per the tagged wire format: Hello, Circuit, Ack,
// GarblerInputs and EvalResult are sent with these tags; OTSetup,
// OTChoice and OTReply are exchanged inside the OT subprotocol itself
// once the driver hands control to it.
const (
	TagHello Tag = iota
	TagCircuit
	TagAck
	TagGarblerInputs
	TagEvalResult
)

func sendTag(conn *p2p.Conn, tag Tag) error {
	return conn.SendUint32(int(tag))
}

func receiveTag(conn *p2p.Conn, want Tag) error {
	got, err := conn.ReceiveUint32()
	if err != nil {
		return err
	}
	if Tag(got) != want {
		return fmt.Errorf("%w: got tag %d, want %d", ErrTransport, got, want)
	}
	return nil
}

// SendHello announces a new circuit evaluation session.
func SendHello(conn *p2p.Conn) error {
	if err := sendTag(conn, TagHello); err != nil {
		return err
	}
	return conn.Flush()
}

// ReceiveHello waits for the session announcement.
func ReceiveHello(conn *p2p.Conn) error {
	return receiveTag(conn, TagHello)
}

// SendAck acknowledges receipt of the garbled circuit package.
func SendAck(conn *p2p.Conn) error {
	if err := sendTag(conn, TagAck); err != nil {
		return err
	}
	return conn.Flush()
}

// ReceiveAck waits for the acknowledgement.
func ReceiveAck(conn *p2p.Conn) error {
	return receiveTag(conn, TagAck)
}

// CircuitPackage is the garbler's { circuit, tables, pbits_out }
// message, sent once per circuit.
type CircuitPackage struct {
	Circuit  *circuit.Circuit
	Tables   map[circuit.WireID]circuit.GarbledTable
	PBitsOut map[circuit.WireID]bool
}

// SendCircuitPackage sends the garbled circuit to the evaluator.
func SendCircuitPackage(conn *p2p.Conn, pkg *CircuitPackage) error {
	if err := sendTag(conn, TagCircuit); err != nil {
		return err
	}

	raw, err := json.Marshal(pkg.Circuit)
	if err != nil {
		return err
	}
	if err := conn.SendData(raw); err != nil {
		return err
	}

	if err := conn.SendUint32(len(pkg.Tables)); err != nil {
		return err
	}
	for _, gate := range pkg.Circuit.Gates {
		table, ok := pkg.Tables[gate.ID]
		if !ok {
			return fmt.Errorf("%w: missing table for gate %d",
				circuit.ErrCircuitMalformed, gate.ID)
		}
		if err := conn.SendUint32(int(gate.ID)); err != nil {
			return err
		}
		if err := conn.SendUint32(len(table)); err != nil {
			return err
		}
		for _, cell := range table {
			if err := conn.SendData(cell); err != nil {
				return err
			}
		}
	}

	if err := conn.SendUint32(len(pkg.PBitsOut)); err != nil {
		return err
	}
	for _, w := range pkg.Circuit.Out {
		if err := conn.SendUint32(int(w)); err != nil {
			return err
		}
		if err := conn.SendUint32(boolInt(pkg.PBitsOut[w])); err != nil {
			return err
		}
	}

	return conn.Flush()
}

// ReceiveCircuitPackage receives the garbled circuit from the
// garbler.
func ReceiveCircuitPackage(conn *p2p.Conn) (*CircuitPackage, error) {
	if err := receiveTag(conn, TagCircuit); err != nil {
		return nil, err
	}

	raw, err := conn.ReceiveData()
	if err != nil {
		return nil, err
	}
	var c circuit.Circuit
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", circuit.ErrCircuitMalformed, err)
	}

	numTables, err := conn.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	tables := make(map[circuit.WireID]circuit.GarbledTable, numTables)
	for i := 0; i < numTables; i++ {
		gateID, err := conn.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		count, err := conn.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		table := make(circuit.GarbledTable, count)
		for j := 0; j < count; j++ {
			cell, err := conn.ReceiveData()
			if err != nil {
				return nil, err
			}
			table[j] = cell
		}
		tables[circuit.WireID(gateID)] = table
	}

	numPBits, err := conn.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	pbitsOut := make(map[circuit.WireID]bool, numPBits)
	for i := 0; i < numPBits; i++ {
		w, err := conn.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		bit, err := conn.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		pbitsOut[circuit.WireID(w)] = bit != 0
	}

	return &CircuitPackage{Circuit: &c, Tables: tables, PBitsOut: pbitsOut}, nil
}

// SendGarblerInputs delivers the garbler's own pre-masked input labels
// directly (they never need to go through OT: they reveal nothing
// beyond the labels the garbler already chose to send).
func SendGarblerInputs(conn *p2p.Conn, inputs map[circuit.WireID]circuit.WireValue) error {
	if err := sendTag(conn, TagGarblerInputs); err != nil {
		return err
	}
	if err := conn.SendUint32(len(inputs)); err != nil {
		return err
	}
	for w, v := range inputs {
		if err := conn.SendUint32(int(w)); err != nil {
			return err
		}
		if err := conn.SendData(v.Label.Bytes()); err != nil {
			return err
		}
		if err := conn.SendUint32(boolInt(v.S)); err != nil {
			return err
		}
	}
	return conn.Flush()
}

// ReceiveGarblerInputs receives the garbler's input wire values.
func ReceiveGarblerInputs(conn *p2p.Conn) (map[circuit.WireID]circuit.WireValue, error) {
	if err := receiveTag(conn, TagGarblerInputs); err != nil {
		return nil, err
	}
	n, err := conn.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	inputs := make(map[circuit.WireID]circuit.WireValue, n)
	for i := 0; i < n; i++ {
		w, err := conn.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		label, err := conn.ReceiveData()
		if err != nil {
			return nil, err
		}
		s, err := conn.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		inputs[circuit.WireID(w)] = circuit.WireValue{
			Label: ot.Label(label),
			S:     s != 0,
		}
	}
	return inputs, nil
}

// SendEvalResult sends the evaluator's output signal bits back to the
// garbler.
func SendEvalResult(conn *p2p.Conn, result map[circuit.WireID]bool) error {
	if err := sendTag(conn, TagEvalResult); err != nil {
		return err
	}
	if err := conn.SendUint32(len(result)); err != nil {
		return err
	}
	for w, s := range result {
		if err := conn.SendUint32(int(w)); err != nil {
			return err
		}
		if err := conn.SendUint32(boolInt(s)); err != nil {
			return err
		}
	}
	return conn.Flush()
}

// ReceiveEvalResult receives the evaluator's output signal bits.
func ReceiveEvalResult(conn *p2p.Conn) (map[circuit.WireID]bool, error) {
	if err := receiveTag(conn, TagEvalResult); err != nil {
		return nil, err
	}
	n, err := conn.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	result := make(map[circuit.WireID]bool, n)
	for i := 0; i < n; i++ {
		w, err := conn.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		s, err := conn.ReceiveUint32()
		if err != nil {
			return nil, err
		}
		result[circuit.WireID(w)] = s != 0
	}
	return result, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
