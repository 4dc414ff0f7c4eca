//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"fmt"
	"log"

	"github.com/markkurossi/text/superscript"
	"github.com/tp-mpc/yaogc/bitutil"
	"github.com/tp-mpc/yaogc/circuit"
	"github.com/tp-mpc/yaogc/env"
	"github.com/tp-mpc/yaogc/ot"
	"github.com/tp-mpc/yaogc/p2p"
)

// Role numbers a session's two parties for log messages: 1 is the
// garbler, 2 is the evaluator.
const (
	roleGarbler   = 1
	roleEvaluator = 2
)

// roleTag formats a role number the way bmr labels peers, e.g.
// "Garbler¹".
func roleTag(name string, role int) string {
	return fmt.Sprintf("%s%s", name, superscript.Itoa(role))
}

// otGroupBits is the bit size of the Diffie-Hellman group DH-OT
// generates for a session. It is independent of the circuit's label
// size.
const otGroupBits = 1024

// NewOT returns the oblivious transfer implementation for a session:
// the Diffie-Hellman protocol of section 4.6, or, when disabled, the
// passthrough mode that sends the evaluator's input bits in the
// clear.
func NewOT(cfg *env.Config, disable bool) ot.OT {
	if disable {
		return ot.NewPassthrough()
	}
	return ot.NewDHOT(otGroupBits, cfg.GetRandom())
}

// packLabelSignal appends the signal bit to a wire label so that one
// OT transfer carries both: the evaluator never learns the p-bit
// directly, only the label/signal pair selected by its plaintext
// choice bit.
func packLabelSignal(label ot.Label, s bool) ot.Label {
	return append(append(ot.Label{}, label...), boolByte(s))
}

func unpackLabelSignal(packed ot.Label) (ot.Label, bool, error) {
	if len(packed) < 1 {
		return nil, false, fmt.Errorf("%w: empty OT payload", ErrAborted)
	}
	label := ot.Label(append([]byte{}, packed[:len(packed)-1]...))
	s := packed[len(packed)-1] != 0
	return label, s, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// RunGarbler executes the garbler's side of section 4.7 for one
// circuit evaluation: garble, send the circuit package, deliver the
// garbler's own input labels directly, run OT for the evaluator's
// input wires, and receive the output signal bits.
//
// aliceInput is this party's plaintext operand, encoded in two's
// complement against the width of c.Alice, most-significant bit
// first.
func RunGarbler(conn *p2p.Conn, otImpl ot.OT, cfg *env.Config,
	c *circuit.Circuit, aliceInput int64, timing *circuit.Timing) (int64, error) {

	rnd := cfg.GetRandom()
	tag := roleTag("Garbler", roleGarbler)

	if err := ReceiveHello(conn); err != nil {
		return 0, fmt.Errorf("%w: hello: %v", ErrAborted, err)
	}
	if err := SendHello(conn); err != nil {
		return 0, err
	}
	log.Printf("%s: session started", tag)

	if timing != nil {
		timing.Sample("Hello", nil)
	}

	gc, err := c.Garble(rnd, ot.DefaultLabelSize)
	if err != nil {
		return 0, err
	}

	if timing != nil {
		timing.Sample("Garble", nil)
	}

	pkg := &CircuitPackage{Circuit: c, Tables: gc.Tables, PBitsOut: gc.PBitsOut}
	if err := SendCircuitPackage(conn, pkg); err != nil {
		return 0, err
	}
	if err := ReceiveAck(conn); err != nil {
		return 0, fmt.Errorf("%w: ack: %v", ErrAborted, err)
	}

	aliceBits, err := bitutil.ToBits(aliceInput, len(c.Alice))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInput, err)
	}

	garblerInputs := make(map[circuit.WireID]circuit.WireValue, len(c.Alice))
	for i, w := range c.Alice {
		bit := aliceBits[i] == 1
		garblerInputs[w] = circuit.WireValue{
			Label: circuit.LabelForBit(gc.Wires[w], bit),
			S:     bit != gc.PBits[w],
		}
	}
	if err := SendGarblerInputs(conn, garblerInputs); err != nil {
		return 0, err
	}

	if timing != nil {
		timing.Sample("Send circuit", nil)
	}

	if err := otImpl.InitSender(conn); err != nil {
		return 0, fmt.Errorf("%w: ot init: %v", ErrAborted, err)
	}
	otWires := make([]ot.Wire, len(c.Bob))
	for i, w := range c.Bob {
		otWires[i] = ot.Wire{
			L0: packLabelSignal(gc.Wires[w].L0, gc.PBits[w]),
			L1: packLabelSignal(gc.Wires[w].L1, !gc.PBits[w]),
		}
	}
	if err := otImpl.Send(otWires); err != nil {
		return 0, fmt.Errorf("%w: ot send: %v", ErrAborted, err)
	}

	if timing != nil {
		timing.Sample("OT", nil)
	}

	signals, err := ReceiveEvalResult(conn)
	if err != nil {
		return 0, fmt.Errorf("%w: result: %v", ErrAborted, err)
	}

	if timing != nil {
		timing.Sample("Result", nil)
	}

	outBits := circuit.DecodeOutputBits(c.Out, gc.PBitsOut, signals)
	log.Printf("%s: session complete, %d/%d bytes sent/received",
		tag, conn.Stats.Sent, conn.Stats.Recvd)
	return bitutil.FromBits(outBits), nil
}

// RunEvaluator executes the evaluator's side of section 4.7 for one
// circuit evaluation: receive the circuit package, retrieve the
// evaluator's own input labels via OT, evaluate, and send the output
// signal bits back.
//
// bobInput is this party's plaintext operand, encoded the same way as
// aliceInput in RunGarbler, against the width of the received
// circuit's Bob input list.
func RunEvaluator(conn *p2p.Conn, otImpl ot.OT, cfg *env.Config,
	bobInput int64, timing *circuit.Timing) error {

	tag := roleTag("Evaluator", roleEvaluator)

	if err := SendHello(conn); err != nil {
		return err
	}
	if err := ReceiveHello(conn); err != nil {
		return fmt.Errorf("%w: hello: %v", ErrAborted, err)
	}
	log.Printf("%s: session started", tag)

	if timing != nil {
		timing.Sample("Hello", nil)
	}

	pkg, err := ReceiveCircuitPackage(conn)
	if err != nil {
		return fmt.Errorf("%w: circuit: %v", ErrAborted, err)
	}
	if err := SendAck(conn); err != nil {
		return err
	}
	c := pkg.Circuit

	garblerInputs, err := ReceiveGarblerInputs(conn)
	if err != nil {
		return fmt.Errorf("%w: garbler inputs: %v", ErrAborted, err)
	}

	bobBits, err := bitutil.ToBits(bobInput, len(c.Bob))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInput, err)
	}
	flags := make([]bool, len(c.Bob))
	for i, b := range bobBits {
		flags[i] = b == 1
	}

	if timing != nil {
		timing.Sample("Receive circuit", nil)
	}

	if err := otImpl.InitReceiver(conn); err != nil {
		return fmt.Errorf("%w: ot init: %v", ErrAborted, err)
	}
	packed := make([]ot.Label, len(c.Bob))
	if err := otImpl.Receive(flags, packed); err != nil {
		return fmt.Errorf("%w: ot receive: %v", ErrAborted, err)
	}

	inputs := make(map[circuit.WireID]circuit.WireValue,
		len(garblerInputs)+len(c.Bob))
	for w, v := range garblerInputs {
		inputs[w] = v
	}
	for i, w := range c.Bob {
		label, s, err := unpackLabelSignal(packed[i])
		if err != nil {
			return err
		}
		inputs[w] = circuit.WireValue{Label: label, S: s}
	}

	if timing != nil {
		timing.Sample("OT", nil)
	}

	outputs, err := circuit.Evaluate(c, pkg.Tables, inputs)
	if err != nil {
		return fmt.Errorf("%w: evaluate: %v", ErrAborted, err)
	}

	signals := make(map[circuit.WireID]bool, len(outputs))
	for w, v := range outputs {
		signals[w] = v.S
	}

	if timing != nil {
		timing.Sample("Evaluate", nil)
	}

	if err := SendEvalResult(conn, signals); err != nil {
		return err
	}
	if timing != nil {
		timing.Sample("Send result", nil)
	}
	log.Printf("%s: session complete, %d/%d bytes sent/received",
		tag, conn.Stats.Sent, conn.Stats.Recvd)
	return nil
}
