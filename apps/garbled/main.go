//
// main.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

// Command garbled runs one side of a two-party garbled-circuit
// evaluation: the garbler garbles a circuit and sends it to the
// evaluator, the evaluator retrieves its own inputs via oblivious
// transfer and evaluates.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/tp-mpc/yaogc/circuit"
	"github.com/tp-mpc/yaogc/env"
	"github.com/tp-mpc/yaogc/p2p"
	"github.com/tp-mpc/yaogc/protocol"
)

// defaultPort is the fixed, configurable listening port for the
// evaluator's session socket.
const defaultPort = 8080

// Exit codes, per section 6 of the external interface.
const (
	exitOK         = 0
	exitAborted    = 1
	exitInputError = 2
)

// Aggregator reduces an input file's whitespace-separated integers to
// the single operand that drives a party's input wires. The default
// is summation; callers may substitute another reduction (product,
// max, ...) without changing the file format.
type Aggregator func([]int64) int64

// Sum is the default Aggregator.
func Sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage()
		return exitInputError
	}

	role := os.Args[1]
	fs := flag.NewFlagSet(role, flag.ExitOnError)

	circuitPath := fs.String("circuit", "", "circuit file")
	aliceFile := fs.String("alice", "", "alice input file")
	bobFile := fs.String("bob", "", "bob input file")
	outputPath := fs.String("output", "", "output file")
	bits := fs.Int("bits", 8, "input/output width in bits")
	noOT := fs.Bool("no-oblivious-transfer", false,
		"disable oblivious transfer (test only)")
	logLevel := fs.String("loglevel", "info",
		"debug|info|warning|error|critical")
	addr := fs.String("addr", fmt.Sprintf("localhost:%d", defaultPort),
		"evaluator address (garbler) or listen address (evaluator)")
	timingFlag := fs.Bool("timing", false, "print a timing report")
	name := fs.String("name", "adder", "circuit name (gen-circuit)")
	id := fs.String("id", "adder", "circuit id (gen-circuit)")
	fs.Parse(os.Args[2:])

	if err := checkLogLevel(*logLevel); err != nil {
		log.Print(err)
		return exitInputError
	}

	switch role {
	case "objdump":
		if err := dumpObjects(fs.Args()); err != nil {
			log.Print(err)
			return exitInputError
		}
		return exitOK

	case "gen-circuit":
		if *bits <= 0 || *bits > 64 {
			log.Printf("--bits out of range: %d", *bits)
			return exitInputError
		}
		if err := genCircuit(*outputPath, *name, *id, *bits); err != nil {
			log.Print(err)
			return exitInputError
		}
		return exitOK

	case "verify":
		ok, err := verifyResult(*aliceFile, *bobFile, *outputPath, Sum)
		if err != nil {
			log.Print(err)
			return exitInputError
		}
		if !ok {
			log.Print("verify: output does not match the aggregated inputs")
			return exitAborted
		}
		fmt.Println("verify: OK")
		return exitOK
	}

	if len(*circuitPath) == 0 {
		log.Print("--circuit is required")
		return exitInputError
	}
	if *bits <= 0 || *bits > 64 {
		log.Printf("--bits out of range: %d", *bits)
		return exitInputError
	}

	f, err := os.Open(*circuitPath)
	if err != nil {
		log.Print(err)
		return exitInputError
	}
	cf, err := circuit.ParseFile(f)
	f.Close()
	if err != nil {
		log.Print(err)
		return exitInputError
	}
	if len(cf.Circuits) == 0 {
		log.Print("circuit file contains no circuits")
		return exitInputError
	}
	c := &cf.Circuits[0]

	cfg := &env.Config{}
	ot := protocol.NewOT(cfg, *noOT)

	var timing *circuit.Timing
	if *timingFlag {
		timing = circuit.NewTiming()
	}

	switch role {
	case "garbler":
		input, err := readAggregatedInput(*aliceFile, Sum)
		if err != nil {
			log.Print(err)
			return exitInputError
		}

		conn, err := p2p.Dial(*addr)
		if err != nil {
			log.Print(err)
			return exitAborted
		}
		defer conn.Close()

		result, err := protocol.RunGarbler(conn, ot, cfg, c, input, timing)
		if err != nil {
			log.Print(err)
			return exitCodeForErr(err)
		}
		if timing != nil {
			timing.Print()
		}
		if err := writeOutput(*outputPath, result); err != nil {
			log.Print(err)
			return exitInputError
		}
		return exitOK

	case "evaluator":
		input, err := readAggregatedInput(*bobFile, Sum)
		if err != nil {
			log.Print(err)
			return exitInputError
		}

		ln, err := p2p.Listen(*addr)
		if err != nil {
			log.Print(err)
			return exitAborted
		}
		defer ln.Close()

		conn, err := ln.Accept()
		if err != nil {
			log.Print(err)
			return exitAborted
		}
		defer conn.Close()

		if err := protocol.RunEvaluator(conn, ot, cfg, input, timing); err != nil {
			log.Print(err)
			return exitCodeForErr(err)
		}
		if timing != nil {
			timing.Print()
		}
		return exitOK

	default:
		usage()
		return exitInputError
	}
}

func usage() {
	fmt.Fprintln(os.Stderr,
		"usage: garbled {garbler|evaluator|objdump|gen-circuit|verify} [flags]")
}

// exitCodeForErr maps a session error to the exit codes of section 6:
// malformed input (ErrInput, e.g. an operand too wide for its input
// wires) is an input error, everything else is a protocol abort.
func exitCodeForErr(err error) int {
	if errors.Is(err, protocol.ErrInput) {
		return exitInputError
	}
	return exitAborted
}

func checkLogLevel(level string) error {
	switch level {
	case "debug", "info", "warning", "error", "critical":
		return nil
	default:
		return fmt.Errorf("invalid --loglevel %q", level)
	}
}

// readAggregatedInput reads whitespace-separated decimal integers
// from path and reduces them to a single operand via agg, per section
// 6's configurable aggregator (default: sum).
func readAggregatedInput(path string, agg Aggregator) (int64, error) {
	if len(path) == 0 {
		return 0, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var values []int64
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		n, err := strconv.ParseInt(strings.TrimSpace(scanner.Text()), 10, 64)
		if err != nil {
			return 0, err
		}
		values = append(values, n)
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return agg(values), nil
}

func writeOutput(path string, value int64) error {
	line := strconv.FormatInt(value, 10) + "\n"
	if len(path) == 0 {
		fmt.Print(line)
		return nil
	}
	return os.WriteFile(path, []byte(line), 0644)
}

// genCircuit writes a generated n-bit adder circuit to path (or
// stdout when path is empty), matching the bundled adder demo's
// circuit-on-demand generation.
func genCircuit(path, name, id string, bits int) error {
	f, err := circuit.GenerateAdder(bits, name, id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if len(path) == 0 {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// verifyResult re-reads the Alice/Bob input files and the output
// file and checks the output equals their combined aggregate,
// matching the bundled adder demo's post-run self-check. It is only
// meaningful when garbler and evaluator both ran the same reference
// adder circuit.
func verifyResult(aliceFile, bobFile, outputPath string, agg Aggregator) (bool, error) {
	alice, err := readAggregatedInput(aliceFile, agg)
	if err != nil {
		return false, err
	}
	bob, err := readAggregatedInput(bobFile, agg)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return false, err
	}
	got, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return false, err
	}

	return got == alice+bob, nil
}
