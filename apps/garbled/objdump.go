//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"os"
	"strconv"

	"github.com/markkurossi/tabulate"
	"github.com/tp-mpc/yaogc/circuit"
)

// dumpObjects prints a table summarising the circuits held in each of
// the given circuit files.
func dumpObjects(files []string) error {
	type oCircuit struct {
		file string
		c    *circuit.Circuit
	}
	var circuits []oCircuit

	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		cf, err := circuit.ParseFile(f)
		f.Close()
		if err != nil {
			return err
		}
		for i := range cf.Circuits {
			circuits = append(circuits, oCircuit{file: file, c: &cf.Circuits[i]})
		}
	}

	if len(circuits) == 0 {
		return nil
	}

	tab := tabulate.New(tabulate.Github)
	tab.Header("File")
	tab.Header("Circuit")
	tab.Header("XOR").SetAlign(tabulate.MR)
	tab.Header("XNOR").SetAlign(tabulate.MR)
	tab.Header("AND").SetAlign(tabulate.MR)
	tab.Header("OR").SetAlign(tabulate.MR)
	tab.Header("NAND").SetAlign(tabulate.MR)
	tab.Header("NOR").SetAlign(tabulate.MR)
	tab.Header("NOT").SetAlign(tabulate.MR)
	tab.Header("Gates").SetAlign(tabulate.MR)
	tab.Header("Wires").SetAlign(tabulate.MR)

	for _, oc := range circuits {
		counts := oc.c.GateCounts()
		row := tab.Row()
		row.Column(oc.file)
		row.Column(oc.c.ID)
		row.Column(countStr(counts[circuit.XOR]))
		row.Column(countStr(counts[circuit.XNOR]))
		row.Column(countStr(counts[circuit.AND]))
		row.Column(countStr(counts[circuit.OR]))
		row.Column(countStr(counts[circuit.NAND]))
		row.Column(countStr(counts[circuit.NOR]))
		row.Column(countStr(counts[circuit.NOT]))
		row.Column(strconv.Itoa(len(oc.c.Gates)))
		row.Column(strconv.Itoa(oc.c.NumWires))
	}

	tab.Print(os.Stdout)
	return nil
}

func countStr(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
