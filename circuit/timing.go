//
// Copyright (c) 2020-2025 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"os"
	"time"

	"github.com/markkurossi/tabulate"
)

// Timing accumulates a sequence of named, timed samples over the
// lifetime of one protocol session and prints a summary table.
type Timing struct {
	Start   time.Time
	Samples []*Sample
}

// NewTiming starts a new timing sequence.
func NewTiming() *Timing {
	return &Timing{
		Start: time.Now(),
	}
}

// Sample records the duration since the previous sample (or since
// Start, for the first one) under label.
func (t *Timing) Sample(label string, cols []string) *Sample {
	start := t.Start
	if len(t.Samples) > 0 {
		start = t.Samples[len(t.Samples)-1].End
	}
	sample := &Sample{
		Label: label,
		Start: start,
		End:   time.Now(),
		Cols:  cols,
	}
	t.Samples = append(t.Samples, sample)
	return sample
}

// Print renders the accumulated samples as a table to stdout.
func (t *Timing) Print() {
	if len(t.Samples) == 0 {
		return
	}

	tab := tabulate.New(tabulate.Unicode)
	tab.Header("Op")
	tab.Header("Time").SetAlign(tabulate.MR)
	tab.Header("%").SetAlign(tabulate.MR)
	tab.Header("Xfer").SetAlign(tabulate.MR)

	total := t.Samples[len(t.Samples)-1].End.Sub(t.Start)
	for _, sample := range t.Samples {
		row := tab.Row()
		row.Column(sample.Label)

		duration := sample.End.Sub(sample.Start)
		row.Column(duration.String())
		row.Column(percent(duration, total))

		for _, col := range sample.Cols {
			row.Column(col)
		}
	}

	row := tab.Row()
	row.Column("Total")
	row.Column(total.String())

	tab.Print(os.Stdout)
}

func percent(part, total time.Duration) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}

// Sample is one named timed interval, with optional extra columns
// (e.g. bytes transferred).
type Sample struct {
	Label string
	Start time.Time
	End   time.Time
	Cols  []string
}
