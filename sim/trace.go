package sim

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/db47h/btorsim/bv"
)

// Assignment is one "<idx> <binary> [symbol]" line of an emitted trace
// frame.
type Assignment struct {
	Index  int
	Value  bv.BV
	Symbol string
}

// Frame is everything emitted for one simulated cycle: an optional
// state-part (present at cycle 0, and at every cycle when --states is
// given) and an input-part, present at every cycle.
type Frame struct {
	Cycle  int64
	States []Assignment
	Inputs []Assignment
}

// Trace accumulates the frames of one simulation run for emission in the
// canonical trace format described by spec.md's external interfaces
// section.
type Trace struct {
	// Header lists the property tokens ("b0", "j1", ...) that appear on
	// the line right after "sat"; callers assemble this from the bad
	// properties the Driver actually reached plus any fake indices
	// requested on the command line.
	Header []string
	// EmitStates mirrors the --states flag: when false, only cycle 0
	// carries a state-part.
	EmitStates bool
	Frames     []Frame
}

// NewTrace returns an empty trace that will emit a state-part at every
// cycle iff emitStates is set.
func NewTrace(emitStates bool) *Trace {
	return &Trace{EmitStates: emitStates}
}

func (d *Driver) emit(cycle int64, tr *Trace) {
	f := Frame{Cycle: cycle}
	if cycle == 0 || tr.EmitStates {
		for idx, s := range d.M.States {
			if v := d.stateVal[s.ID]; v != nil {
				f.States = append(f.States, Assignment{Index: idx, Value: *v, Symbol: s.Symbol})
			}
		}
	}
	for idx, in := range d.M.Inputs {
		if v := d.Eval.Get(in.ID); v != nil {
			f.Inputs = append(f.Inputs, Assignment{Index: idx, Value: *v, Symbol: in.Symbol})
		}
	}
	tr.Frames = append(tr.Frames, f)
}

// WriteTo renders the accumulated frames: a "sat" line, the header line,
// per-cycle "#k"/"@k" sections in the order they were recorded, closed by
// a lone ".".
func (t *Trace) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "sat")
	fmt.Fprintln(bw, strings.Join(t.Header, " "))
	for _, f := range t.Frames {
		if len(f.States) > 0 {
			fmt.Fprintf(bw, "#%d\n", f.Cycle)
			for _, a := range f.States {
				writeAssignment(bw, a)
			}
		}
		fmt.Fprintf(bw, "@%d\n", f.Cycle)
		for _, a := range f.Inputs {
			writeAssignment(bw, a)
		}
	}
	fmt.Fprintln(bw, ".")
	return bw.Flush()
}

func writeAssignment(w *bufio.Writer, a Assignment) {
	if a.Symbol != "" {
		fmt.Fprintf(w, "%d %s %s\n", a.Index, a.Value.ToBinaryString(), a.Symbol)
		return
	}
	fmt.Fprintf(w, "%d %s\n", a.Index, a.Value.ToBinaryString())
}
