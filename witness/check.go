package witness

import (
	"github.com/db47h/btorsim/bv"
	"github.com/db47h/btorsim/model"
	"github.com/db47h/btorsim/sim"
	"github.com/pkg/errors"
)

// MismatchError reports that a witness-supplied constant disagrees with
// what the model actually computes: a width mismatch against the target's
// declared sort, or a value that diverges from the simulated init/next
// value it is supposed to confirm.
type MismatchError struct {
	Path   string
	Line   int64
	Column int
	Msg    string
}

func (e *MismatchError) Error() string {
	if e.Column > 0 {
		return "incompatible constant in '" + e.Path + "' at line " + itoa(e.Line) + " column " + itoa(int64(e.Column)) + ": " + e.Msg
	}
	return "incompatible constant in '" + e.Path + "' at line " + itoa(e.Line) + ": " + e.Msg
}

// UnreachedError reports that the witness header claimed a bad property
// that the simulation never actually observed as true.
type UnreachedError struct {
	PropertyIndex int
	NodeID        int64
}

func (e *UnreachedError) Error() string {
	return "claimed bad state property 'b" + itoa(int64(e.PropertyIndex)) + "' id " + itoa(e.NodeID) + " not reached"
}

// ErrJusticeUnsupported is returned when a witness header claims a
// justice ('j') property; justice/fairness evaluation is out of scope.
var ErrJusticeUnsupported = errors.New("justice properties are not supported")

// CheckOptions controls how Check renders its trace.
type CheckOptions struct {
	Path       string // for error messages
	EmitTrace  bool
	EmitStates bool
}

// Check replays w against m using the same Driver/Evaluator machinery the
// random-mode driver uses, sourcing every input and free-state value from
// w instead of an RNG, and returns the resulting trace.
func Check(m *model.Model, w *Witness, opts CheckOptions) (*sim.Trace, error) {
	for _, p := range w.Properties {
		if p.Kind == 'j' {
			return nil, ErrJusticeUnsupported
		}
	}

	d, err := sim.NewDriver(m)
	if err != nil {
		return nil, err
	}

	byCycle := make(map[int64]*Frame, len(w.Frames))
	var k int64
	for i := range w.Frames {
		f := &w.Frames[i]
		byCycle[f.Cycle] = f
		if f.Cycle > k {
			k = f.Cycle
		}
	}

	src := &witnessSource{m: m, path: opts.Path, frames: byCycle}

	var tr *sim.Trace
	if opts.EmitTrace {
		tr = sim.NewTrace(opts.EmitStates)
	}
	if err := d.Run(k, src, tr); err != nil {
		return nil, err
	}

	if w.Kind == KindSat {
		for _, p := range w.Properties {
			if int(p.Index) >= len(m.Bads) {
				return nil, errors.Errorf("claimed bad property index %d has no corresponding 'bad' line", p.Index)
			}
			if d.BadCycle[p.Index] < 0 {
				return nil, &UnreachedError{PropertyIndex: p.Index, NodeID: m.Bads[p.Index].ID}
			}
		}
	}
	return tr, nil
}

// witnessSource implements sim.Source over a parsed Witness's frames,
// falling back to the zero value when a cycle supplies no assignment for
// a given input or free state, per the "zero in checking mode when
// absent" fill policy.
type witnessSource struct {
	m      *model.Model
	path   string
	frames map[int64]*Frame
}

func (s *witnessSource) InputValue(cycle int64, idx int, n *model.Node, w uint32) (bv.BV, error) {
	f := s.frames[cycle]
	if f == nil {
		return bv.Zero(w), nil
	}
	ra := findAssignment(f.Inputs, idx)
	if ra == nil {
		return bv.Zero(w), nil
	}
	return s.parseLiteral(*ra, w)
}

func (s *witnessSource) StateValue(cycle int64, idx int, n *model.Node, w uint32) (bv.BV, error) {
	f := s.frames[cycle]
	if f == nil {
		return bv.Zero(w), nil
	}
	ra := findAssignment(f.States, idx)
	if ra == nil {
		return bv.Zero(w), nil
	}
	return s.parseLiteral(*ra, w)
}

func (s *witnessSource) CheckInit(idx int, n *model.Node, computed bv.BV) error {
	return s.checkAgainstFrame(0, idx, n, computed)
}

func (s *witnessSource) CheckNext(cycle int64, idx int, n *model.Node, computed bv.BV) error {
	return s.checkAgainstFrame(cycle, idx, n, computed)
}

func (s *witnessSource) checkAgainstFrame(cycle int64, idx int, n *model.Node, computed bv.BV) error {
	f := s.frames[cycle]
	if f == nil {
		return nil
	}
	ra := findAssignment(f.States, idx)
	if ra == nil {
		return nil
	}
	supplied, err := s.parseLiteral(*ra, computed.Width())
	if err != nil {
		return err
	}
	if supplied.Compare(computed) != 0 {
		return &MismatchError{
			Path: s.path, Line: ra.Line, Column: ra.Column,
			Msg: errors.Errorf("state %d: witness value '%s' does not match simulated value '%s'", n.ID, supplied.ToBinaryString(), computed.ToBinaryString()).Error(),
		}
	}
	return nil
}

func (s *witnessSource) parseLiteral(ra RawAssignment, w uint32) (bv.BV, error) {
	if uint32(len(ra.Literal)) != w {
		return bv.BV{}, &MismatchError{
			Path: s.path, Line: ra.Line, Column: ra.Column,
			Msg: errors.Errorf("expected constant of width '%d'", w).Error(),
		}
	}
	v, err := bv.FromBinaryString(ra.Literal)
	if err != nil {
		return bv.BV{}, &MismatchError{Path: s.path, Line: ra.Line, Column: ra.Column, Msg: err.Error()}
	}
	return v, nil
}

func findAssignment(list []RawAssignment, idx int) *RawAssignment {
	for i := range list {
		if list[i].Index == idx {
			return &list[i]
		}
	}
	return nil
}
