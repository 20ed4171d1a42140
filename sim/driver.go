package sim

import (
	"github.com/db47h/btorsim/bv"
	"github.com/db47h/btorsim/model"
	"github.com/pkg/errors"
)

// DriverError reports a structural problem with the model discovered only
// once simulation actually starts, such as a state with an init but no
// next function.
type DriverError struct {
	Line int64
	Msg  string
}

func (e *DriverError) Error() string { return e.Msg }

// Driver owns the mutable simulation state (the latched value of every
// state node, and the bookkeeping for bad/constraint checks) across a run.
// A Driver is used exactly once; construct a new one per run.
type Driver struct {
	M    *model.Model
	Eval *Evaluator

	stateVal    []*bv.BV // id-indexed: the value a state holds during the current cycle
	pendingNext []*bv.BV // id-indexed: the value computed for a state's next function, to be promoted at the following cycle's transition

	// BadCycle[i] is -1 until bad i is first observed true, after which it
	// holds the cycle at which that happened.
	BadCycle []int64
	// ConstraintViolated is -1 until a constraint is first observed
	// false, after which it holds that cycle; simulation stops advancing
	// once this is set.
	ConstraintViolated int64
}

// NewDriver validates the structural precondition spec §3 calls out
// explicitly (a state with an init but no next is ill-formed for
// simulation purposes) and returns a Driver ready to Run.
func NewDriver(m *model.Model) (*Driver, error) {
	for _, s := range m.States {
		if m.Inits[s.ID] != nil && m.Nexts[s.ID] == nil {
			return nil, &DriverError{
				Line: s.Line,
				Msg:  errors.Errorf("line %d: state %d has an init but no next function", s.Line, s.ID).Error(),
			}
		}
	}
	d := &Driver{
		M:                  m,
		Eval:               NewEvaluator(m),
		stateVal:           make([]*bv.BV, m.NumLines()),
		pendingNext:        make([]*bv.BV, m.NumLines()),
		BadCycle:           make([]int64, len(m.Bads)),
		ConstraintViolated: -1,
	}
	for i := range d.BadCycle {
		d.BadCycle[i] = -1
	}
	return d, nil
}

// Run simulates up to k+1 cycles (0..k inclusive), sourcing inputs and free
// state values from src, emitting a Frame into tr after every cycle if tr
// is non-nil. It stops early once every bad has been reached or a
// constraint has been violated, per spec §4.5 step 6.
func (d *Driver) Run(k int64, src Source, tr *Trace) error {
	for cycle := int64(0); cycle <= k; cycle++ {
		if cycle > 0 {
			d.Eval.Reset()
			if err := d.transition(cycle, src); err != nil {
				return err
			}
		}
		if err := d.initCycle(cycle, src); err != nil {
			return err
		}
		if err := d.step(cycle); err != nil {
			return err
		}
		if tr != nil {
			d.emit(cycle, tr)
		}
		d.checkConstraints(cycle)
		if d.ConstraintViolated < 0 {
			d.checkBads(cycle)
		}
		if d.ConstraintViolated >= 0 || d.allBadsReached() {
			break
		}
	}
	return nil
}

// transition promotes every state with a next function's pending value
// (computed during the previous cycle's step) into its current value.
// States without a next function are left alone here; initCycle refreshes
// them as free inputs every cycle.
func (d *Driver) transition(cycle int64, src Source) error {
	for idx, s := range d.M.States {
		if d.M.Nexts[s.ID] == nil {
			continue
		}
		v := d.pendingNext[s.ID]
		if v == nil {
			return &DriverError{Line: s.Line, Msg: errors.Errorf("line %d: state %d has no pending next value at cycle %d", s.Line, s.ID, cycle).Error()}
		}
		if err := src.CheckNext(cycle, idx, s, *v); err != nil {
			return err
		}
		d.stateVal[s.ID] = v
		d.pendingNext[s.ID] = nil
	}
	return nil
}

// initCycle establishes the current-cycle value of every state and input
// node in the evaluator's memo table: states with an init take it at cycle
// 0, states with a next function keep the value transition promoted, and
// everything else (free states, and every input) is drawn from src.
func (d *Driver) initCycle(cycle int64, src Source) error {
	for idx, s := range d.M.States {
		w := d.M.Width(s.ID)
		switch {
		case cycle == 0 && d.M.Inits[s.ID] != nil:
			v, err := d.Eval.Simulate(d.M.Inits[s.ID].Args[1])
			if err != nil {
				return err
			}
			if err := src.CheckInit(idx, s, v); err != nil {
				return err
			}
			d.stateVal[s.ID] = &v
		case d.M.Nexts[s.ID] != nil:
			// Left in place by transition (cycle 0: undefined until
			// init runs above, covered by the first case; a state with
			// next but no init simply starts from whatever src supplies
			// below on cycle 0 via the free-state path.)
			if d.stateVal[s.ID] == nil {
				v, err := src.StateValue(cycle, idx, s, w)
				if err != nil {
					return err
				}
				d.stateVal[s.ID] = &v
			}
		default:
			v, err := src.StateValue(cycle, idx, s, w)
			if err != nil {
				return err
			}
			d.stateVal[s.ID] = &v
		}
		d.Eval.Set(s.ID, *d.stateVal[s.ID])
	}
	for idx, in := range d.M.Inputs {
		v, err := src.InputValue(cycle, idx, in, d.M.Width(in.ID))
		if err != nil {
			return err
		}
		d.Eval.Set(in.ID, v)
	}
	return nil
}

// step evaluates every bad and constraint predicate and every state's next
// expression for the current cycle, populating pendingNext for states that
// have one.
func (d *Driver) step(int64) error {
	for _, b := range d.M.Bads {
		if _, err := d.Eval.Simulate(b.Args[0]); err != nil {
			return err
		}
	}
	for _, c := range d.M.Constraints {
		if _, err := d.Eval.Simulate(c.Args[0]); err != nil {
			return err
		}
	}
	for _, s := range d.M.States {
		next := d.M.Nexts[s.ID]
		if next == nil {
			continue
		}
		v, err := d.Eval.Simulate(next.Args[1])
		if err != nil {
			return err
		}
		d.pendingNext[s.ID] = &v
	}
	return nil
}

func (d *Driver) checkConstraints(cycle int64) {
	if d.ConstraintViolated >= 0 {
		return
	}
	for _, c := range d.M.Constraints {
		val, err := d.Eval.Simulate(c.Args[0])
		if err != nil {
			continue
		}
		if val.IsZero() {
			d.ConstraintViolated = cycle
			return
		}
	}
}

func (d *Driver) checkBads(cycle int64) {
	for i, b := range d.M.Bads {
		if d.BadCycle[i] >= 0 {
			continue
		}
		v, err := d.Eval.Simulate(b.Args[0])
		if err != nil {
			continue
		}
		if !v.IsZero() {
			d.BadCycle[i] = cycle
		}
	}
}

func (d *Driver) allBadsReached() bool {
	for _, c := range d.BadCycle {
		if c < 0 {
			return false
		}
	}
	return true
}

// StateValue returns the value state id currently holds.
func (d *Driver) StateValue(id int64) bv.BV {
	return *d.stateVal[id]
}
