package sim

import (
	"github.com/db47h/btorsim/bv"
	"github.com/db47h/btorsim/model"
	"github.com/db47h/btorsim/rng"
)

// Source supplies the values a Driver cannot derive by evaluating the
// model itself: input assignments for every cycle, and assignments for
// states that are free (no next function) or uninitialized (no init). It
// is also given every computed init/next value so a witness-backed source
// can cross-check it against the assignments it parsed, per the witness
// module's compatibility rules; a random-mode source simply ignores those
// calls.
type Source interface {
	// InputValue returns the value to drive input n (declaration index
	// idx, width w) with during cycle.
	InputValue(cycle int64, idx int, n *model.Node, w uint32) (bv.BV, error)
	// StateValue returns the value to drive a free or uninitialized state
	// n (declaration index idx, width w) with during cycle.
	StateValue(cycle int64, idx int, n *model.Node, w uint32) (bv.BV, error)
	// CheckInit is called once, at cycle 0, with the value the evaluator
	// computed for an initialized state's init expression.
	CheckInit(idx int, n *model.Node, computed bv.BV) error
	// CheckNext is called at the start of every cycle after 0 with the
	// value a state with a next function adopted during the preceding
	// transition.
	CheckNext(cycle int64, idx int, n *model.Node, computed bv.BV) error
}

// RandomSource draws every input and free-state value from an RNG, per the
// "random in random mode" fill policy. Init/next checks are no-ops: there
// is nothing to cross-check against.
type RandomSource struct {
	RNG *rng.RNG
}

// NewRandomSource returns a Source seeded deterministically from seed.
func NewRandomSource(seed uint32) *RandomSource {
	return &RandomSource{RNG: rng.New(seed)}
}

func (s *RandomSource) InputValue(_ int64, _ int, _ *model.Node, w uint32) (bv.BV, error) {
	return s.RNG.NewBitVector(w), nil
}

func (s *RandomSource) StateValue(_ int64, _ int, _ *model.Node, w uint32) (bv.BV, error) {
	return s.RNG.NewBitVector(w), nil
}

func (s *RandomSource) CheckInit(int, *model.Node, bv.BV) error        { return nil }
func (s *RandomSource) CheckNext(int64, int, *model.Node, bv.BV) error { return nil }
