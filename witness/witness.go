// Package witness parses BTOR2 witness traces and checks them against a
// model by re-running the same simulation machinery the random-mode driver
// uses, sourcing inputs and free-state values from the witness instead of
// an RNG.
package witness

import "github.com/pkg/errors"

// Kind distinguishes the two witness header shapes Parse accepts at the
// top of a witness stream. A third shape, an "unsat" header, is rejected
// with ErrUnsatWitnessUnsupported and has no Kind value.
type Kind int

const (
	// KindSat is a witness with a "sat" header and a property-claim list.
	KindSat Kind = iota
	// KindUnknown is a bare witness with no header line at all: frames
	// start immediately, and there is no property list to confirm at the
	// end.
	KindUnknown
)

// ErrUnsatWitnessUnsupported is returned by Parse when a witness stream
// opens with an "unsat" header; consuming unsat witnesses is out of scope.
var ErrUnsatWitnessUnsupported = errors.New("'unsat' witnesses not supported")

// ErrMultipleWitnesses is returned by Parse when a stream contains more
// than one sat or unknown-kind witness; only a single actual witness per
// stream is supported.
var ErrMultipleWitnesses = errors.New("more than one actual witness not supported")

// Property is one claimed bad ('b') or justice ('j') property reference in
// a sat witness's header line.
type Property struct {
	Kind  byte // 'b' or 'j'
	Index int
}

// RawAssignment is one parsed "<idx> <literal> [symbol]" line, kept in its
// textual form: turning the literal into a bv.BV requires knowing the
// target node's declared width, which Parse does not have access to.
type RawAssignment struct {
	Index   int
	Literal string
	Symbol  string
	Line    int64
	Column  int // 1-based column of Literal's first character
}

// Frame is one '#K'/'@K' pair of sections from the witness stream.
type Frame struct {
	Cycle        int64
	HasStatePart bool
	States       []RawAssignment
	Inputs       []RawAssignment
}

// Witness is the fully parsed, not-yet-checked form of a witness stream.
type Witness struct {
	Kind       Kind
	Properties []Property
	Frames     []Frame
}
