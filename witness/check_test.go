package witness_test

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/db47h/btorsim/btor2parse"
	"github.com/db47h/btorsim/witness"
)

const counterModelForCheck = `
1 sort bitvec 8
2 sort bitvec 1
3 zero 1
4 state 1 s
5 init 1 4 3
6 one 1
7 add 1 4 6
8 next 1 4 7
9 constd 1 255
10 eq 2 4 9
11 bad 10
`

func TestCheckAcceptsMatchingWitness(t *testing.T) {
	m, err := btor2parse.Parse(strings.NewReader(counterModelForCheck), "counter.btor2")
	if err != nil {
		t.Fatal(err)
	}
	// Bare (no "sat" header) so there is no bad-property claim to confirm:
	// this exercises the plain state/value agreement path in isolation.
	const wsrc = "#0\n0 00000000 s\n@0\n.\n"
	w, err := witness.Parse(strings.NewReader(wsrc), "w.btor2w")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := witness.Check(m, w, witness.CheckOptions{Path: "w.btor2w"}); err != nil {
		t.Fatalf("unexpected error: %v\nmodel: %s", err, spew.Sdump(m))
	}
}

func TestCheckRejectsWidthMismatch(t *testing.T) {
	m, err := btor2parse.Parse(strings.NewReader(counterModelForCheck), "counter.btor2")
	if err != nil {
		t.Fatal(err)
	}
	const wsrc = "sat\nb0\n#0\n0 111 s\n@0\n.\n"
	w, err := witness.Parse(strings.NewReader(wsrc), "w.btor2w")
	if err != nil {
		t.Fatal(err)
	}
	_, err = witness.Check(m, w, witness.CheckOptions{Path: "w.btor2w"})
	if err == nil {
		t.Fatal("expected a width-mismatch error")
	}
	if !strings.Contains(err.Error(), "expected constant of width '8'") {
		t.Fatalf("error = %q, want it to mention \"expected constant of width '8'\"", err.Error())
	}
}

func TestCheckReportsUnreachedBadClaim(t *testing.T) {
	m, err := btor2parse.Parse(strings.NewReader(counterModelForCheck), "counter.btor2")
	if err != nil {
		t.Fatal(err)
	}
	// A single-cycle witness: s never reaches 0xFF, so the 'b0' claim in the
	// header is false.
	const wsrc = "sat\nb0\n#0\n0 00000000 s\n@0\n.\n"
	w, err := witness.Parse(strings.NewReader(wsrc), "w.btor2w")
	if err != nil {
		t.Fatal(err)
	}
	_, err = witness.Check(m, w, witness.CheckOptions{Path: "w.btor2w"})
	ue, ok := err.(*witness.UnreachedError)
	if !ok {
		t.Fatalf("err = %#v (%v), want *witness.UnreachedError", err, err)
	}
	if ue.PropertyIndex != 0 {
		t.Fatalf("PropertyIndex = %d, want 0", ue.PropertyIndex)
	}
}

func TestCheckRejectsJusticeProperty(t *testing.T) {
	m, err := btor2parse.Parse(strings.NewReader(counterModelForCheck), "counter.btor2")
	if err != nil {
		t.Fatal(err)
	}
	const wsrc = "sat\nj0\n@0\n.\n"
	w, err := witness.Parse(strings.NewReader(wsrc), "w.btor2w")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := witness.Check(m, w, witness.CheckOptions{Path: "w.btor2w"}); err != witness.ErrJusticeUnsupported {
		t.Fatalf("err = %v, want ErrJusticeUnsupported", err)
	}
}
