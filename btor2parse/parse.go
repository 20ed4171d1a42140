// Package btor2parse parses the BTOR2 line-based model format into a
// model.Model. Each non-blank, non-comment line is a whitespace-separated
// record; see spec §4.3 for the grammar.
package btor2parse

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/db47h/btorsim/model"
	"github.com/pkg/errors"
)

// ParseError reports a malformed model line, giving the file path and
// line number of the offending line.
type ParseError struct {
	Path string
	Line int64
	Msg  string
}

func (e *ParseError) Error() string {
	return "parse error in '" + e.Path + "' at line " + strconv.FormatInt(e.Line, 10) + ": " + e.Msg
}

func perr(path string, line int64, format string, args ...interface{}) error {
	return &ParseError{Path: path, Line: line, Msg: errors.Errorf(format, args...).Error()}
}

type parser struct {
	path string
	line int64

	nodes []*model.Node
	sorts *immutable.SortedMap

	inputs, states, bads, constraints, justices []*model.Node
	inits, nexts                                []*model.Node
}

// Parse reads a BTOR2 model from r (whose display name is path, used only
// in error messages) and returns the resulting Model.
func Parse(r io.Reader, path string) (*model.Model, error) {
	p := &parser{
		path:  path,
		sorts: immutable.NewSortedMap(sortComparer{}),
	}
	p.nodes = make([]*model.Node, 1, 64)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		p.line++
		line := sc.Text()
		if err := p.parseLine(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading '%s'", path)
	}

	m := &model.Model{
		Nodes:       p.nodes,
		Sorts:       p.sorts,
		Inputs:      p.inputs,
		States:      p.states,
		Bads:        p.bads,
		Constraints: p.constraints,
		Justices:    p.justices,
		Inits:       p.inits,
		Nexts:       p.nexts,
	}
	if err := m.Validate(); err != nil {
		return nil, &ParseError{Path: path, Line: p.line, Msg: err.Error()}
	}
	return m, nil
}

type sortComparer struct{}

func (sortComparer) Compare(a, b interface{}) int {
	x, y := a.(int64), b.(int64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func isComment(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, ";")
}

func (p *parser) grow(id int64) {
	for int64(len(p.nodes)) <= id {
		p.nodes = append(p.nodes, nil)
	}
	for int64(len(p.inits)) <= id {
		p.inits = append(p.inits, nil)
		p.nexts = append(p.nexts, nil)
	}
}

func (p *parser) parseLine(line string) error {
	if isComment(line) {
		return nil
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return perr(p.path, p.line, "expected '<id> <tag> ...'")
	}
	id, err := parseNodeID(fields[0])
	if err != nil {
		return perr(p.path, p.line, "invalid identifier '%s': %s", fields[0], err)
	}
	tag, ok := model.TagByName[fields[1]]
	if !ok {
		return perr(p.path, p.line, "unknown tag '%s'", fields[1])
	}
	p.grow(id)
	if p.nodes[id] != nil {
		return perr(p.path, p.line, "identifier %d already defined", id)
	}

	n := &model.Node{ID: id, Tag: tag, Line: p.line}
	rest := fields[2:]

	switch tag {
	case model.TagSort:
		return p.parseSort(n, rest)
	case model.TagInput, model.TagState:
		return p.parseInputState(n, rest)
	case model.TagInit, model.TagNext:
		return p.parseInitNext(n, rest)
	case model.TagBad, model.TagConstraint, model.TagOutput:
		return p.parseSingleArgRole(n, rest)
	case model.TagFair, model.TagJustice:
		return p.parseFairJustice(n, rest)
	case model.TagConst, model.TagConstd, model.TagConsth:
		return p.parseConstant(n, rest)
	case model.TagSlice:
		return p.parseSlice(n, rest)
	case model.TagUext, model.TagSext:
		return p.parseExtend(n, rest)
	case model.TagOne, model.TagOnes, model.TagZero:
		return p.parseNullary(n, rest)
	case model.TagNot, model.TagNeg, model.TagInc, model.TagDec,
		model.TagRedand, model.TagRedor:
		return p.parseUnary(n, rest)
	case model.TagIte:
		return p.parseTernary(n, rest)
	default:
		if model.Unsupported(tag) {
			return perr(p.path, p.line, "unsupported '%d %s ...'", id, fields[1])
		}
		return p.parseBinary(n, rest)
	}
}

func (p *parser) parseSort(n *model.Node, rest []string) error {
	if len(rest) < 1 {
		return perr(p.path, p.line, "expected sort kind")
	}
	switch rest[0] {
	case "bitvec":
		if len(rest) != 2 {
			return perr(p.path, p.line, "expected 'sort bitvec <width>'")
		}
		w, err := parseWidth(rest[1])
		if err != nil || w == 0 {
			return perr(p.path, p.line, "invalid bitvec width '%s'", rest[1])
		}
		p.sorts = p.sorts.Set(n.ID, &model.Sort{ID: n.ID, Kind: model.SortBitvec, Width: w})
	case "array":
		return perr(p.path, p.line, "unsupported sort 'array'")
	default:
		return perr(p.path, p.line, "unknown sort kind '%s'", rest[0])
	}
	p.nodes[n.ID] = n
	return nil
}

func (p *parser) requireSort(tok string) (int64, error) {
	id, err := parseNodeID(tok)
	if err != nil {
		return 0, err
	}
	if _, ok := p.sorts.Get(id); !ok {
		return 0, errors.Errorf("undeclared sort %d", id)
	}
	return id, nil
}

func (p *parser) parseInputState(n *model.Node, rest []string) error {
	if len(rest) < 1 {
		return perr(p.path, p.line, "expected '<id> %s <sort> [symbol]'", n.Tag)
	}
	sortID, err := p.requireSort(rest[0])
	if err != nil {
		return perr(p.path, p.line, "%s", err)
	}
	n.SortID = sortID
	if len(rest) > 1 {
		n.Symbol = strings.Join(rest[1:], " ")
	}
	p.nodes[n.ID] = n
	if n.Tag == model.TagInput {
		p.inputs = append(p.inputs, n)
	} else {
		p.states = append(p.states, n)
	}
	return nil
}

func (p *parser) parseInitNext(n *model.Node, rest []string) error {
	if len(rest) < 3 {
		return perr(p.path, p.line, "expected '<id> %s <sort> <state> <value>'", n.Tag)
	}
	sortID, err := p.requireSort(rest[0])
	if err != nil {
		return perr(p.path, p.line, "%s", err)
	}
	stateID, err := parseNodeID(rest[1])
	if err != nil {
		return perr(p.path, p.line, "invalid state id '%s'", rest[1])
	}
	valueID, err := parseArgID(rest[2])
	if err != nil {
		return perr(p.path, p.line, "invalid value id '%s'", rest[2])
	}
	n.SortID = sortID
	n.Args[0], n.Args[1], n.NArgs = stateID, valueID, 2
	p.nodes[n.ID] = n
	p.grow(stateID)
	if n.Tag == model.TagInit {
		if p.inits[stateID] != nil {
			return perr(p.path, p.line, "state %d already has an init", stateID)
		}
		p.inits[stateID] = n
	} else {
		if p.nexts[stateID] != nil {
			return perr(p.path, p.line, "state %d already has a next", stateID)
		}
		p.nexts[stateID] = n
	}
	return nil
}

func (p *parser) parseSingleArgRole(n *model.Node, rest []string) error {
	if len(rest) < 1 {
		return perr(p.path, p.line, "expected '<id> %s <node>'", n.Tag)
	}
	argID, err := parseArgID(rest[0])
	if err != nil {
		return perr(p.path, p.line, "invalid argument '%s'", rest[0])
	}
	n.Args[0], n.NArgs = argID, 1
	p.nodes[n.ID] = n
	switch n.Tag {
	case model.TagBad:
		p.bads = append(p.bads, n)
	case model.TagConstraint:
		p.constraints = append(p.constraints, n)
	}
	return nil
}

// parseFairJustice records a 'fair' or 'justice' line without evaluating
// it. 'fair <node>' takes a single argument like bad/constraint; 'justice
// <n> <lit1> ... <litn>' takes a declared count followed by that many
// argument literals. Neither is ever simulated (see model.Unsupported),
// but both must parse and be counted so that '-j' header validation has
// something real to check against.
func (p *parser) parseFairJustice(n *model.Node, rest []string) error {
	switch n.Tag {
	case model.TagFair:
		if len(rest) < 1 {
			return perr(p.path, p.line, "expected '<id> fair <node>'")
		}
		argID, err := parseArgID(rest[0])
		if err != nil {
			return perr(p.path, p.line, "invalid argument '%s'", rest[0])
		}
		n.Args[0], n.NArgs = argID, 1
	case model.TagJustice:
		if len(rest) < 1 {
			return perr(p.path, p.line, "expected '<id> justice <n> <lit>...'")
		}
		count, err := parseWidth(rest[0])
		if err != nil {
			return perr(p.path, p.line, "invalid argument count '%s'", rest[0])
		}
		if len(rest) != 1+int(count) {
			return perr(p.path, p.line, "justice declares %d arguments but %d given", count, len(rest)-1)
		}
		for i := 0; i < int(count) && i < len(n.Args); i++ {
			argID, err := parseArgID(rest[1+i])
			if err != nil {
				return perr(p.path, p.line, "invalid argument '%s'", rest[1+i])
			}
			n.Args[i] = argID
		}
		if count > 0 {
			n.NArgs = 1
		}
	}
	p.nodes[n.ID] = n
	if n.Tag == model.TagJustice {
		p.justices = append(p.justices, n)
	}
	return nil
}

func (p *parser) parseConstant(n *model.Node, rest []string) error {
	if len(rest) < 2 {
		return perr(p.path, p.line, "expected '<id> %s <sort> <constant> [symbol]'", n.Tag)
	}
	sortID, err := p.requireSort(rest[0])
	if err != nil {
		return perr(p.path, p.line, "%s", err)
	}
	n.SortID = sortID
	n.Constant = rest[1]
	if len(rest) > 2 {
		n.Symbol = strings.Join(rest[2:], " ")
	}
	p.nodes[n.ID] = n
	return nil
}

func (p *parser) parseSlice(n *model.Node, rest []string) error {
	if len(rest) < 4 {
		return perr(p.path, p.line, "expected '<id> slice <sort> <arg> <hi> <lo> [symbol]'")
	}
	sortID, err := p.requireSort(rest[0])
	if err != nil {
		return perr(p.path, p.line, "%s", err)
	}
	argID, err := parseArgID(rest[1])
	if err != nil {
		return perr(p.path, p.line, "invalid argument '%s'", rest[1])
	}
	hi, err := parseWidth(rest[2])
	if err != nil {
		return perr(p.path, p.line, "invalid slice upper bound '%s'", rest[2])
	}
	lo, err := parseWidth(rest[3])
	if err != nil {
		return perr(p.path, p.line, "invalid slice lower bound '%s'", rest[3])
	}
	n.SortID = sortID
	n.Args[0], n.NArgs = argID, 1
	n.Imm[0], n.Imm[1] = int64(hi), int64(lo)
	if len(rest) > 4 {
		n.Symbol = strings.Join(rest[4:], " ")
	}
	p.nodes[n.ID] = n
	return nil
}

func (p *parser) parseExtend(n *model.Node, rest []string) error {
	if len(rest) < 3 {
		return perr(p.path, p.line, "expected '<id> %s <sort> <arg> <amount> [symbol]'", n.Tag)
	}
	sortID, err := p.requireSort(rest[0])
	if err != nil {
		return perr(p.path, p.line, "%s", err)
	}
	argID, err := parseArgID(rest[1])
	if err != nil {
		return perr(p.path, p.line, "invalid argument '%s'", rest[1])
	}
	amt, err := parseWidth(rest[2])
	if err != nil {
		return perr(p.path, p.line, "invalid extension amount '%s'", rest[2])
	}
	n.SortID = sortID
	n.Args[0], n.NArgs = argID, 1
	n.Imm[0] = int64(amt)
	if len(rest) > 3 {
		n.Symbol = strings.Join(rest[3:], " ")
	}
	p.nodes[n.ID] = n
	return nil
}

func (p *parser) parseNullary(n *model.Node, rest []string) error {
	if len(rest) < 1 {
		return perr(p.path, p.line, "expected '<id> %s <sort> [symbol]'", n.Tag)
	}
	sortID, err := p.requireSort(rest[0])
	if err != nil {
		return perr(p.path, p.line, "%s", err)
	}
	n.SortID = sortID
	if len(rest) > 1 {
		n.Symbol = strings.Join(rest[1:], " ")
	}
	p.nodes[n.ID] = n
	return nil
}

func (p *parser) parseUnary(n *model.Node, rest []string) error {
	if len(rest) < 2 {
		return perr(p.path, p.line, "expected '<id> %s <sort> <arg> [symbol]'", n.Tag)
	}
	sortID, err := p.requireSort(rest[0])
	if err != nil {
		return perr(p.path, p.line, "%s", err)
	}
	argID, err := parseArgID(rest[1])
	if err != nil {
		return perr(p.path, p.line, "invalid argument '%s'", rest[1])
	}
	n.SortID = sortID
	n.Args[0], n.NArgs = argID, 1
	if len(rest) > 2 {
		n.Symbol = strings.Join(rest[2:], " ")
	}
	p.nodes[n.ID] = n
	return nil
}

func (p *parser) parseBinary(n *model.Node, rest []string) error {
	if len(rest) < 3 {
		return perr(p.path, p.line, "expected '<id> %s <sort> <arg1> <arg2> [symbol]'", n.Tag)
	}
	sortID, err := p.requireSort(rest[0])
	if err != nil {
		return perr(p.path, p.line, "%s", err)
	}
	a0, err := parseArgID(rest[1])
	if err != nil {
		return perr(p.path, p.line, "invalid argument '%s'", rest[1])
	}
	a1, err := parseArgID(rest[2])
	if err != nil {
		return perr(p.path, p.line, "invalid argument '%s'", rest[2])
	}
	n.SortID = sortID
	n.Args[0], n.Args[1], n.NArgs = a0, a1, 2
	if len(rest) > 3 {
		n.Symbol = strings.Join(rest[3:], " ")
	}
	p.nodes[n.ID] = n
	return nil
}

func (p *parser) parseTernary(n *model.Node, rest []string) error {
	if len(rest) < 4 {
		return perr(p.path, p.line, "expected '<id> ite <sort> <c> <t> <e> [symbol]'")
	}
	sortID, err := p.requireSort(rest[0])
	if err != nil {
		return perr(p.path, p.line, "%s", err)
	}
	args := [3]int64{}
	for i := 0; i < 3; i++ {
		a, err := parseArgID(rest[1+i])
		if err != nil {
			return perr(p.path, p.line, "invalid argument '%s'", rest[1+i])
		}
		args[i] = a
	}
	n.SortID = sortID
	n.Args = args
	n.NArgs = 3
	if len(rest) > 4 {
		n.Symbol = strings.Join(rest[4:], " ")
	}
	p.nodes[n.ID] = n
	return nil
}

// parseNodeID parses an unsigned node/sort identifier: no leading zeros
// other than the literal "0", capped at math.MaxInt64.
func parseNodeID(tok string) (int64, error) {
	if tok == "" {
		return 0, errors.New("empty identifier")
	}
	if tok[0] == '0' && len(tok) > 1 {
		return 0, errors.New("leading zero not allowed")
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("not a number: %q", tok)
		}
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil || v < 0 || v > math.MaxInt64 {
		return 0, errors.Errorf("number too large: %q", tok)
	}
	return v, nil
}

// parseArgID parses a (possibly negated) node reference.
func parseArgID(tok string) (int64, error) {
	if strings.HasPrefix(tok, "-") {
		id, err := parseNodeID(tok[1:])
		if err != nil {
			return 0, err
		}
		if id == 0 {
			return 0, errors.New("cannot negate identifier 0")
		}
		return -id, nil
	}
	return parseNodeID(tok)
}

// parseWidth parses an unsigned small integer (a bit width, slice bound,
// or extension amount), using the same leading-zero rule as node ids.
func parseWidth(tok string) (uint32, error) {
	id, err := parseNodeID(tok)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, nil
	}
	if id > math.MaxUint32 {
		return 0, errors.Errorf("too large: %q", tok)
	}
	return uint32(id), nil
}
