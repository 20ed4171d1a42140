package witness

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseError reports a malformed witness line, with the column pointing at
// the offending token when one is known.
type ParseError struct {
	Path   string
	Line   int64
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return "parse error in '" + e.Path + "' at line " + itoa(e.Line) + " column " + itoa(int64(e.Column)) + ": " + e.Msg
	}
	return "parse error in '" + e.Path + "' at line " + itoa(e.Line) + ": " + e.Msg
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func perr(path string, line int64, col int, format string, args ...interface{}) error {
	return &ParseError{Path: path, Line: line, Column: col, Msg: errors.Errorf(format, args...).Error()}
}

// Parse reads a single witness from r. path is used only for error
// messages.
func Parse(r io.Reader, path string) (*Witness, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading '%s'", path)
	}

	w, next, err := parseOne(lines, 0, path)
	if err != nil {
		return nil, err
	}
	for next < len(lines) && strings.TrimSpace(lines[next]) == "" {
		next++
	}
	if next < len(lines) {
		if lines[next] == "unsat" {
			return nil, ErrUnsatWitnessUnsupported
		}
		return nil, ErrMultipleWitnesses
	}
	return w, nil
}

// parseOne parses one header+frames+'.' witness starting at lines[i],
// returning the index just past the consumed '.' line.
func parseOne(lines []string, i int, path string) (*Witness, int, error) {
	if i >= len(lines) {
		return nil, i, perr(path, int64(i+1), 0, "unexpected end of witness")
	}
	w := &Witness{}
	switch lines[i] {
	case "sat":
		w.Kind = KindSat
		i++
		if i >= len(lines) {
			return nil, i, perr(path, int64(i+1), 0, "missing property list after 'sat'")
		}
		props, err := parsePropertyList(lines[i], path, int64(i+1))
		if err != nil {
			return nil, i, err
		}
		w.Properties = props
		i++
	case "unsat":
		return nil, i, ErrUnsatWitnessUnsupported
	default:
		w.Kind = KindUnknown
	}

	for i < len(lines) && lines[i] != "." {
		f, consumed, err := parseFrame(lines, i, path)
		if err != nil {
			return nil, i, err
		}
		w.Frames = append(w.Frames, f)
		i += consumed
	}
	if i >= len(lines) || lines[i] != "." {
		return nil, i, perr(path, int64(i+1), 0, "missing '.' terminator")
	}
	i++
	return w, i, nil
}

func parsePropertyList(line, path string, lineNo int64) ([]Property, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, perr(path, lineNo, 0, "empty property list")
	}
	props := make([]Property, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || (f[0] != 'b' && f[0] != 'j') {
			return nil, perr(path, lineNo, 0, "malformed property token %q", f)
		}
		idx, err := strconv.Atoi(f[1:])
		if err != nil || idx < 0 {
			return nil, perr(path, lineNo, 0, "malformed property index %q", f)
		}
		props = append(props, Property{Kind: f[0], Index: idx})
	}
	return props, nil
}

// parseFrame consumes a '#K'? then '@K' section starting at lines[i],
// returning how many lines were consumed.
func parseFrame(lines []string, i int, path string) (Frame, int, error) {
	start := i
	var f Frame
	if i < len(lines) && strings.HasPrefix(lines[i], "#") {
		cycle, err := parseCycleHeader(lines[i], path, int64(i+1))
		if err != nil {
			return Frame{}, 0, err
		}
		f.Cycle = cycle
		f.HasStatePart = true
		i++
		assigns, n, err := parseAssignments(lines, i, path)
		if err != nil {
			return Frame{}, 0, err
		}
		f.States = assigns
		i += n
	}
	if i >= len(lines) || !strings.HasPrefix(lines[i], "@") {
		return Frame{}, 0, perr(path, int64(i+1), 0, "expected input-part ('@K')")
	}
	cycle, err := parseCycleHeader(lines[i], path, int64(i+1))
	if err != nil {
		return Frame{}, 0, err
	}
	if f.HasStatePart && cycle != f.Cycle {
		return Frame{}, 0, perr(path, int64(i+1), 0, "input-part cycle %d does not match state-part cycle %d", cycle, f.Cycle)
	}
	f.Cycle = cycle
	i++
	assigns, n, err := parseAssignments(lines, i, path)
	if err != nil {
		return Frame{}, 0, err
	}
	f.Inputs = assigns
	i += n
	return f, i - start, nil
}

func parseCycleHeader(line, path string, lineNo int64) (int64, error) {
	k, err := strconv.ParseInt(line[1:], 10, 64)
	if err != nil || k < 0 {
		return 0, perr(path, lineNo, 0, "malformed frame header %q", line)
	}
	return k, nil
}

// parseAssignments consumes assignment lines until the next '#', '@', or
// '.' line (or end of input), rejecting a repeated index within the same
// section.
func parseAssignments(lines []string, i int, path string) ([]RawAssignment, int, error) {
	start := i
	seen := map[int]bool{}
	var out []RawAssignment
	for i < len(lines) {
		l := lines[i]
		if l == "." || strings.HasPrefix(l, "#") || strings.HasPrefix(l, "@") {
			break
		}
		ra, err := parseAssignmentLine(l, path, int64(i+1))
		if err != nil {
			return nil, 0, err
		}
		if seen[ra.Index] {
			return nil, 0, perr(path, int64(i+1), 0, "index %d assigned twice in the same frame section", ra.Index)
		}
		seen[ra.Index] = true
		out = append(out, ra)
		i++
	}
	return out, i - start, nil
}

func parseAssignmentLine(line, path string, lineNo int64) (RawAssignment, error) {
	type field struct {
		text string
		col  int
	}
	var fields []field
	n := len(line)
	i := 0
	for i < n {
		for i < n && line[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		s := i
		for i < n && line[i] != ' ' {
			i++
		}
		fields = append(fields, field{text: line[s:i], col: s + 1})
	}
	if len(fields) < 2 {
		return RawAssignment{}, perr(path, lineNo, 0, "malformed assignment %q", line)
	}
	idx, err := strconv.Atoi(fields[0].text)
	if err != nil || idx < 0 {
		return RawAssignment{}, perr(path, lineNo, fields[0].col, "invalid assignment index %q", fields[0].text)
	}
	ra := RawAssignment{Index: idx, Literal: fields[1].text, Column: fields[1].col, Line: lineNo}
	if len(fields) >= 3 {
		ra.Symbol = fields[2].text
	}
	return ra, nil
}
