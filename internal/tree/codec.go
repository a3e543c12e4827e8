package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrMalformed is returned for a line that cannot start a node.
	ErrMalformed = errors.New("malformed tree")
	// ErrUnexpectedEOF is returned when input ends inside the tree.
	ErrUnexpectedEOF = errors.New("unexpected end of tree")
)

// Registry resolves leaves while reading: numeric leaves must name an
// existing test and word leaves are appended as new tests.
type Registry interface {
	Count() int
	Add(word string) int
}

// Namer names tests while writing.
type Namer interface {
	Name(i int) string
}

// Read parses one tree in pre-order:
//
//	X      internal node, followed by child 0 then child 1
//	HOLE   hole
//	123    leaf certified by an existing test index
//	word   leaf certified by word, registered as a new test
//
// Input after the tree is left unread.
func Read(r io.Reader, reg Registry) (*Node, error) {
	p := &parser{scanner: bufio.NewScanner(r), reg: reg}
	p.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return p.node()
}

type parser struct {
	scanner *bufio.Scanner
	reg     Registry
	line    int
}

func (p *parser) next() (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read tree: %w", err)
		}
		return "", fmt.Errorf("line %d: %w", p.line+1, ErrUnexpectedEOF)
	}
	p.line++
	return strings.TrimSpace(p.scanner.Text()), nil
}

func (p *parser) node() (*Node, error) {
	line, err := p.next()
	if err != nil {
		return nil, err
	}

	switch {
	case line == "":
		return nil, fmt.Errorf("line %d: empty line: %w", p.line, ErrMalformed)
	case line[0] == 'X':
		left, err := p.node()
		if err != nil {
			return nil, err
		}
		right, err := p.node()
		if err != nil {
			return nil, err
		}
		return NewInternal(left, right), nil
	case strings.HasPrefix(line, "HOLE"):
		return NewHole(), nil
	case line[0] >= '0' && line[0] <= '9':
		i, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad test index %q: %w", p.line, line, ErrMalformed)
		}
		if i >= p.reg.Count() {
			return nil, fmt.Errorf("line %d: test index %d out of range (%d tests): %w",
				p.line, i, p.reg.Count(), ErrMalformed)
		}
		return &Node{Test: i, numeric: true, readAs: i}, nil
	default:
		return NewLeaf(p.reg.Add(line)), nil
	}
}

// Write prints n in the form accepted by Read. Leaves print their test
// name, or the index they were read as while still certified by it.
// Childless nodes without a test print as holes.
func Write(w io.Writer, n *Node, names Namer) error {
	bw := bufio.NewWriter(w)
	if err := write(bw, n, names); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	return nil
}

func write(w *bufio.Writer, n *Node, names Namer) error {
	var line string
	switch {
	case n.HasChildren():
		line = "X"
	case n.Test >= 0 && n.numeric && n.readAs == n.Test:
		line = strconv.Itoa(n.Test)
	case n.Test >= 0:
		line = names.Name(n.Test)
	default:
		line = "HOLE"
	}
	if _, err := w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	if n.HasChildren() {
		if err := write(w, n.Left, names); err != nil {
			return err
		}
		return write(w, n.Right, names)
	}
	return nil
}
