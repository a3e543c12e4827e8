package box

import (
	"github.com/ShayCichocki/momrefine/internal/relator"
)

// NamedBox is a Box labelled with its root-to-node path and carrying the
// quasi-relator context computed for it.
type NamedBox struct {
	Box
	Name    string
	Context *relator.Context
}

// NewRoot returns the named root box with the given context. A nil context
// is replaced by an empty one.
func NewRoot(ctx *relator.Context) NamedBox {
	if ctx == nil {
		ctx = relator.Empty()
	}
	return NamedBox{Box: Root(), Context: ctx}
}

// FromPath walks path from the root. Characters other than '0' and '1' are
// ignored.
func FromPath(path string, ctx *relator.Context) NamedBox {
	b := NewRoot(ctx)
	for _, c := range path {
		switch c {
		case '0':
			b = b.Child(0)
		case '1':
			b = b.Child(1)
		}
	}
	return b
}

// Child returns sub-box dir with Name extended by the direction digit. The
// context is inherited from the parent.
func (b NamedBox) Child(dir int) NamedBox {
	name := b.Name + "0"
	if dir == 1 {
		name = b.Name + "1"
	}
	return NamedBox{
		Box:     b.Box.Child(dir),
		Name:    name,
		Context: b.Context,
	}
}

// Desc describes the box's algebraic context for logs.
func (b NamedBox) Desc() string {
	if b.Context == nil {
		return "-"
	}
	return b.Context.Desc()
}
