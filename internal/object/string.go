package object

import (
	"fmt"
	"io"
)

// String is a boxed text value, distinct from a VArray of single-char
// symbols so that "abc" prints and compares as text rather than as a
// 3-element list.
type String struct {
	RC
	Text string
}

func NewString(s string) *String {
	return &String{RC: NewRC(), Text: s}
}

func (s *String) TypeName() string { return "String" }

func (s *String) Length() (int, bool) { return len(s.Text), true }

func (s *String) At(i int) (V, error) {
	if i < 0 || i >= len(s.Text) {
		return V{}, outOfRange("at", i, len(s.Text))
	}
	return Float(float64(s.Text[i])), nil
}

func (s *String) WrapAt(i int) (V, error) {
	if len(s.Text) == 0 {
		return V{}, outOfRange("wrapAt", i, 0)
	}
	return Float(float64(s.Text[wrapIndex(i, len(s.Text))])), nil
}

func (s *String) ClipAt(i int) (V, error) {
	if len(s.Text) == 0 {
		return V{}, outOfRange("clipAt", i, 0)
	}
	return Float(float64(s.Text[clipIndex(i, len(s.Text))])), nil
}

func (s *String) FoldAt(i int) (V, error) {
	if len(s.Text) == 0 {
		return V{}, outOfRange("foldAt", i, 0)
	}
	return Float(float64(s.Text[foldIndex(i, len(s.Text))])), nil
}

func (s *String) Deref() V { return Of(s) }

func (s *String) Print(w io.Writer, depth, length int) {
	fmt.Fprintf(w, "%q", s.Text)
}

// Symbol is a boxed interned-looking name value ('name), distinct from
// String so that 'foo prints bare and compares by identity of text.
type Symbol struct {
	RC
	Name string
}

func NewSymbol(name string) *Symbol {
	return &Symbol{RC: NewRC(), Name: name}
}

func (s *Symbol) TypeName() string { return "Symbol" }

func (s *Symbol) Length() (int, bool) { return 1, true }

func (s *Symbol) At(i int) (V, error) {
	if i != 0 {
		return V{}, outOfRange("at", i, 1)
	}
	return Of(s), nil
}
func (s *Symbol) WrapAt(i int) (V, error) { return Of(s), nil }
func (s *Symbol) ClipAt(i int) (V, error) { return Of(s), nil }
func (s *Symbol) FoldAt(i int) (V, error) { return Of(s), nil }
func (s *Symbol) Deref() V                { return Of(s) }

func (s *Symbol) Print(w io.Writer, depth, length int) {
	fmt.Fprintf(w, "'%s", s.Name)
}
