package hostlib

import (
	"strconv"
	"strings"
)

type TextBuilder struct {
	parts []string
}

func NewTextBuilder(parts ...string) *TextBuilder {
	return &TextBuilder{
		parts: parts,
	}
}

func (t *TextBuilder) Write(s string) *TextBuilder {
	t.parts = append(t.parts, s)
	return t
}

func (t *TextBuilder) Repeat(s string, n int) *TextBuilder {
	for range n {
		t.parts = append(t.parts, s)
	}
	return t
}

func (t *TextBuilder) Len() int {
	return len(t.parts)
}

func (t *TextBuilder) At(i int) any {
	return t.parts[i]
}

func (t *TextBuilder) String() string {
	return strings.Join(t.parts, "")
}

// Print_ is exposed as print.
func (t *TextBuilder) Print_() string {
	return strings.Join(t.parts, " ")
}

// The add overloads are registered under one name.

func AddInt(t *TextBuilder, n int64) *TextBuilder {
	return t.Write(strconv.FormatInt(n, 10))
}

func AddFloat(t *TextBuilder, f float64) *TextBuilder {
	return t.Write(strconv.FormatFloat(f, 'g', -1, 64))
}

func AddString(t *TextBuilder, s string) *TextBuilder {
	return t.Write(s)
}

func AddBool(t *TextBuilder, b bool) *TextBuilder {
	return t.Write(strconv.FormatBool(b))
}

func Join(sep string, parts ...string) string {
	return strings.Join(parts, sep)
}
