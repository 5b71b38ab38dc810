// Package source tracks translation-unit source text and byte positions so
// every later phase can attach a caret-accurate span to a token, AST node, or
// IR instruction without re-scanning the file.
package source

import (
	"strings"

	"github.com/google/uuid"
)

// FileID uniquely identifies one registration of a translation unit's source
// file. It is UUID-backed: each NewFileID call draws a fresh random UUID, so
// two registrations of the same path are distinct ids, within one run or
// across runs. The compilation cache (internal/cache) does not use it; its
// keys are content hashes of the source text.
type FileID struct {
	uuid uuid.UUID
	name string
}

// NewFileID assigns a fresh FileID to a source file at the given path or
// logical name (e.g. "<stdin>").
func NewFileID(name string) FileID {
	return FileID{uuid: uuid.New(), name: name}
}

// String returns the logical name the FileID was created with.
func (id FileID) String() string {
	return id.name
}

// Equal reports whether two FileIDs refer to the same assignment.
func (id FileID) Equal(o FileID) bool {
	return id.uuid == o.uuid
}

// File holds the full text of one translation unit plus precomputed line
// start offsets, so Position.Line/Column can be derived in O(log n) without
// re-scanning on every diagnostic.
type File struct {
	ID         FileID
	Name       string
	Text       string
	lineStarts []int
}

// NewFile registers a new source file and precomputes its line table.
func NewFile(name, text string) *File {
	f := &File{
		ID:   NewFileID(name),
		Name: name,
		Text: text,
	}
	f.lineStarts = []int{0}
	for i, r := range text {
		if r == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// LineCol converts a byte offset into a 1-indexed (line, column) pair.
func (f *File) LineCol(offset int) (line, col int) {
	// binary search for the last line start <= offset
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line = lo + 1
	col = offset - f.lineStarts[lo] + 1
	return line, col
}

// LineText returns the full text of the 1-indexed line, without its
// terminating newline, for caret-underline diagnostic rendering.
func (f *File) LineText(line int) string {
	if line < 1 || line > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[line-1]
	end := len(f.Text)
	if line < len(f.lineStarts) {
		end = f.lineStarts[line] - 1
	}
	if end < start {
		end = start
	}
	return strings.TrimRight(f.Text[start:end], "\r")
}

// Position is a single point in a source file: file, byte offset, and the
// derived line/column. Positions are attached to every token and AST node and
// propagated into IR instructions for debug info (spec.md §3).
type Position struct {
	File   *File
	Offset int
	Line   int
	Col    int
}

// NewPosition derives a Position's line/column from its file and offset.
func NewPosition(f *File, offset int) Position {
	p := Position{File: f, Offset: offset}
	if f != nil {
		p.Line, p.Col = f.LineCol(offset)
	}
	return p
}

// Span is a contiguous range of source bytes, used for diagnostics and to
// satisfy the span-containment property: for every AST node N with children
// C, Span(C) must be a subrange of Span(N).
type Span struct {
	Start Position
	Len   int
}

// End returns the position one past the last byte in the span.
func (s Span) End() Position {
	return NewPosition(s.Start.File, s.Start.Offset+s.Len)
}

// Contains reports whether s fully contains o, byte-range-wise, within the
// same file. Used by the span-containment property test (spec.md §8).
func (s Span) Contains(o Span) bool {
	if s.Start.File != o.Start.File {
		return false
	}
	return o.Start.Offset >= s.Start.Offset && o.Start.Offset+o.Len <= s.Start.Offset+s.Len
}

// Join returns the smallest span covering both s and o; used when building a
// parent AST node's span from its children's spans.
func (s Span) Join(o Span) Span {
	if s.Len == 0 {
		return o
	}
	if o.Len == 0 {
		return s
	}
	start := s.Start.Offset
	if o.Start.Offset < start {
		start = o.Start.Offset
	}
	end := s.Start.Offset + s.Len
	if oe := o.Start.Offset + o.Len; oe > end {
		end = oe
	}
	return Span{Start: NewPosition(s.Start.File, start), Len: end - start}
}
