package pathutil

import (
	"strconv"
	"strings"
	"sync"
)

// PathBuilder provides incremental JSON Pointer construction.
// Segments are escaped when the pointer is materialized.
type PathBuilder struct {
	segments []string
}

// Push adds a segment to the path.
func (p *PathBuilder) Push(segment string) {
	p.segments = append(p.segments, segment)
}

// PushIndex adds an array index segment.
func (p *PathBuilder) PushIndex(i int) {
	p.segments = append(p.segments, strconv.Itoa(i))
}

// Pop removes the last segment.
func (p *PathBuilder) Pop() {
	if len(p.segments) == 0 {
		return
	}
	p.segments = p.segments[:len(p.segments)-1]
}

// Len returns the number of segments.
func (p *PathBuilder) Len() int {
	return len(p.segments)
}

// Last returns the final segment, or "" for the root.
func (p *PathBuilder) Last() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Reset clears the builder for reuse.
func (p *PathBuilder) Reset() {
	p.segments = p.segments[:0]
}

// Segments returns a copy of the raw, unescaped segments.
func (p *PathBuilder) Segments() []string {
	return append([]string(nil), p.segments...)
}

// String materializes the path as a URI fragment pointer ("#/a/b").
// The root is "#".
func (p *PathBuilder) String() string {
	var b strings.Builder
	b.WriteByte('#')
	for _, seg := range p.segments {
		b.WriteByte('/')
		b.WriteString(EscapeToken(seg))
	}
	return b.String()
}

// Builders deeper than this are dropped instead of pooled.
const pooledDepth = 64

var builders = sync.Pool{
	New: func() any { return &PathBuilder{segments: make([]string, 0, 8)} },
}

// Get returns an empty PathBuilder from the pool.
func Get() *PathBuilder {
	p, _ := builders.Get().(*PathBuilder)
	p.Reset()
	return p
}

// Put hands p back to the pool.
func Put(p *PathBuilder) {
	if p != nil && cap(p.segments) <= pooledDepth {
		builders.Put(p)
	}
}
