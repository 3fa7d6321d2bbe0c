package utils

import (
	"fmt"
	"io"
	"sync"
)

// marker is printed once for every processed render target.
const marker = "."

// Progress prints a liveness marker per processed item and a line break
// after every group of items.
type Progress struct {
	mu     sync.Mutex
	writer io.Writer
	color  bool
	marks  int
}

// NewProgress instantiates a new progress printer writing to w.
// Markers are colored only when w is a terminal.
func NewProgress(w io.Writer) *Progress {
	if w == nil {
		w = io.Discard
	}
	return &Progress{
		writer: w,
		color:  IsTerminal(w),
	}
}

// Mark prints a single marker, colored after msgType.
func (p *Progress) Mark(msgType MessageType) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := marker
	if p.color {
		s = DecorateText(s, msgType)
	}
	fmt.Fprint(p.writer, s)
	p.marks++
}

// Break ends the current line of markers.
func (p *Progress) Break() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.writer)
}

// Marks returns the number of markers printed so far.
func (p *Progress) Marks() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.marks
}
