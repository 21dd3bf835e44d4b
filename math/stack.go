package math

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyStack    = errors.New("matrix stack: pop with nothing pushed")
	ErrStackOverflow = errors.New("matrix stack: capacity exceeded")
)

// DefaultStackCapacity is deep enough for any part-drawing routine; nesting
// beyond it means a push is missing its pop.
const DefaultStackCapacity = 16

// MatrixStack saves and restores transforms during hierarchical composition.
// Mat4 is an array, so entries are copies and never alias the caller's value.
type MatrixStack struct {
	entries  []Mat4
	capacity int
}

func NewMatrixStack(capacity int) *MatrixStack {
	if capacity <= 0 {
		capacity = DefaultStackCapacity
	}
	return &MatrixStack{
		entries:  make([]Mat4, 0, capacity),
		capacity: capacity,
	}
}

// Push stores a copy of m.
func (s *MatrixStack) Push(m Mat4) error {
	if len(s.entries) >= s.capacity {
		return fmt.Errorf("%w (capacity %d)", ErrStackOverflow, s.capacity)
	}
	s.entries = append(s.entries, m)
	return nil
}

// Pop removes and returns the most recently pushed transform.
func (s *MatrixStack) Pop() (Mat4, error) {
	n := len(s.entries)
	if n == 0 {
		return Mat4Identity(), ErrEmptyStack
	}
	m := s.entries[n-1]
	s.entries = s.entries[:n-1]
	return m, nil
}

func (s *MatrixStack) Depth() int {
	return len(s.entries)
}

func (s *MatrixStack) Reset() {
	s.entries = s.entries[:0]
}
