package math

import (
	"errors"
	"testing"
)

func TestMatrixStackRestoresExactCopy(t *testing.T) {
	s := NewMatrixStack(4)
	working := Mat4Identity().Translate(NewVec3(0.1, 0.2, 0.3)).Rotate(33.3, Vec3Up)
	before := working

	if err := s.Push(working); err != nil {
		t.Fatalf("Push: %v", err)
	}
	working = working.Scale(NewVec3(2, 3, 4))
	working[3][0] = 99

	restored, err := s.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if restored != before {
		t.Errorf("Pop: expected bit-identical copy %v, got %v", before, restored)
	}
	if s.Depth() != 0 {
		t.Errorf("Depth: expected 0 after balanced push/pop, got %d", s.Depth())
	}
}

func TestMatrixStackLIFO(t *testing.T) {
	s := NewMatrixStack(0)
	a := Mat4Translation(NewVec3(1, 0, 0))
	b := Mat4Translation(NewVec3(2, 0, 0))
	_ = s.Push(a)
	_ = s.Push(b)

	if got, _ := s.Pop(); got != b {
		t.Errorf("expected last pushed first")
	}
	if got, _ := s.Pop(); got != a {
		t.Errorf("expected first pushed last")
	}
}

func TestMatrixStackUnderflow(t *testing.T) {
	s := NewMatrixStack(2)
	if _, err := s.Pop(); !errors.Is(err, ErrEmptyStack) {
		t.Errorf("Pop on empty stack: expected ErrEmptyStack, got %v", err)
	}
}

func TestMatrixStackOverflow(t *testing.T) {
	s := NewMatrixStack(2)
	_ = s.Push(Mat4Identity())
	_ = s.Push(Mat4Identity())
	if err := s.Push(Mat4Identity()); !errors.Is(err, ErrStackOverflow) {
		t.Errorf("Push past capacity: expected ErrStackOverflow, got %v", err)
	}
	if s.Depth() != 2 {
		t.Errorf("Depth: expected 2, got %d", s.Depth())
	}

	s.Reset()
	if s.Depth() != 0 {
		t.Errorf("Reset: expected empty stack, got depth %d", s.Depth())
	}
}
