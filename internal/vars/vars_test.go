package vars

import "testing"

func TestMovSwapIsNoOp(t *testing.T) {
	s := NewStore(16)
	s.SetInt(0, 3)
	s.SetInt(1, 7)

	// mov %a, %b : mov %b, %a : mov %a, %b
	s.SetInt(0, s.Int(1))
	s.SetInt(1, s.Int(0))
	s.SetInt(0, s.Int(1))

	if s.Int(0) != 7 || s.Int(1) != 3 {
		t.Fatalf("expected a=7 b=3, got a=%d b=%d", s.Int(0), s.Int(1))
	}
}

func TestArrayAddressingBounds(t *testing.T) {
	s := NewStore(16)
	if err := s.Dim(5, []int{3, 4}); err != nil {
		t.Fatalf("dim failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			if err := s.ArraySet(5, []int{i, j}, int32(i*10+j)); err != nil {
				t.Fatalf("ArraySet(%d,%d): %v", i, j, err)
			}
		}
	}
	v, err := s.ArrayGet(5, []int{2, 3})
	if err != nil || v != 23 {
		t.Fatalf("expected 23, got %d err=%v", v, err)
	}

	if _, err := s.ArrayGet(5, []int{3, 0}); err == nil {
		t.Fatalf("expected out-of-range error for i=3")
	}
	if _, err := s.ArrayGet(5, []int{0, 4}); err == nil {
		t.Fatalf("expected out-of-range error for j=4")
	}
}

func TestClampClips(t *testing.T) {
	s := NewStore(16)
	s.SetClamp(0, -5, 5)
	s.SetInt(0, 100)
	if s.Int(0) != 5 {
		t.Fatalf("expected clamp to 5, got %d", s.Int(0))
	}
	s.SetInt(0, -100)
	if s.Int(0) != -5 {
		t.Fatalf("expected clamp to -5, got %d", s.Int(0))
	}
}

func TestOverflowSlotsPromoteToSparse(t *testing.T) {
	s := NewStore(4)
	s.SetInt(1000, 42)
	s.SetStr(2000, "hi")
	if s.Int(1000) != 42 || s.Str(2000) != "hi" {
		t.Fatalf("sparse overflow slot did not round-trip")
	}
}

func TestAliases(t *testing.T) {
	s := NewStore(16)
	s.DefNumAlias("max", 5)
	v, ok := s.NumAlias("max")
	if !ok || v != 5 {
		t.Fatalf("expected numalias max=5, got %d ok=%v", v, ok)
	}
}
