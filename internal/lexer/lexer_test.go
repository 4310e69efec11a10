package lexer

import "testing"

type fakeVars struct {
	ints  map[int]int32
	strs  map[int]string
	nums  map[string]int
	strAl map[string]string
}

func newFakeVars() *fakeVars {
	return &fakeVars{ints: map[int]int32{}, strs: map[int]string{}, nums: map[string]int{}, strAl: map[string]string{}}
}

func (f *fakeVars) IntSlot(n int) int32 { return f.ints[n] }
func (f *fakeVars) StrSlot(n int) string { return f.strs[n] }
func (f *fakeVars) ArrayGet(no int, idx []int) (int32, error) { return 0, nil }
func (f *fakeVars) NumAlias(name string) (int, bool) { v, ok := f.nums[name]; return v, ok }
func (f *fakeVars) StrAlias(name string) (string, bool) { v, ok := f.strAl[name]; return v, ok }

func TestReadTokenCommandAndLabel(t *testing.T) {
	r := New([]byte("mov %0, 3"), newFakeVars())
	tok, err := r.ReadToken()
	if err != nil || tok.Kind != TokCommand || tok.Text != "mov" {
		t.Fatalf("expected command 'mov', got %+v err=%v", tok, err)
	}
}

func TestReadIntArithmetic(t *testing.T) {
	fv := newFakeVars()
	fv.ints[1] = 4
	r := New([]byte("2 + 3 * 1 - %1"), fv)
	v, err := r.ReadInt()
	if err != nil {
		t.Fatalf("ReadInt: %v", err)
	}
	// left-to-right, single precedence level: ((2+3)*1)-4 = 1
	if v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
}

func TestReadIntModKeyword(t *testing.T) {
	r := New([]byte("7 mod 3"), newFakeVars())
	v, err := r.ReadInt()
	if err != nil || v != 1 {
		t.Fatalf("expected 7 mod 3 == 1, got %d err=%v", v, err)
	}
}

func TestReadStrConcatenation(t *testing.T) {
	fv := newFakeVars()
	fv.strs[0] = "world"
	r := New([]byte(`"hello " + $0`), fv)
	s, err := r.ReadStr()
	if err != nil || s != "hello world" {
		t.Fatalf("expected 'hello world', got %q err=%v", s, err)
	}
}

func TestReadColorLiteral(t *testing.T) {
	r := New([]byte("#FF00AA"), newFakeVars())
	c, err := r.ReadColor(false)
	if err != nil || c.Hex != "FF00AA" || !c.WasLiteral {
		t.Fatalf("unexpected color result %+v err=%v", c, err)
	}
}

func TestReadLabel(t *testing.T) {
	r := New([]byte("*dest"), newFakeVars())
	s, err := r.ReadLabel()
	if err != nil || s != "*dest" {
		t.Fatalf("expected *dest, got %q err=%v", s, err)
	}
}

func TestHasMoreArgsReflectsComma(t *testing.T) {
	r := New([]byte("1, 2"), newFakeVars())
	if _, err := r.ReadInt(); err != nil {
		t.Fatalf("ReadInt: %v", err)
	}
	r.SkipCommas()
	if !r.HasMoreArgs() {
		t.Fatalf("expected HasMoreArgs true after comma")
	}
}
