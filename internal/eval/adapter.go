package eval

import "scenario-vn-core/internal/vars"

// varsAdapter satisfies lexer.VarEval over a *vars.Store, decoupling the
// lexer package (which must not import eval, to avoid a cycle back from
// eval -> lexer -> eval) from the store's own method names.
type varsAdapter struct{ s *vars.Store }

func (a varsAdapter) IntSlot(n int) int32                      { return a.s.Int(n) }
func (a varsAdapter) StrSlot(n int) string                     { return a.s.Str(n) }
func (a varsAdapter) ArrayGet(no int, idx []int) (int32, error) { return a.s.ArrayGet(no, idx) }
func (a varsAdapter) NumAlias(name string) (int, bool)         { return a.s.NumAlias(name) }
func (a varsAdapter) StrAlias(name string) (string, bool)      { return a.s.StrAlias(name) }
