package registry

// SliceDim is one evaluated dimension passed to a `[:]` (OpSlice) overload:
// the evaluator has already run each of the dimension's start/end/step
// sub-expressions, so the overload only ever sees values, never AST nodes.
type SliceDim struct {
	Start    interface{}
	End      interface{}
	Step     interface{}
	HasStart bool
	HasEnd   bool
	HasStep  bool
}
