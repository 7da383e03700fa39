package graph

// Link describes one directed data dependency: Target consumes a value
// produced by Source, under the given Input label (nil means
// unlabelled). Multiple parallel links between the same (Target,
// Source) pair are distinct and both appear in Links().
type Link[N comparable] struct {
	Target N
	Source N
	Input  any
}

// TargetInput names one endpoint accepted by AddLinks/SetLinks: either
// just a target name (input label defaults to nil) or a target paired
// with an explicit input label.
type TargetInput[N comparable] struct {
	Target N
	Input  any
}

// To builds a TargetInput with an explicit input label.
func To[N comparable](target N, input any) TargetInput[N] {
	return TargetInput[N]{Target: target, Input: input}
}

// Bare builds a TargetInput with a nil (unlabelled) input.
func Bare[N comparable](target N) TargetInput[N] {
	return TargetInput[N]{Target: target, Input: nil}
}
