package theme

// Step is one conditional transformation in a Pipeline. A nil When always
// applies.
type Step[T any] struct {
	Name  string
	When  func(r *Request) bool
	Apply func(r *Request, v T) T
}

// Pipeline is an ordered list of steps evaluated in declaration order. It
// replaces name-keyed hook dispatch: every filter the theme contributes is a
// typed value that can be inspected and tested on its own.
type Pipeline[T any] []Step[T]

// Run threads v through every step whose predicate holds for r.
func (p Pipeline[T]) Run(r *Request, v T) T {
	for _, s := range p {
		if s.When != nil && !s.When(r) {
			continue
		}
		v = s.Apply(r, v)
	}
	return v
}

// Names lists the step names in order.
func (p Pipeline[T]) Names() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name
	}
	return names
}
