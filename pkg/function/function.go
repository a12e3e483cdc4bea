package function

import "github.com/aretw0/vine/pkg/domain"

// Function is the common contract of every unit of computation.
type Function interface {
	// Coefficient weights the bulk of traversers produced on behalf of the function.
	Coefficient() Coefficient
	// Labels are the step labels the function was declared with.
	Labels() []string
	// String renders the function for diagnostics. It is not an identity.
	String() string
}

// FilterFunction decides whether a traverser continues.
type FilterFunction interface {
	Function
	Test(t *domain.Traverser) (bool, error)
}

// MapFunction produces exactly one value per traverser.
type MapFunction interface {
	Function
	Apply(t *domain.Traverser) (any, error)
}

// FlatMapFunction produces zero or more values per traverser.
type FlatMapFunction interface {
	Function
	Apply(t *domain.Traverser) ([]any, error)
}

// Base carries the coefficient and labels shared by all functions.
type Base struct {
	coefficient Coefficient
	labels      []string
}

// Option configures a function's Base.
type Option func(*Base)

// WithCoefficient sets the coefficient. The default is Unity.
func WithCoefficient(c Coefficient) Option {
	return func(b *Base) {
		if c != nil {
			b.coefficient = c
		}
	}
}

// WithLabels attaches labels to the function.
func WithLabels(labels ...string) Option {
	return func(b *Base) {
		b.labels = append(b.labels, labels...)
	}
}

// NewBase applies opts over the defaults.
func NewBase(opts ...Option) Base {
	b := Base{coefficient: Unity}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Coefficient implements Function.
func (b Base) Coefficient() Coefficient {
	if b.coefficient == nil {
		return Unity
	}
	return b.coefficient
}

// Labels implements Function.
func (b Base) Labels() []string {
	return append([]string(nil), b.labels...)
}
