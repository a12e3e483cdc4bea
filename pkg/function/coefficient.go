package function

import "strconv"

// Coefficient is a weight attached to a function invocation. Coefficients
// compose associatively and Unity is the identity.
type Coefficient interface {
	// Multiply composes two coefficients.
	Multiply(other Coefficient) Coefficient
	// Apply weights a traverser bulk.
	Apply(bulk int64) int64
	// IsUnity reports whether the coefficient is the identity.
	IsUnity() bool
	String() string
}

// Long is an integral multiplicative coefficient.
type Long int64

// Unity is the identity coefficient.
var Unity Coefficient = Long(1)

// Multiply implements Coefficient.
func (c Long) Multiply(other Coefficient) Coefficient {
	if other == nil {
		return c
	}
	if o, ok := other.(Long); ok {
		return c * o
	}
	return Long(other.Apply(int64(c)))
}

// Apply implements Coefficient.
func (c Long) Apply(bulk int64) int64 {
	return int64(c) * bulk
}

// IsUnity implements Coefficient.
func (c Long) IsUnity() bool {
	return c == 1
}

func (c Long) String() string {
	return strconv.FormatInt(int64(c), 10)
}
