package traversal

import "github.com/aretw0/vine/pkg/domain"

// Algorithms is implemented by steps with distinct local and distributed behavior.
// Each call returns an iterator over the outputs for the next unit of input.
type Algorithms interface {
	StandardAlgorithm() (Iterator, error)
	ComputerAlgorithm() (Iterator, error)
}

// ComputerAwareBase dispatches on the traversal mode. The embedding step must
// implement Algorithms.
type ComputerAwareBase struct {
	StepBase
	current Iterator
}

func (c *ComputerAwareBase) ProcessNextStart() (*domain.Traverser, error) {
	algo, ok := c.self.(Algorithms)
	if !ok {
		return c.NextStart()
	}
	for {
		if c.current != nil {
			ok, err := c.current.HasNext()
			if err != nil {
				return nil, err
			}
			if ok {
				return c.current.Next()
			}
		}
		var (
			it  Iterator
			err error
		)
		if c.isComputer() {
			it, err = algo.ComputerAlgorithm()
		} else {
			it, err = algo.StandardAlgorithm()
		}
		if err != nil {
			return nil, err
		}
		c.current = it
	}
}

func (c *ComputerAwareBase) routesSelf() bool { return c.isComputer() }

// Reset drops the in-flight algorithm iterator along with queued input.
func (c *ComputerAwareBase) Reset() {
	c.StepBase.Reset()
	c.current = nil
}

// CloneFor copies the base for a cloned step.
func (c *ComputerAwareBase) CloneFor(self Step) ComputerAwareBase {
	return ComputerAwareBase{StepBase: c.StepBase.CloneFor(self)}
}
