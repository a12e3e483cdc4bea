package cli

import (
	"io"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/internal/validator"
	"github.com/aretw0/vine/pkg/traversal"
)

// Validate compiles each pipeline and checks the structure of the locked
// traversal. It reports every file before returning the first failure.
func Validate(eng *vine.Engine, paths []string, w io.Writer) error {
	var first error
	for _, p := range paths {
		t, err := eng.Load(p)
		if err == nil {
			t.Lock()
			err = validator.Validate(t)
		}
		if err != nil {
			printSystemMessage(w, "%s: %v", p, err)
			if first == nil {
				first = err
			}
			continue
		}
		printSystemMessage(w, "%s: ok (%d steps)", p, countSteps(t))
	}
	return first
}

func countSteps(t *traversal.Traversal) int {
	n := 0
	t.Walk(func(traversal.Step) { n++ })
	return n
}
