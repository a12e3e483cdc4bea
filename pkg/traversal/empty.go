package traversal

import "github.com/aretw0/vine/pkg/domain"

// EmptyStep is the null step at both ends of every pipeline. It never yields and
// discards anything added to it.
type EmptyStep struct{}

var emptyStep = &EmptyStep{}

func (*EmptyStep) HasNext() (bool, error) { return false, nil }
func (*EmptyStep) Next() (*domain.Traverser, error) { return nil, domain.ErrNoSuchElement }
func (*EmptyStep) ID() string { return "" }
func (*EmptyStep) SetID(string) {}
func (*EmptyStep) Labels() []string { return nil }
func (*EmptyStep) AddLabel(string) {}
func (*EmptyStep) Traversal() *Traversal { return nil }
func (*EmptyStep) SetTraversal(*Traversal) {}
func (*EmptyStep) PreviousStep() Step { return emptyStep }
func (*EmptyStep) SetPreviousStep(Step) {}
func (*EmptyStep) NextStep() Step { return emptyStep }
func (*EmptyStep) SetNextStep(Step) {}
func (*EmptyStep) AddStart(*domain.Traverser) {}
func (*EmptyStep) AddStarts(...*domain.Traverser) {}
func (*EmptyStep) ProcessNextStart() (*domain.Traverser, error) { return nil, domain.ErrNoSuchElement }
func (*EmptyStep) Requirements() domain.Requirements { return domain.NewRequirements() }
func (*EmptyStep) Reset() {}
func (*EmptyStep) Clone() Step { return emptyStep }
func (*EmptyStep) String() string { return "EmptyStep" }
