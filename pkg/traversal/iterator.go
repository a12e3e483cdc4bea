package traversal

import "github.com/aretw0/vine/pkg/domain"

// Iterator is the pull contract shared by steps and step algorithms.
// Next returns domain.ErrNoSuchElement once exhausted.
type Iterator interface {
	HasNext() (bool, error)
	Next() (*domain.Traverser, error)
}

type sliceIterator struct {
	items []*domain.Traverser
	pos   int
}

// FromSlice iterates over ts in order.
func FromSlice(ts ...*domain.Traverser) Iterator {
	return &sliceIterator{items: ts}
}

// Single yields t once.
func Single(t *domain.Traverser) Iterator {
	return FromSlice(t)
}

// Empty yields nothing.
func Empty() Iterator {
	return &sliceIterator{}
}

func (it *sliceIterator) HasNext() (bool, error) {
	return it.pos < len(it.items), nil
}

func (it *sliceIterator) Next() (*domain.Traverser, error) {
	if it.pos >= len(it.items) {
		return nil, domain.ErrNoSuchElement
	}
	t := it.items[it.pos]
	it.items[it.pos] = nil
	it.pos++
	return t, nil
}

// Drain pulls it to exhaustion and returns everything it produced.
func Drain(it Iterator) ([]*domain.Traverser, error) {
	var out []*domain.Traverser
	for {
		ok, err := it.HasNext()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		t, err := it.Next()
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
}

type concatIterator struct {
	its []Iterator
}

// Concat yields everything from its in order.
func Concat(its ...Iterator) Iterator {
	return &concatIterator{its: its}
}

func (it *concatIterator) HasNext() (bool, error) {
	for len(it.its) > 0 {
		ok, err := it.its[0].HasNext()
		if err != nil || ok {
			return ok, err
		}
		it.its = it.its[1:]
	}
	return false, nil
}

func (it *concatIterator) Next() (*domain.Traverser, error) {
	ok, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNoSuchElement
	}
	return it.its[0].Next()
}
