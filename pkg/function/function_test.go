package function

import (
	"errors"
	"testing"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasKey_MapLikeStream(t *testing.T) {
	f := HasKey(Constant("id"))
	stream := []any{
		map[string]any{"id": 1},
		map[string]any{"name": "x"},
	}

	var passed []bool
	for _, obj := range stream {
		ok, err := f.Test(domain.NewTraverser(obj))
		require.NoError(t, err)
		passed = append(passed, ok)
	}
	assert.Equal(t, []bool{true, false}, passed)
	assert.Equal(t, "hasKey(id)", f.String())
}

func TestHasKey_DeferredKeyAndElements(t *testing.T) {
	v := &domain.Vertex{ID: 1, Label: "person", Properties: map[string]any{"name": "marko"}}
	f := HasKey(Deferred("key", func(*domain.Traverser) (any, error) { return "name", nil }))

	ok, err := f.Test(domain.NewTraverser(v))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Test(domain.NewTraverser(42))
	require.NoError(t, err)
	assert.False(t, ok, "scalars have no keys")

	ok, err = HasKey(Constant(1)).Test(domain.NewTraverser(map[int]string{1: "a"}))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasKey_UnhashableKeys(t *testing.T) {
	type boxed struct{ v any }
	keys := []any{[]int{1}, map[string]int{}, boxed{v: []int{1}}}
	objects := []any{
		map[any]int{"a": 1},
		map[boxed]int{{v: 1}: 1},
		map[string]any{"a": 1},
	}
	for _, key := range keys {
		for _, obj := range objects {
			assert.NotPanics(t, func() {
				ok, err := HasKey(Constant(key)).Test(domain.NewTraverser(obj))
				require.NoError(t, err)
				assert.False(t, ok)
			})
		}
	}
}

func TestLookup_NumericKeys(t *testing.T) {
	m := map[int]string{2: "b", -1: "neg"}
	tests := []struct {
		key   any
		want  any
		found bool
	}{
		{int64(2), "b", true},
		{uint8(2), "b", true},
		{2.0, "b", true},
		{2.5, nil, false},
		{int32(-1), "neg", true},
		{"2", nil, false},
	}
	for _, tt := range tests {
		got, ok := Lookup(m, tt.key)
		assert.Equal(t, tt.found, ok, "key %T(%v)", tt.key, tt.key)
		assert.Equal(t, tt.want, got, "key %T(%v)", tt.key, tt.key)
	}

	_, ok := Lookup(map[uint]string{1: "a"}, -1)
	assert.False(t, ok, "negative keys do not wrap around")
}

func TestArguments_ArePure(t *testing.T) {
	se := domain.NewSideEffects()
	require.NoError(t, se.Declare("k", domain.OpAssign))
	require.NoError(t, se.Add("k", "first"))

	tr := domain.NewTraverser(map[string]any{"age": 29})
	tr.SetSideEffects(se)

	args := []Argument{Constant(1), Property("age"), SideEffect("k")}
	for _, a := range args {
		first, err := a.Get(tr)
		require.NoError(t, err)
		second, err := a.Get(tr)
		require.NoError(t, err)
		assert.Equal(t, first, second, a.String())
	}
	assert.Equal(t, map[string]any{"age": 29}, tr.Get(), "resolution never mutates the traverser")

	// side-effect arguments resolve on every call, never cached
	require.NoError(t, se.Add("k", "second"))
	v, err := SideEffect("k").Get(tr)
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	_, err = SideEffect("missing").Get(tr)
	assert.ErrorIs(t, err, domain.ErrUndeclaredSideEffect)

	missing, err := Property("nope").Get(tr)
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.True(t, IsConstant(Constant("x")))
	assert.False(t, IsConstant(Property("x")))
}

func TestCoefficient(t *testing.T) {
	a, b, c := Long(2), Long(3), Long(5)

	assert.Equal(t, a.Multiply(b).Multiply(c), a.Multiply(b.Multiply(c)))
	assert.Equal(t, a, Unity.Multiply(a))
	assert.Equal(t, a, a.Multiply(Unity))
	assert.Equal(t, a, a.Multiply(nil))
	assert.True(t, Unity.IsUnity())
	assert.Equal(t, int64(12), Long(4).Apply(3))
}

func TestMakeString(t *testing.T) {
	f := Has(Constant("age"), Gt(30), WithCoefficient(Long(2)), WithLabels("a", "b"))
	assert.Equal(t, "2*has(age,gt(30))@a,b", f.String())
	assert.Equal(t, "identity()", Identity().String())
	assert.Equal(t, "values(name,age)", Values([]string{"name", "age"}).String())
	assert.Equal(t, Long(2), f.Coefficient())
	assert.Equal(t, []string{"a", "b"}, f.Labels())
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		p    P
		in   any
		want bool
	}{
		{"eq across numeric types", Eq(29), int64(29), true},
		{"eq strings", Eq("lop"), "lop", true},
		{"eq number vs string", Eq(1), "1", false},
		{"neq", Neq("a"), "b", true},
		{"gt", Gt(30), 32, true},
		{"gt float", Gt(0.5), 0.4, false},
		{"gte bound", Gte(29), 29.0, true},
		{"lt strings", Lt("m"), "josh", true},
		{"lte", Lte(27), 29, false},
		{"incomparable", Gt(1), "x", false},
		{"within", Within("ripple", "lop"), "lop", true},
		{"within miss", Within("ripple", "lop"), "vadas", false},
		{"without", Without(1, 2), 3, true},
		{"zero value", P{}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Test(tt.in))
		})
	}

	p, ok := PredicateFor("WITHIN", "a", "b")
	require.True(t, ok)
	assert.True(t, p.Test("b"))
	_, ok = PredicateFor("regex")
	assert.False(t, ok)
}

func TestMapFunctions(t *testing.T) {
	v := &domain.Vertex{ID: 4, Label: "person", Properties: map[string]any{"name": "josh", "age": 32}}
	tr := domain.NewTraverser(v)

	label, err := Label().Apply(tr)
	require.NoError(t, err)
	assert.Equal(t, "person", label)

	id, err := ID().Apply(tr)
	require.NoError(t, err)
	assert.Equal(t, 4, id)

	_, err = Label().Apply(domain.NewTraverser("plain"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	values, err := Values(nil).Apply(tr)
	require.NoError(t, err)
	assert.Equal(t, []any{32, "josh"}, values, "all properties in key order")

	values, err = Values([]string{"name", "missing"}).Apply(tr)
	require.NoError(t, err)
	assert.Equal(t, []any{"josh"}, values)

	resolved, err := Resolve(Property("age")).Apply(tr)
	require.NoError(t, err)
	assert.Equal(t, 32, resolved)

	c, err := ConstantValue("k").Apply(tr)
	require.NoError(t, err)
	assert.Equal(t, "k", c)
}

func TestLambdas_PropagateErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := MapLambda("explode", func(any) (any, error) { return nil, boom }).Apply(domain.NewTraverser(1))
	assert.Same(t, boom, err)

	_, err = FilterLambda("explode", func(any) (bool, error) { return false, boom }).Test(domain.NewTraverser(1))
	assert.Same(t, boom, err)

	disc := FromFilter(Is(Gt(0)))
	v, err := disc.Apply(domain.NewTraverser(-1))
	require.NoError(t, err)
	assert.Equal(t, false, v)
	assert.Equal(t, "is(gt(0))", disc.String())
}
