package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_CopyOnWrite(t *testing.T) {
	base := NewPath().Extend("marko", "a")
	left := base.Extend("josh")
	right := base.Extend("vadas", "b")

	assert.Equal(t, []any{"marko"}, base.Objects())
	assert.Equal(t, []any{"marko", "josh"}, left.Objects())
	assert.Equal(t, []any{"marko", "vadas"}, right.Objects())

	labeled := left.AddLabels("c", "c")
	assert.False(t, left.HasLabel("c"))
	assert.Equal(t, [][]string{{"a"}, {"c"}}, labeled.Labels())

	v, ok := right.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "vadas", v)

	_, ok = right.Get("zzz")
	assert.False(t, ok)
	assert.Equal(t, "[marko, vadas]", right.String())
}

func TestPath_GetReturnsMostRecent(t *testing.T) {
	p := NewPath().Extend(1, "x").Extend(2).Extend(3, "x")
	v, ok := p.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 3, p.Len())
}

func TestPath_AddLabelsOnEmpty(t *testing.T) {
	p := NewPath()
	assert.Same(t, p, p.AddLabels("a"))
}

func TestTraverser_Split(t *testing.T) {
	se := NewSideEffects()
	tr := NewTraverser(1)
	tr.SetBulk(3)
	tr.SetSideEffects(se)
	tr.SetStepID("2")

	untracked := tr.Split(2)
	assert.Nil(t, untracked.Path())
	assert.Equal(t, int64(3), untracked.Bulk())
	assert.Same(t, se, untracked.SideEffects())
	assert.Equal(t, "2", untracked.StepID())

	tr.TrackPath("start")
	tracked := tr.Split(2)
	assert.Equal(t, []any{1, 2}, tracked.Path().Objects())
	assert.Equal(t, []any{1}, tr.Path().Objects())
	assert.Equal(t, "2[x3]", tracked.String())

	tracked.SetStepID(HaltedStepID)
	assert.True(t, tracked.IsHalted())
}

func TestRequirements(t *testing.T) {
	a := NewRequirements(RequirementObject)
	b := NewRequirements(RequirementLabeledPath)
	u := a.Union(b, nil)

	assert.False(t, a.TracksPath())
	assert.True(t, u.TracksPath())
	assert.Equal(t, []Requirement{RequirementLabeledPath, RequirementObject}, u.Slice())
	assert.Len(t, a, 1, "union does not mutate its receiver")
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("olap")
	assert.True(t, ok)
	assert.Equal(t, ModeComputer, m)
	assert.Equal(t, "computer", m.String())

	_, ok = ParseMode("quantum")
	assert.False(t, ok)
}
