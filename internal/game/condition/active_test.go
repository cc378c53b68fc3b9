package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/condition"
)

func mark() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "mark", Name: "Mark", DurationType: condition.DurationPermanent}
}

func poison() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "poison", Name: "Poison", DurationType: condition.DurationTurns, MaxStacks: 50}
}

func haste() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "haste", Name: "Haste", DurationType: condition.DurationTurns, MaxDuration: 40, Beneficial: true}
}

func sleep() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "sleep", Name: "Sleep", DurationType: condition.DurationTurns, Incapacitates: true}
}

func TestActiveSet_Apply_Permanent(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(mark(), 1, 10))
	assert.True(t, s.Has("mark"))
	assert.Equal(t, -1, s.Duration("mark"), "permanent statuses ignore the supplied duration")
	assert.Empty(t, s.Tick())
	assert.True(t, s.Has("mark"))
}

func TestActiveSet_Apply_StacksCapped(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(poison(), 30, 5))
	require.NoError(t, s.Apply(poison(), 30, 3))
	assert.Equal(t, 50, s.Stacks("poison"))
	assert.Equal(t, 5, s.Duration("poison"), "re-apply keeps the longer duration")
}

func TestActiveSet_Apply_UnstackableIsOne(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(haste(), 7, 10))
	assert.Equal(t, 1, s.Stacks("haste"))
}

func TestActiveSet_Apply_NilDef(t *testing.T) {
	s := condition.NewActiveSet()
	assert.Error(t, s.Apply(nil, 1, 1))
	assert.Error(t, s.Extend(nil, 1, 0))
}

func TestActiveSet_Extend(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Extend(haste(), 10, 0))
	assert.Equal(t, 10, s.Duration("haste"))
	require.NoError(t, s.Extend(haste(), 10, 15))
	assert.Equal(t, 15, s.Duration("haste"), "explicit cap applies")
	require.NoError(t, s.Extend(haste(), 100, 0))
	assert.Equal(t, 40, s.Duration("haste"), "MaxDuration applies")
}

func TestActiveSet_SetStacks(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(poison(), 10, 5))
	s.SetStacks("poison", 99)
	assert.Equal(t, 50, s.Stacks("poison"))
	s.SetStacks("poison", 0)
	assert.False(t, s.Has("poison"))
	s.SetStacks("absent", 3)
	assert.False(t, s.Has("absent"))
}

func TestActiveSet_Tick_Expires(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(haste(), 1, 2))
	assert.Empty(t, s.Tick())
	assert.Equal(t, []string{"haste"}, s.Tick())
	assert.False(t, s.Has("haste"))
}

func TestActiveSet_Remove(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(haste(), 1, 2))
	s.Remove("haste")
	s.Remove("haste")
	assert.False(t, s.Has("haste"))
	assert.Equal(t, 0, s.Duration("haste"))
}

func TestModifiers(t *testing.T) {
	s := condition.NewActiveSet()
	assert.False(t, condition.IsIncapacitated(s))
	require.NoError(t, s.Apply(sleep(), 1, 3))
	require.NoError(t, s.Apply(haste(), 1, 3))
	assert.True(t, condition.IsIncapacitated(s))
	assert.Equal(t, []string{"haste"}, condition.Beneficial(s))
	assert.True(t, condition.HasHaste(s))
	assert.False(t, condition.MightOrBerserk(s))
}

func TestPropertyActiveSet_TickNeverIncreasesDuration(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.IntRange(1, 40).Draw(rt, "duration")
		n := rapid.IntRange(1, 60).Draw(rt, "ticks")
		s := condition.NewActiveSet()
		require.NoError(rt, s.Apply(haste(), 1, d))
		for i := 0; i < n; i++ {
			before := s.Duration("haste")
			s.Tick()
			assert.LessOrEqual(rt, s.Duration("haste"), before)
		}
		assert.Equal(rt, n < d, s.Has("haste"))
	})
}
