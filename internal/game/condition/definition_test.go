package condition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/condition"
)

func TestRegistry_Get_Found(t *testing.T) {
	reg := condition.NewRegistry()
	def := &condition.ConditionDef{ID: "held", Name: "Held", DurationType: condition.DurationTurns}
	reg.Register(def)
	got, ok := reg.Get("held")
	require.True(t, ok)
	assert.Equal(t, def, got)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := condition.NewRegistry()
	_, ok := reg.Get("nonexistent")
	assert.False(t, ok)
	assert.Panics(t, func() { reg.MustGet("nonexistent") })
}

func TestRegistry_All_ReturnsCopySorted(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "b", Name: "B", DurationType: condition.DurationTurns})
	reg.Register(&condition.ConditionDef{ID: "a", Name: "A", DurationType: condition.DurationPermanent})
	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	all[0] = nil
	for _, d := range reg.All() {
		assert.NotNil(t, d, "registry must not be corrupted by mutating the returned slice")
	}
}

func TestDefaultRegistry_HasEngineStatuses(t *testing.T) {
	reg := condition.DefaultRegistry()
	for _, id := range []string{
		condition.Confused, condition.Haste, condition.Slow, condition.Petrified,
		condition.Poisoned, condition.Berserk, condition.Might, condition.Corroded,
		condition.BlackMark, condition.MountWretched,
	} {
		def, ok := reg.Get(id)
		require.True(t, ok, "status %q must be built in", id)
		assert.NoError(t, def.Validate())
	}
	bm := reg.MustGet(condition.BlackMark)
	assert.Equal(t, condition.DurationPermanent, bm.DurationType)
}

func TestLoadDirectory_OverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	doc := `
id: confused
name: Bewildered
description: "Cannot think straight."
duration_type: turns
max_stacks: 0
max_duration: 25
beneficial: false
incapacitates: false
apply_message: "%s is bewildered."
expire_message: "%s feels less bewildered."
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "confused.yaml"), []byte(doc), 0o644))

	reg, err := condition.LoadDirectory(dir)
	require.NoError(t, err)
	got, ok := reg.Get(condition.Confused)
	require.True(t, ok)
	assert.Equal(t, "Bewildered", got.Name)
	assert.Equal(t, 25, got.MaxDuration)
	_, ok = reg.Get(condition.Haste)
	assert.True(t, ok, "built-in statuses survive a content load")
}

func TestLoadDirectory_UnknownField_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	doc := "id: x\nname: X\nduration_type: turns\nlua_on_tick: boom\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte(doc), 0o644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_InvalidDefinition_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	doc := "id: x\nname: X\nduration_type: rounds\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte(doc), 0o644))
	_, err := condition.LoadDirectory(dir)
	assert.ErrorContains(t, err, "duration_type")
}

func TestLoadDirectory_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(":::bad:::"), 0o644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_NonexistentDir_ReturnsError(t *testing.T) {
	_, err := condition.LoadDirectory("/nonexistent/path/that/does/not/exist")
	assert.Error(t, err)
}

func TestLoadDirectory_ShippedContent(t *testing.T) {
	reg, err := condition.LoadDirectory("../../../content/statuses")
	require.NoError(t, err)
	for _, id := range []string{condition.Confused, condition.Poisoned, condition.Petrified} {
		_, ok := reg.Get(id)
		assert.True(t, ok, "status %q must be present", id)
	}
}

func TestPropertyRegistry_RegisterThenGet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-z_]{3,12}`).Draw(t, "id")
		reg := condition.NewRegistry()
		def := &condition.ConditionDef{ID: id, Name: id, DurationType: condition.DurationPermanent}
		reg.Register(def)
		got, ok := reg.Get(id)
		assert.True(t, ok, "registered status must be retrievable")
		assert.Equal(t, def, got)
	})
}
