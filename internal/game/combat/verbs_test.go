package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/melee/internal/game/combat"
)

func TestThirdPerson(t *testing.T) {
	cases := map[string]string{
		"hit":        "hits",
		"are":        "is",
		"have":       "has",
		"crush":      "crushes",
		"punch":      "punches",
		"bury":       "buries",
		"slay":       "slays",
		"are shoved": "is shoved",
		"hold":       "holds",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, combat.ThirdPerson(in))
		})
	}
}

func TestAttackStrengthPunctuation(t *testing.T) {
	assert.Equal(t, " (3).", combat.AttackStrengthPunctuation(3))
	assert.Equal(t, " (7)!", combat.AttackStrengthPunctuation(7))
	assert.Equal(t, " (20)!!", combat.AttackStrengthPunctuation(20))
	assert.Equal(t, " (36)!!!", combat.AttackStrengthPunctuation(36))
	assert.Equal(t, " (72)!!!!", combat.AttackStrengthPunctuation(72))
}

func TestEvasionMarginAdverb(t *testing.T) {
	assert.Equal(t, " completely", combat.EvasionMarginAdverb(-25))
	assert.Equal(t, "", combat.EvasionMarginAdverb(-15))
	assert.Equal(t, " closely", combat.EvasionMarginAdverb(-8))
	assert.Equal(t, " barely", combat.EvasionMarginAdverb(-1))
}

func TestCapitalise(t *testing.T) {
	assert.Equal(t, "The orc", combat.Capitalise("the orc"))
	assert.Equal(t, "You", combat.Capitalise("You"))
	assert.Equal(t, "", combat.Capitalise(""))
	assert.Equal(t, "Éclair", combat.Capitalise("éclair"))
}
