package combat

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/melee/internal/game/condition"
)

var sentenceCaser = cases.Title(language.English, cases.NoLower)

// Capitalise upper-cases the first letter of a message so sentences that open
// with a rendered name read correctly.
func Capitalise(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return sentenceCaser.String(s[:size]) + s[size:]
}

// DiscardSink drops every message.
type DiscardSink struct{}

// Emit implements MessageSink.
func (DiscardSink) Emit(Channel, string) {}

// LogSink writes narrative messages to a zap logger.
type LogSink struct {
	Logger *zap.Logger
}

// NewLogSink returns a sink writing to logger.
//
// Precondition: logger must not be nil.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		panic("combat: NewLogSink precondition violated: logger must not be nil")
	}
	return &LogSink{Logger: logger}
}

// Emit implements MessageSink.
func (s *LogSink) Emit(ch Channel, text string) {
	s.Logger.Info(text, zap.String("channel", string(ch)))
}

// Transcript collects messages in order. It is used by simulations that print
// a fight after it ends.
type Transcript struct {
	Lines []string
}

// Emit implements MessageSink.
func (t *Transcript) Emit(_ Channel, text string) {
	t.Lines = append(t.Lines, text)
}

// String joins the collected lines.
func (t *Transcript) String() string {
	return strings.Join(t.Lines, "\n")
}

type nopBehaviour struct{}

func (nopBehaviour) Alert(BehaviourEvent, Actor, Actor) {}

type nopMiscaster struct{}

func (nopMiscaster) Miscast(Actor, int, SpellSchool, Actor, string) {}

// OpenWorld is a featureless arena: nothing is hidden, every cell is free
// and no world-altering effect succeeds.
type OpenWorld struct{}

func (OpenWorld) StabType(_, defender Actor) StabType { return stabFromStatuses(defender) }
func (OpenWorld) CleaveTargets(_, _ Actor) []Actor { return nil }
func (OpenWorld) ActorAt(Pos) Actor { return nil }
func (OpenWorld) Habitable(Actor, Pos) bool { return true }
func (OpenWorld) Noise(Pos, int, Actor) {}
func (OpenWorld) Backlit(Actor) bool { return false }
func (OpenWorld) Umbra(Actor) bool { return false }
func (OpenWorld) Blink(Actor) bool { return false }
func (OpenWorld) Teleport(Actor, bool) bool { return false }
func (OpenWorld) Banish(Actor, Actor) {}
func (OpenWorld) Bleed(Pos, int) {}
func (OpenWorld) Polymorph(Actor) bool { return false }
func (OpenWorld) Clone(Actor) bool { return false }
func (OpenWorld) Mutate(Actor, string) bool { return false }
func (OpenWorld) StartConstricting(Actor, Actor) {}
func (OpenWorld) Killed(Actor, Actor) {}

// stabFromStatuses classifies a defender's awareness from its statuses alone.
func stabFromStatuses(defender Actor) StabType {
	switch {
	case defender == nil:
		return StabNone
	case has(defender, condition.Asleep):
		return StabSleeping
	case has(defender, condition.Paralysed):
		return StabParalysed
	case has(defender, condition.Petrified):
		return StabPetrified
	case has(defender, condition.Held):
		return StabHeld
	case has(defender, condition.Confused):
		return StabConfused
	case has(defender, condition.Fleeing):
		return StabFleeing
	case has(defender, condition.Distracted):
		return StabDistracted
	}
	return StabNone
}
