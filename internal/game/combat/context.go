package combat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// Channel tags a narrative message with its severity.
type Channel string

const (
	ChannelPlain   Channel = "plain"
	ChannelCombat  Channel = "combat"
	ChannelWarning Channel = "warning"
	ChannelGod     Channel = "god"
	ChannelMutate  Channel = "mutation"
)

// MessageSink receives the narrative text produced by an attack.
type MessageSink interface {
	Emit(channel Channel, text string)
}

// BehaviourEvent tells the AI layer what one actor just noticed about another.
type BehaviourEvent int

const (
	// EventWhack means target was attacked by source and should respond.
	EventWhack BehaviourEvent = iota
	// EventDisturb means target heard something nearby.
	EventDisturb
	// EventAlert means target became aware of source without being hit.
	EventAlert
)

// BehaviourSink notifies the monster AI. Calls are fire-and-forget.
type BehaviourSink interface {
	Alert(event BehaviourEvent, target, source Actor)
}

// SpellSchool identifies the flavour of a miscast.
type SpellSchool string

const (
	SchoolRandom         SpellSchool = "random"
	SchoolConjuration    SpellSchool = "conjuration"
	SchoolHexes          SpellSchool = "hexes"
	SchoolFire           SpellSchool = "fire"
	SchoolIce            SpellSchool = "ice"
	SchoolAir            SpellSchool = "air"
	SchoolEarth          SpellSchool = "earth"
	SchoolPoison         SpellSchool = "poison"
	SchoolNecromancy     SpellSchool = "necromancy"
	SchoolTransmutations SpellSchool = "transmutations"
	SchoolTranslocations SpellSchool = "translocations"
	SchoolSummonings     SpellSchool = "summonings"
)

// Miscaster executes a magical backfire against target.
type Miscaster interface {
	Miscast(target Actor, level int, school SpellSchool, source Actor, cause string)
}

// World is the terrain and population query surface an attack consults.
type World interface {
	// StabType classifies how unaware defender is of attacker.
	StabType(attacker, defender Actor) StabType
	// CleaveTargets returns the actors adjacent to attacker that a cleave
	// aimed at defender would also strike, in sweep order, excluding defender.
	CleaveTargets(attacker, defender Actor) []Actor
	// ActorAt returns the actor standing at p, or nil.
	ActorAt(p Pos) Actor
	// Habitable reports whether a may stand at p.
	Habitable(a Actor, p Pos) bool
	Noise(p Pos, loudness int, source Actor)
	Backlit(a Actor) bool
	Umbra(a Actor) bool

	Blink(a Actor) bool
	Teleport(a Actor, instant bool) bool
	Banish(a, source Actor)
	// Bleed splatters amount blood around p.
	Bleed(p Pos, amount int)
	Polymorph(a Actor) bool
	// Clone duplicates a next to itself and reports whether it happened.
	Clone(a Actor) bool
	// Mutate applies a harmful random mutation and reports whether it took.
	Mutate(a Actor, cause string) bool
	// StartConstricting makes attacker grab defender.
	StartConstricting(attacker, defender Actor)
	// Killed runs the death bookkeeping for a monster slain by killer.
	Killed(victim, killer Actor)
}

// UnrandHit is the state passed to an artefact's on-hit hook. Hooks roll
// with Src and report through Messages so seeded fights stay reproducible.
type UnrandHit struct {
	Weapon       *inventory.Weapon
	Attacker     Actor
	Defender     Actor
	DefenderDied bool
	Damage       int
	MountDefend  bool
	// Visible is false when the observer can see neither combatant.
	Visible  bool
	Src      dice.Source
	Messages MessageSink
}

// UnrandHooks runs artefact-specific melee effects.
type UnrandHooks interface {
	// MeleeEffects runs the hook for hit.Weapon's artefact. It reports whether
	// a hook exists for that artefact.
	MeleeEffects(ctx context.Context, hit UnrandHit) bool
}

// AttackRecord is one resolved attack as written to the combat journal.
type AttackRecord struct {
	ID         uuid.UUID
	DuelID     uuid.UUID
	ParentID   uuid.UUID
	Kind       string
	Attacker   string
	Defender   string
	Weapon     string
	Brand      string
	ToHit      int
	EvMargin   int
	Damage     int
	Special    int
	Hit        bool
	Blocked    bool
	Killed     bool
	OccurredAt time.Time
}

// JournalWriter persists attack records.
type JournalWriter interface {
	Record(ctx context.Context, rec AttackRecord) error
}

// Tuning holds the engine knobs exposed through configuration.
type Tuning struct {
	AuxAttacks      bool
	RiposteEnabled  bool
	MaxChildAttacks int
	HitWeak         int
	HitMed          int
	HitStrong       int
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		AuxAttacks:      true,
		RiposteEnabled:  true,
		MaxChildAttacks: 16,
		HitWeak:         7,
		HitMed:          18,
		HitStrong:       36,
	}
}

// Context bundles everything an attack reads or writes outside the two actors.
type Context struct {
	Ctx       context.Context
	Src       dice.Source
	Messages  MessageSink
	Behaviour BehaviourSink
	Miscaster Miscaster
	World     World
	Unrands   UnrandHooks
	Journal   JournalWriter
	Statuses  *condition.Registry
	Logger    *zap.Logger
	Tracer    trace.Tracer
	Tuning    Tuning
	// Observer is the actor whose view decides message visibility, usually the player.
	Observer Actor
}

// NewContext returns a Context with no-op collaborators and stock tuning.
//
// Precondition: src must not be nil.
// Postcondition: every collaborator field is non-nil.
func NewContext(src dice.Source) *Context {
	if src == nil {
		panic("combat: NewContext precondition violated: src must not be nil")
	}
	c := &Context{Src: src, Tuning: DefaultTuning()}
	c.fill()
	return c
}

func (c *Context) fill() {
	if c.Ctx == nil {
		c.Ctx = context.Background()
	}
	if c.Messages == nil {
		c.Messages = DiscardSink{}
	}
	if c.Behaviour == nil {
		c.Behaviour = nopBehaviour{}
	}
	if c.Miscaster == nil {
		c.Miscaster = nopMiscaster{}
	}
	if c.World == nil {
		c.World = OpenWorld{}
	}
	if c.Statuses == nil {
		c.Statuses = condition.DefaultRegistry()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Tracer == nil {
		c.Tracer = noop.NewTracerProvider().Tracer("combat")
	}
	if c.Tuning.MaxChildAttacks <= 0 {
		c.Tuning.MaxChildAttacks = DefaultTuning().MaxChildAttacks
	}
	if c.Tuning.HitWeak == 0 && c.Tuning.HitMed == 0 && c.Tuning.HitStrong == 0 {
		d := DefaultTuning()
		c.Tuning.HitWeak, c.Tuning.HitMed, c.Tuning.HitStrong = d.HitWeak, d.HitMed, d.HitStrong
	}
}

func (c *Context) emit(ch Channel, text string) {
	c.Messages.Emit(ch, Capitalise(text))
}

func (c *Context) emitf(ch Channel, format string, args ...any) {
	c.emit(ch, fmt.Sprintf(format, args...))
}

// applyStatus puts status id on a with the given duration and announces it
// when the change is visible.
func (c *Context) applyStatus(a Actor, id string, stacks, duration int) bool {
	def, ok := c.Statuses.Get(id)
	if !ok {
		c.Logger.Warn("unknown status", zap.String("status", id))
		return false
	}
	had := a.Statuses().Has(id)
	if err := a.Statuses().Apply(def, stacks, duration); err != nil {
		c.Logger.Warn("applying status", zap.String("status", id), zap.Error(err))
		return false
	}
	if !had && def.ApplyMessage != "" && a.Visible() {
		c.emitf(ChannelPlain, def.ApplyMessage, a.Name(DescThe))
	}
	return true
}

// extendStatus lengthens status id on a, capped at cap turns when cap > 0.
func (c *Context) extendStatus(a Actor, id string, amount, cap int) bool {
	def, ok := c.Statuses.Get(id)
	if !ok {
		c.Logger.Warn("unknown status", zap.String("status", id))
		return false
	}
	had := a.Statuses().Has(id)
	if err := a.Statuses().Extend(def, amount, cap); err != nil {
		c.Logger.Warn("extending status", zap.String("status", id), zap.Error(err))
		return false
	}
	if !had && def.ApplyMessage != "" && a.Visible() {
		c.emitf(ChannelPlain, def.ApplyMessage, a.Name(DescThe))
	}
	return true
}

// canSee reports whether the observer of the fight can see a.
func (c *Context) canSee(a Actor) bool {
	if a == nil {
		return false
	}
	if c.Observer != nil && c.Observer != a {
		return c.Observer.CanSee(a)
	}
	return a.Visible()
}
