package combat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
)

// ErrDuelNotFound is returned when no active duel has the requested ID.
var ErrDuelNotFound = errors.New("combat: duel not found")

// DuelResult summarises a finished or interrupted duel.
type DuelResult struct {
	DuelID uuid.UUID
	Rounds int
	// Winner is the ID of the surviving actor, or empty on a draw or when
	// the round limit ran out.
	Winner string
	Swings map[string]int
	Hits   map[string]int
	Damage map[string]int
}

func newDuelResult(id uuid.UUID) DuelResult {
	return DuelResult{
		DuelID: id,
		Swings: make(map[string]int),
		Hits:   make(map[string]int),
		Damage: make(map[string]int),
	}
}

// Duel is a melee fight between two actors. Sides act in initiative order
// every round.
type Duel struct {
	ID    uuid.UUID
	Sides []*Side
	Round int
	Over  bool

	mu     sync.Mutex
	ctx    *Context
	result DuelResult
}

// Result returns a snapshot of the duel's tallies so far.
func (d *Duel) Result() DuelResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Duel) snapshot() DuelResult {
	out := newDuelResult(d.ID)
	out.Rounds, out.Winner = d.result.Rounds, d.result.Winner
	for k, v := range d.result.Swings {
		out.Swings[k] = v
	}
	for k, v := range d.result.Hits {
		out.Hits[k] = v
	}
	for k, v := range d.result.Damage {
		out.Damage[k] = v
	}
	return out
}

// Run fights rounds until one side is dead or banished, maxRounds rounds
// have passed, or ctx is cancelled. Statuses on both sides tick down at the
// end of every round.
//
// Precondition: maxRounds > 0.
// Postcondition: on a nil error, Over is true or Round == maxRounds.
func (d *Duel) Run(ctx context.Context, maxRounds int) (DuelResult, error) {
	if maxRounds <= 0 {
		return DuelResult{}, fmt.Errorf("combat: running duel %s: maxRounds must be positive, got %d", d.ID, maxRounds)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	spanCtx, span := d.ctx.Tracer.Start(ctx, "melee.duel")
	defer span.End()
	saved := d.ctx.Ctx
	d.ctx.Ctx = spanCtx
	defer func() { d.ctx.Ctx = saved }()

	log := d.ctx.Logger.With(zap.String("duel_id", d.ID.String()))
	for !d.Over && d.Round < maxRounds {
		if err := ctx.Err(); err != nil {
			return d.snapshot(), fmt.Errorf("running duel %s: %w", d.ID, err)
		}
		d.Round++
		d.result.Rounds = d.Round
		for i, side := range d.Sides {
			d.takeTurn(side, d.Sides[1-i])
			if d.settle() {
				break
			}
		}
		d.tickStatuses()
		d.resetShieldBlocks()
		d.settle()
	}

	span.SetAttributes(
		attribute.Int("rounds", d.Round),
		attribute.String("winner", d.result.Winner),
	)
	log.Info("duel finished",
		zap.Int("rounds", d.Round),
		zap.Bool("decided", d.Over),
		zap.String("winner", d.result.Winner),
	)
	return d.snapshot(), nil
}

// takeTurn lets side swing at opp with every attack slot it has this round.
func (d *Duel) takeTurn(side, opp *Side) {
	a := side.Actor
	if !valid(a) || !valid(opp.Actor) || incapacitated(a) {
		return
	}
	if has(a, condition.Slow) && !condition.HasHaste(a.Statuses()) && d.Round%2 == 0 {
		return
	}

	slots := attackSlots(a)
	for i, slot := range slots {
		if !valid(a) || !valid(opp.Actor) {
			return
		}
		d.swing(a, d.pickDefender(opp.Actor), slot, i)
	}

	p, ok := asPlayer(a)
	if !ok {
		return
	}
	if mnt := p.Mount(); mnt != nil && valid(mnt) && valid(opp.Actor) && !incapacitated(mnt) {
		d.swing(mnt, d.pickDefender(opp.Actor), 0, len(slots))
	}
}

func (d *Duel) swing(attacker, defender Actor, slot, effective int) {
	before := defender.HP()
	m := NewMeleeAttack(d.ctx, attacker, defender, slot, effective, false)
	m.DuelID = d.ID
	if !m.Attack() {
		return
	}
	id := attacker.ID()
	if mnt, ok := asMount(attacker); ok && mnt.Rider() != nil {
		id = mnt.Rider().ID()
	}
	d.result.Swings[id]++
	if m.Hit() {
		d.result.Hits[id]++
	}
	if dealt := before - max(0, defender.HP()); dealt > 0 {
		d.result.Damage[id] += dealt
	}
}

// pickDefender returns who takes a swing aimed at target: a mounted player
// sometimes has the blow land on the mount instead.
func (d *Duel) pickDefender(target Actor) Actor {
	p, ok := asPlayer(target)
	if !ok {
		return target
	}
	mnt := p.Mount()
	if mnt == nil || !valid(mnt) {
		return target
	}
	if dice.XChanceInY(d.ctx.Src, 3, 8) {
		return target
	}
	return mnt
}

// attackSlots lists the attack slots a swings with this round. Hasted
// actors get one extra swing with their first slot.
func attackSlots(a Actor) []int {
	var slots []int
	if mon, ok := asMonster(a); ok {
		for n := 0; n < mon.AttackCount(); n++ {
			if mon.Attack(n).Type != AttackNone {
				slots = append(slots, n)
			}
		}
	} else {
		slots = []int{0}
	}
	if len(slots) > 0 && condition.HasHaste(a.Statuses()) {
		slots = append(slots, slots[0])
	}
	return slots
}

// settle marks the duel over once a side can no longer fight and reports
// whether it is over.
func (d *Duel) settle() bool {
	if d.Over {
		return true
	}
	var standing []Actor
	for _, s := range d.Sides {
		if valid(s.Actor) {
			standing = append(standing, s.Actor)
		}
	}
	switch len(standing) {
	case len(d.Sides):
		return false
	case 1:
		d.result.Winner = standing[0].ID()
	}
	d.Over = true
	return true
}

// tickStatuses counts down every status once per round. A mount that shares
// its rider's status set is ticked only once.
func (d *Duel) tickStatuses() {
	seen := make(map[*condition.ActiveSet]bool)
	tick := func(a Actor) {
		set := a.Statuses()
		if set == nil || seen[set] || !a.Alive() {
			return
		}
		seen[set] = true
		expired := set.Tick()
		sort.Strings(expired)
		for _, id := range expired {
			def, ok := d.ctx.Statuses.Get(id)
			if ok && def.ExpireMessage != "" && d.ctx.canSee(a) {
				d.ctx.emitf(ChannelPlain, def.ExpireMessage, a.Name(DescThe))
			}
		}
	}
	for _, s := range d.Sides {
		tick(s.Actor)
		if p, ok := asPlayer(s.Actor); ok && p.Mount() != nil {
			tick(p.Mount())
		}
	}
}

// resetShieldBlocks lets every combatant block at full strength next round.
func (d *Duel) resetShieldBlocks() {
	for _, s := range d.Sides {
		s.Actor.ResetShieldBlocks()
		if p, ok := asPlayer(s.Actor); ok && p.Mount() != nil {
			p.Mount().ResetShieldBlocks()
		}
	}
}

// Engine tracks every active duel, keyed by duel ID.
// All methods are safe for concurrent use; each Duel runs single-threaded.
type Engine struct {
	mu       sync.RWMutex
	duels    map[uuid.UUID]*Duel
	fighting map[string]uuid.UUID
}

// NewEngine creates an empty Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{
		duels:    make(map[uuid.UUID]*Duel),
		fighting: make(map[string]uuid.UUID),
	}
}

// StartDuel registers a duel between a and b, rolling initiative with c's
// dice source.
//
// Precondition: c, a and b must not be nil.
// Postcondition: Returns the new Duel, or an error if a and b are the same
// actor or either is already in a duel.
func (e *Engine) StartDuel(c *Context, a, b Actor) (*Duel, error) {
	if c == nil || c.Src == nil || a == nil || b == nil {
		panic("combat: StartDuel precondition violated: context, source and both actors are required")
	}
	if a.ID() == b.ID() {
		return nil, fmt.Errorf("combat: actor %q cannot duel itself", a.ID())
	}
	c.fill()

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, act := range []Actor{a, b} {
		if id, busy := e.fighting[act.ID()]; busy {
			return nil, fmt.Errorf("combat: actor %q already in duel %s", act.ID(), id)
		}
	}

	d := &Duel{
		ID:    uuid.New(),
		Sides: RollInitiative(c.Src, []Actor{a, b}),
		ctx:   c,
	}
	d.result = newDuelResult(d.ID)
	e.duels[d.ID] = d
	e.fighting[a.ID()] = d.ID
	e.fighting[b.ID()] = d.ID
	c.Logger.Debug("duel started",
		zap.String("duel_id", d.ID.String()),
		zap.String("first", d.Sides[0].Actor.ID()),
		zap.Int("first_initiative", d.Sides[0].Initiative),
		zap.String("second", d.Sides[1].Actor.ID()),
		zap.Int("second_initiative", d.Sides[1].Initiative),
	)
	return d, nil
}

// GetDuel returns the active duel with id.
//
// Postcondition: Returns (duel, true) if found, or (nil, false) otherwise.
func (e *Engine) GetDuel(id uuid.UUID) (*Duel, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.duels[id]
	return d, ok
}

// DuelOf returns the ID of the duel actorID is fighting in.
func (e *Engine) DuelOf(actorID string) (uuid.UUID, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	id, ok := e.fighting[actorID]
	return id, ok
}

// Active returns the number of registered duels.
func (e *Engine) Active() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.duels)
}

// EndDuel removes the duel with id and frees both actors.
//
// Postcondition: Returns ErrDuelNotFound if id is not registered.
func (e *Engine) EndDuel(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.duels[id]
	if !ok {
		return fmt.Errorf("ending duel %s: %w", id, ErrDuelNotFound)
	}
	for _, s := range d.Sides {
		delete(e.fighting, s.Actor.ID())
	}
	delete(e.duels, id)
	return nil
}
