package combat

import "go.uber.org/zap"

// EffectKind names an effect that must wait until an attack has finished.
type EffectKind int

const (
	// EffectBlink moves the target a short random distance.
	EffectBlink EffectKind = iota
	// EffectTeleport teleports the target at once.
	EffectTeleport
	// EffectBanish sends the target to the Abyss.
	EffectBanish
	// EffectBlood splatters Amount blood around the target's cell.
	EffectBlood
	// EffectTrampleFollow moves the target into Pos, the cell its victim
	// was knocked out of.
	EffectTrampleFollow
)

func (k EffectKind) String() string {
	switch k {
	case EffectBlink:
		return "blink"
	case EffectTeleport:
		return "teleport"
	case EffectBanish:
		return "banish"
	case EffectBlood:
		return "blood"
	case EffectTrampleFollow:
		return "trample_follow"
	}
	return "unknown"
}

// Effect is one queued end-of-attack effect.
type Effect struct {
	Kind   EffectKind
	Target Actor
	Source Actor
	// Amount is the blood volume for EffectBlood.
	Amount int
	// Pos is the destination for EffectTrampleFollow.
	Pos Pos
}

// EffectQueue holds effects scheduled during an attack. The top-level attack
// drains it once, after every phase and child attack has finished.
type EffectQueue struct {
	pending []Effect
}

// Add schedules e. A second effect of the same kind on the same target merges
// into the first: blood amounts add up, anything else keeps the first entry.
func (q *EffectQueue) Add(e Effect) {
	for i, p := range q.pending {
		if p.Kind == e.Kind && p.Target == e.Target {
			if e.Kind == EffectBlood {
				q.pending[i].Amount += e.Amount
			}
			return
		}
	}
	q.pending = append(q.pending, e)
}

// Len returns the number of pending effects.
func (q *EffectQueue) Len() int {
	return len(q.pending)
}

// Drain runs every pending effect in scheduling order and empties the queue.
// Effects whose target has died or left the level are dropped; a trample
// follow also needs its destination to be free.
func (q *EffectQueue) Drain(c *Context) {
	pending := q.pending
	q.pending = nil
	for _, e := range pending {
		if !valid(e.Target) {
			continue
		}
		var ok bool
		switch e.Kind {
		case EffectBlink:
			ok = c.World.Blink(e.Target)
		case EffectTeleport:
			ok = c.World.Teleport(e.Target, true)
		case EffectBanish:
			c.World.Banish(e.Target, e.Source)
			ok = true
		case EffectBlood:
			if e.Amount > 0 {
				c.World.Bleed(e.Target.Pos(), e.Amount)
				ok = true
			}
		case EffectTrampleFollow:
			if c.World.ActorAt(e.Pos) == nil && c.World.Habitable(e.Target, e.Pos) {
				e.Target.SetPos(e.Pos)
				ok = true
			}
		}
		c.Logger.Debug("deferred effect",
			zap.Stringer("kind", e.Kind),
			zap.String("target", e.Target.ID()),
			zap.Bool("applied", ok),
		)
	}
}
