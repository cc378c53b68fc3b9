package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// doMiscast fires the pending miscast, if any. The slot is shared with every
// child attack, so whichever call reaches it first consumes it.
//
// Precondition: a pending miscast has a target and a level in 0..3.
// Postcondition: the slot never fires again.
func (m *MeleeAttack) doMiscast() {
	s := m.miscast
	if !s.pending() {
		return
	}
	if s.target == nil {
		panic("combat: doMiscast precondition violated: pending miscast has no target")
	}
	if s.level < 0 || s.level > 3 {
		panic(fmt.Sprintf("combat: doMiscast precondition violated: level %d outside 0..3", s.level))
	}
	target := s.target
	s.fired = true
	if !target.Alive() || target.IsPlayer() && target.Banished() {
		m.ctx.Logger.Debug("miscast dropped", zap.String("target", target.ID()))
		return
	}

	cause := m.atkName(DescThe)
	if m.attacker.IsPlayer() && !m.mountAttack && m.weapon != nil && m.weapon.Brand == inventory.BrandChaos {
		cause = "a chaos effect from your " + m.weapon.Name()
	}
	m.ctx.Logger.Debug("miscast",
		zap.String("target", target.ID()),
		zap.Int("level", s.level),
		zap.String("school", string(s.school)),
	)
	m.ctx.Miscaster.Miscast(target, s.level, s.school, m.attacker, cause)
}
