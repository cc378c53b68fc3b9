package combat

import "github.com/cory-johannsen/melee/internal/game/inventory"

// Hooks into attack internals for the external tests.

func (m *MeleeAttack) NewRiposte(slot int) *MeleeAttack { return m.newRiposte(slot) }

func (m *MeleeAttack) IsRiposte() bool { return m.isRiposte }

func (m *MeleeAttack) ScheduleMiscast(level int, target Actor) bool {
	return m.miscast.schedule(level, SchoolRandom, target)
}

func (m *MeleeAttack) MiscastPending() bool { return m.miscast.pending() }

func (m *MeleeAttack) DoMiscast() { m.doMiscast() }

func (m *MeleeAttack) SetDamageDone(n int) { m.damageDone = n }

func (m *MeleeAttack) ApplyBrand(b inventory.Brand) bool { return m.applyBrand(b, "") }

func (m *MeleeAttack) PlayerAuxUnarmed() bool { return m.playerAuxUnarmed() }

func (m *MeleeAttack) Resolve() bool { return m.resolve() }

func (m *MeleeAttack) AttackShieldBlocked() bool { return m.attackShieldBlocked(true) }

func (m *MeleeAttack) HandlePhaseBlocked() bool { return m.handlePhaseBlocked() }

func (m *MeleeAttack) HandlePhaseDamaged() bool { return m.handlePhaseDamaged() }

func (m *MeleeAttack) MonsApplyAttackFlavour() { m.monsApplyAttackFlavour() }

func (m *MeleeAttack) ApplyStaffDamage() bool { return m.applyStaffDamage() }

func (m *MeleeAttack) DoKnockback(trample bool) bool { return m.doKnockback(trample) }

func (m *MeleeAttack) SpecialDamageFlavour() (int, BeamFlavour) {
	return m.specialDamage, m.specialDamageFlavour
}

func (q *EffectQueue) Pending() []Effect { return append([]Effect(nil), q.pending...) }

func (m *MeleeAttack) PendingEffects() []Effect { return m.effects.Pending() }

func (m *MeleeAttack) DrainEffects() { m.effects.Drain(m.ctx) }

func ApplyChaosBeam(c *Context, target, source Actor, flavour BeamFlavour, power int) bool {
	c.fill()
	return applyChaosBeam(c, target, source, flavour, power, nil, nil)
}

func ApplyChaoticDebuff(c *Context, victim, source Actor, queue *EffectQueue) bool {
	c.fill()
	return applyChaoticDebuff(c, victim, 10, source, queue, newMiscastSlot())
}
