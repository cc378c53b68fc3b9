package combat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// AttackKind labels how an attack came about.
type AttackKind string

const (
	KindMelee   AttackKind = "melee"
	KindRiposte AttackKind = "riposte"
	KindCleave  AttackKind = "cleave"
)

// Variant holds the formulas that differ between player, monster and mount
// attackers. The phase sequence itself is shared.
type Variant struct {
	Name   string
	toHit  func(m *MeleeAttack, random bool) int
	damage func(m *MeleeAttack) int
	verb   func(m *MeleeAttack, damage int)
	// aux is set when the attacker may follow up with unarmed auxiliary attacks.
	aux bool
}

var (
	playerVariant = Variant{
		Name:   "player",
		toHit:  func(m *MeleeAttack, random bool) int { return m.calcToHit(random, false) },
		damage: (*MeleeAttack).playerDamage,
		verb:   (*MeleeAttack).setPlayerAttackVerb,
		aux:    true,
	}
	monsterVariant = Variant{
		Name:   "monster",
		toHit:  func(m *MeleeAttack, random bool) int { return m.calcToHit(random, false) },
		damage: (*MeleeAttack).monsterDamage,
		verb:   func(m *MeleeAttack, _ int) { m.attackVerb = m.monsAttackVerb() },
	}
	mountVariant = Variant{
		Name:   "mount",
		toHit:  func(m *MeleeAttack, random bool) int { return m.calcToHit(random, false) },
		damage: (*MeleeAttack).mountDamage,
		verb:   (*MeleeAttack).setMountAttackVerb,
	}
)

// miscastSlot is the deferred miscast shared by a top-level attack and every
// child it spawns. At most one miscast fires per slot.
type miscastSlot struct {
	level  int
	school SpellSchool
	target Actor
	fired  bool
}

func newMiscastSlot() *miscastSlot {
	return &miscastSlot{level: -1}
}

// schedule records a miscast unless one is already pending or has fired.
func (s *miscastSlot) schedule(level int, school SpellSchool, target Actor) bool {
	if s.fired || s.level != -1 {
		return false
	}
	s.level, s.school, s.target = level, school, target
	return true
}

// pending reports whether a miscast is waiting to run.
func (s *miscastSlot) pending() bool {
	return !s.fired && s.level != -1
}

// cancel drops a pending miscast.
func (s *miscastSlot) cancel() {
	if !s.fired {
		s.level = -1
		s.target = nil
	}
}

// worklist runs child attacks to completion on behalf of a top-level attack.
type worklist struct {
	pending []*MeleeAttack
	spawned int
	limit   int
}

// run pushes child and drains it before returning. It returns false without
// running anything once the child budget is spent.
func (w *worklist) run(child *MeleeAttack) bool {
	if child == nil || w.spawned >= w.limit {
		return false
	}
	w.spawned++
	mark := len(w.pending)
	w.pending = append(w.pending, child)
	for len(w.pending) > mark {
		next := w.pending[len(w.pending)-1]
		w.pending = w.pending[:len(w.pending)-1]
		next.runChild()
	}
	return true
}

// MeleeAttack is one melee swing from attacker at defender, resolved by Attack.
// A MeleeAttack is single use and not safe for concurrent use.
type MeleeAttack struct {
	ID       uuid.UUID
	ParentID uuid.UUID
	DuelID   uuid.UUID
	Kind     AttackKind

	ctx     *Context
	variant Variant
	spanCtx context.Context

	attacker, defender, responsible Actor

	attackNumber          int
	effectiveAttackNumber int
	cleaving              bool
	isRiposte             bool
	mountAttack           bool
	mountDefend           bool
	attackPosition        Pos

	weapon      *inventory.Weapon
	wpnSkill    inventory.Skill
	damageType  inventory.DamageType
	damageBrand inventory.Brand
	attkType    AttackType
	attkFlavour AttackFlavour
	attkDamage  int

	toHit    int
	evMargin int

	damageDone           int
	specialDamage        int
	auxDamage            int
	specialDamageFlavour BeamFlavour
	specialDamageMessage string
	resistMessage        string
	obviousEffect        bool

	stabAttempt bool
	stabBonus   int

	attackVerb string
	verbDegree string

	attackOccurred  bool
	didHit          bool
	perceivedAttack bool
	cancelRemaining bool
	needsMessage    bool
	fakeChaos       bool
	killedHandled   bool
	blocked         bool
	quiet           bool

	auxAttack auxKind
	auxSource string

	cleaveTargets []Actor

	miscast *miscastSlot
	effects *EffectQueue
	work    *worklist
	records *[]AttackRecord
}

// NewMeleeAttack prepares a swing from attacker at defender using attack slot
// slot. effectiveSlot is the position of this swing within the attacker's
// round; cleaving marks a secondary cleave swing.
//
// Precondition: c, attacker and defender must not be nil; c.Src must not be nil.
// Postcondition: the returned attack has its to-hit rolled and is ready for Attack.
func NewMeleeAttack(c *Context, attacker, defender Actor, slot, effectiveSlot int, cleaving bool) *MeleeAttack {
	if c == nil || c.Src == nil {
		panic("combat: NewMeleeAttack precondition violated: context with a dice source is required")
	}
	if attacker == nil || defender == nil {
		panic("combat: NewMeleeAttack precondition violated: attacker and defender must not be nil")
	}
	c.fill()
	records := make([]AttackRecord, 0, 4)
	m := &MeleeAttack{
		ID:      uuid.New(),
		Kind:    KindMelee,
		ctx:     c,
		spanCtx: c.Ctx,
		miscast: newMiscastSlot(),
		effects: &EffectQueue{},
		work:    &worklist{limit: c.Tuning.MaxChildAttacks},
		records: &records,
	}
	m.init(attacker, defender, slot, effectiveSlot, cleaving)
	return m
}

// newChild builds an attack that shares the parent's deferred state.
func (m *MeleeAttack) newChild(kind AttackKind, attacker, defender Actor, slot, effectiveSlot int, cleaving bool) *MeleeAttack {
	child := &MeleeAttack{
		ID:       uuid.New(),
		ParentID: m.ID,
		DuelID:   m.DuelID,
		Kind:     kind,
		ctx:      m.ctx,
		spanCtx:  m.spanCtx,
		miscast:  m.miscast,
		effects:  m.effects,
		work:     m.work,
		records:  m.records,
	}
	child.init(attacker, defender, slot, effectiveSlot, cleaving)
	return child
}

// newRiposte builds the counter-attack defender makes after dodging m. A
// riposte never yields another riposte, so newRiposte returns nil when m is
// itself one.
func (m *MeleeAttack) newRiposte(slot int) *MeleeAttack {
	if m.isRiposte {
		return nil
	}
	child := m.newChild(KindRiposte, m.defender, m.attacker, slot, 3, false)
	child.isRiposte = true
	return child
}

func (m *MeleeAttack) init(attacker, defender Actor, slot, effectiveSlot int, cleaving bool) {
	m.attacker, m.defender, m.responsible = attacker, defender, attacker
	m.attackNumber = slot
	m.effectiveAttackNumber = effectiveSlot
	m.cleaving = cleaving
	m.attackPosition = attacker.Pos()
	m.specialDamageFlavour = BeamNone

	var isMount bool
	_, isMount = asMount(attacker)
	m.mountAttack = isMount
	if mnt, ok := asMount(attacker); ok && mnt.Rider() != nil {
		m.responsible = mnt.Rider()
	}
	_, m.mountDefend = asMount(defender)

	switch {
	case m.mountAttack:
		m.variant = mountVariant
	case attacker.IsPlayer():
		m.variant = playerVariant
	default:
		m.variant = monsterVariant
	}

	if !m.mountAttack {
		m.weapon = attacker.Weapon(slot)
	}
	m.wpnSkill = inventory.SkillUnarmed
	if m.weapon != nil {
		m.wpnSkill = m.weapon.Def.Skill
	}
	if p, ok := asPlayer(attacker); ok && !m.mountAttack && p.Form().UsesXL() {
		m.wpnSkill = inventory.SkillFighting
	}

	m.attkType, m.attkFlavour = AttackHit, FlavourPlain
	if mon, ok := asMonster(attacker); ok && !m.mountAttack {
		spec := mon.Attack(slot)
		m.attkType, m.attkFlavour = spec.Type, spec.Flavour
		if xl := mon.ExperienceLevel(); xl > 0 {
			m.attkDamage = dice.DivRandRound(m.ctx.Src, spec.Damage*mon.HitDice(), xl)
		} else {
			m.attkDamage = spec.Damage
		}
		if m.attkType == AttackWeaponOnly {
			if m.weapon != nil {
				m.attkType = AttackHit
			} else {
				m.attkType = AttackNone
			}
		}
	}

	m.damageBrand = inventory.BrandNone
	switch {
	case m.weapon != nil:
		m.damageBrand = m.weapon.Brand
	case attacker.IsPlayer() && has(attacker, condition.ConfusingTouch):
		m.damageBrand = inventory.BrandConfuse
	case m.mountAttack && m.mountKind() == MountSpider:
		m.damageBrand = inventory.BrandVenom
	}
	m.damageType = m.pickDamageType()

	m.needsMessage = attacker.Visible() || defender.Visible()
	m.toHit = m.variant.toHit(m, true)
}

// pickDamageType settles the physical damage type for this swing.
func (m *MeleeAttack) pickDamageType() inventory.DamageType {
	if m.weapon != nil && len(m.weapon.Def.DamageTypes) > 0 {
		return dice.Choose(m.ctx.Src, m.weapon.Def.DamageTypes...)
	}
	if mutation(m.attacker, MutClaws) > 0 {
		return inventory.DamageClawing
	}
	switch m.attkType {
	case AttackClaw, AttackRake:
		return inventory.DamageClawing
	case AttackBite, AttackSting, AttackGore, AttackReachSting, AttackSnap, AttackClamp:
		return inventory.DamagePiercing
	}
	return inventory.DamageCrushing
}

func beamForDamageType(dt inventory.DamageType) BeamFlavour {
	switch dt {
	case inventory.DamageSlicing, inventory.DamageChopping, inventory.DamageWhipping, inventory.DamageClawing:
		return BeamSlash
	case inventory.DamagePiercing:
		return BeamPierce
	}
	return BeamBludgeon
}

// Attack resolves the whole swing, including any ripostes, cleaves and
// auxiliary attacks it provokes, and reports whether an attack took place.
func (m *MeleeAttack) Attack() bool {
	ctx, span := m.ctx.Tracer.Start(m.spanCtx, "melee.attack", trace.WithAttributes(
		attribute.String("attacker", m.attacker.Name(DescPlain)),
		attribute.String("defender", m.defender.Name(DescPlain)),
	))
	m.spanCtx = ctx
	defer span.End()

	occurred := m.resolve()

	m.doMiscast()
	m.effects.Drain(m.ctx)
	m.writeJournal()

	span.SetAttributes(
		attribute.Bool("hit", m.didHit),
		attribute.Int("damage", m.damageDone),
		attribute.String("brand", m.damageBrand.String()),
		attribute.Int("children", m.work.spawned),
	)
	return occurred
}

// runChild resolves a riposte or cleave swing under its own span.
func (m *MeleeAttack) runChild() {
	ctx, span := m.ctx.Tracer.Start(m.spanCtx, "melee."+string(m.Kind))
	m.spanCtx = ctx
	defer span.End()
	m.resolve()
	span.SetAttributes(attribute.Bool("hit", m.didHit), attribute.Int("damage", m.damageDone))
}

// resolve runs the phase sequence for this swing.
func (m *MeleeAttack) resolve() bool {
	defer m.record()

	if !m.cleaving {
		m.cleaveSetup()
		if !m.handlePhaseAttempted() {
			return false
		}
	}

	if !m.attacker.Alive() {
		return false
	}
	if !m.defender.Alive() {
		m.handlePhaseKilled()
		m.handlePhaseEnd()
		return m.attackOccurred
	}

	ev := m.defender.Evasion()
	m.evMargin = TestHit(m.ctx.Src, m.toHit, ev, true)
	shieldBlocked := m.attackShieldBlocked(true)

	if m.attacker.IsPlayer() && !m.mountAttack && m.attacker != m.defender {
		m.playerStabCheck()
		if m.stabAttempt && m.stabBonus > 0 {
			m.evMargin = AutomaticHit
			shieldBlocked = false
		}
	}

	if shieldBlocked {
		m.blocked = true
		m.handlePhaseBlocked()
	} else {
		if m.attacker != m.defender && m.adjacent() && !m.isRiposte {
			m.doSpines()
			if !m.attacker.Alive() || !m.defender.Alive() {
				return false
			}
		}

		if m.evMargin >= 0 {
			cont := m.handlePhaseHit()
			m.attackerSustainPassiveDamage()
			if !cont {
				if !m.defender.Alive() {
					m.handlePhaseKilled()
				}
				m.handlePhaseEnd()
				return false
			}
		} else {
			m.handlePhaseDodged()
		}
	}

	if m.attacker.IsPlayer() && m.ParentID == uuid.Nil {
		m.doMiscast()
	}
	if !m.defender.Banished() {
		m.handleNoise(m.defender.Pos())
	}
	m.alertDefender()

	if !m.defender.Alive() {
		m.handlePhaseKilled()
	}
	if !m.cancelRemaining {
		m.handlePhaseAux()
	}
	m.handlePhaseEnd()

	return m.attackOccurred
}

// record appends this swing's outcome to the shared journal buffer.
func (m *MeleeAttack) record() {
	weapon := ""
	if m.weapon != nil {
		weapon = m.weapon.Def.ID
	}
	rec := AttackRecord{
		ID:         m.ID,
		DuelID:     m.DuelID,
		ParentID:   m.ParentID,
		Kind:       string(m.Kind),
		Attacker:   m.attacker.ID(),
		Defender:   m.defender.ID(),
		Weapon:     weapon,
		Brand:      m.damageBrand.String(),
		ToHit:      m.toHit,
		EvMargin:   m.evMargin,
		Damage:     m.damageDone,
		Special:    m.specialDamage,
		Hit:        m.didHit,
		Blocked:    m.blocked,
		Killed:     !m.defender.Alive(),
		OccurredAt: time.Now().UTC(),
	}
	*m.records = append(*m.records, rec)
	m.ctx.Logger.Debug("melee attack resolved",
		zap.String("kind", rec.Kind),
		zap.String("attacker", rec.Attacker),
		zap.String("defender", rec.Defender),
		zap.Int("to_hit", rec.ToHit),
		zap.Int("ev_margin", rec.EvMargin),
		zap.Int("damage", rec.Damage),
		zap.String("brand", rec.Brand),
		zap.Bool("hit", rec.Hit),
	)
}

// writeJournal flushes the buffered records when a journal is configured.
func (m *MeleeAttack) writeJournal() {
	if m.ctx.Journal == nil {
		return
	}
	for _, rec := range *m.records {
		if err := m.ctx.Journal.Record(m.spanCtx, rec); err != nil {
			m.ctx.Logger.Warn("writing attack journal", zap.String("attack_id", rec.ID.String()), zap.Error(err))
			return
		}
	}
	*m.records = (*m.records)[:0]
}

// Records returns the outcomes of this swing and every child it spawned that
// have not yet been flushed to a journal.
func (m *MeleeAttack) Records() []AttackRecord {
	out := make([]AttackRecord, len(*m.records))
	copy(out, *m.records)
	return out
}

// ToHit returns the to-hit rolled when the attack was prepared.
func (m *MeleeAttack) ToHit() int { return m.toHit }

// DamageDone returns the main damage dealt by this swing.
func (m *MeleeAttack) DamageDone() int { return m.damageDone }

// SpecialDamage returns the brand damage from the last brand application.
func (m *MeleeAttack) SpecialDamage() int { return m.specialDamage }

// Hit reports whether the swing connected.
func (m *MeleeAttack) Hit() bool { return m.didHit }

// ChildAttacks returns how many ripostes and cleaves this swing spawned.
func (m *MeleeAttack) ChildAttacks() int { return m.work.spawned }

func (m *MeleeAttack) adjacent() bool {
	return m.defender.Pos().Adjacent(m.attackPosition)
}

func (m *MeleeAttack) canReach() bool {
	return m.attkType == AttackHit && m.weapon != nil && m.weapon.Def.Reach ||
		flavourHasReach(m.attkFlavour)
}

func (m *MeleeAttack) usingWeapon() bool {
	return m.weapon != nil
}

func (m *MeleeAttack) calcToHit(random, aux bool) int {
	weapon := m.weapon
	if aux {
		weapon = nil
	}
	return CalcToHit(m.ctx, m.attacker, m.defender, weapon, random, aux)
}

// CalcDamage rolls the damage this swing would deal after armour, without
// applying it.
//
// Postcondition: result >= 0.
func (m *MeleeAttack) CalcDamage() int {
	if m.attkFlavour == FlavourCrush {
		return 0
	}
	return max(0, m.variant.damage(m))
}

func (m *MeleeAttack) mountKind() MountKind {
	if mnt, ok := asMount(m.attacker); ok {
		return mnt.Kind()
	}
	if mnt, ok := asMount(m.defender); ok {
		return mnt.Kind()
	}
	return MountNone
}

// rider returns the player behind a mount attacker, or the attacker itself.
func (m *MeleeAttack) rider() PlayerActor {
	if mnt, ok := asMount(m.attacker); ok {
		return mnt.Rider()
	}
	p, _ := asPlayer(m.attacker)
	return p
}
