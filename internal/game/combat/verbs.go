package combat

import (
	"fmt"
	"math"
	"strings"

	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

type verbPair struct{ verb, degree string }

var (
	pierceDesc = []verbPair{
		{"spit", "like a pig"},
		{"skewer", "like a kebab"},
		{"stick", "like a pincushion"},
		{"perforate", "like a sieve"},
	}
	sliceDesc = []verbPair{
		{"open", "like a pillowcase"},
		{"slice", "like a ripe choko"},
		{"cut", "into ribbons"},
		{"carve", "like a ham"},
		{"chop", "into pieces"},
	}
	bludgeonDesc = []verbPair{
		{"crush", "like a grape"},
		{"beat", "like a drum"},
		{"hammer", "like a gong"},
		{"pound", "like an anvil"},
		{"flatten", "like a pancake"},
		{"crack", "like an egg"},
	}
	punchDesc = []verbPair{
		{"pound", "into fine dust"},
		{"pummel", "like a punching bag"},
		{"pulverise", ""},
		{"squash", "like an ant"},
	}
)

// Punctuation renders the damage suffix of a hit message: the amount in
// parentheses followed by more exclamation marks the harder the hit.
func (t Tuning) Punctuation(dmg int) string {
	var exclams string
	switch {
	case dmg < t.HitWeak:
		exclams = "."
	case dmg < t.HitMed:
		exclams = "!"
	case dmg < t.HitStrong:
		exclams = "!!"
	default:
		exclams = strings.Repeat("!", 3+int(math.Log2(float64(dmg/t.HitStrong))))
	}
	return fmt.Sprintf(" (%d)%s", dmg, exclams)
}

// AttackStrengthPunctuation is Punctuation with the stock thresholds.
func AttackStrengthPunctuation(dmg int) string {
	return DefaultTuning().Punctuation(dmg)
}

// EvasionMarginAdverb describes how badly a swing with the given margin missed.
func EvasionMarginAdverb(margin int) string {
	switch {
	case margin <= -20:
		return " completely"
	case margin <= -12:
		return ""
	case margin <= -6:
		return " closely"
	}
	return " barely"
}

func (m *MeleeAttack) punctuation(dmg int) string {
	return m.ctx.Tuning.Punctuation(dmg)
}

// setPlayerAttackVerb picks the verb and flourish for the player's hit.
func (m *MeleeAttack) setPlayerAttackVerb(damage int) {
	t := m.ctx.Tuning
	src := m.ctx.Src
	m.verbDegree = ""

	if m.weapon != nil && damage < t.HitWeak {
		m.attackVerb = "hit"
		return
	}
	pick := func(table []verbPair) {
		v := dice.Choose(src, table...)
		m.attackVerb, m.verbDegree = v.verb, v.degree
	}

	if m.weapon == nil {
		m.setUnarmedVerb(damage, pick)
		return
	}

	switch m.damageType {
	case inventory.DamagePiercing:
		switch {
		case damage < t.HitMed:
			m.attackVerb = "puncture"
		case damage < t.HitStrong:
			m.attackVerb = "impale"
		default:
			pick(pierceDesc)
		}
	case inventory.DamageSlicing, inventory.DamageChopping:
		switch {
		case damage < t.HitMed:
			m.attackVerb = "slash"
		case damage < t.HitStrong:
			m.attackVerb = "slice"
		case m.defender.Holiness().Has(HolyUndead) && !isNatural(m.defender):
			m.attackVerb, m.verbDegree = "fracture", "into splinters"
		default:
			pick(sliceDesc)
		}
	case inventory.DamageCrushing:
		switch {
		case damage < t.HitMed:
			if dice.OneChanceIn(src, 4) {
				m.attackVerb = "thump"
			} else {
				m.attackVerb = "sock"
			}
		case damage < t.HitStrong:
			m.attackVerb = "bludgeon"
		default:
			pick(bludgeonDesc)
		}
	case inventory.DamageWhipping:
		switch {
		case damage < t.HitMed:
			m.attackVerb = "whack"
		case damage < t.HitStrong:
			m.attackVerb = "thrash"
		case m.defender.Holiness().Has(HolyHoly | HolyNatural | HolyDemonic):
			m.attackVerb, m.verbDegree = "punish", ", causing immense pain"
		default:
			m.attackVerb = "devastate"
		}
	default:
		m.attackVerb = "hit"
	}
}

func (m *MeleeAttack) setUnarmedVerb(damage int, pick func([]verbPair)) {
	t := m.ctx.Tuning
	byDegree := func(weak, med, strong, dev string) {
		switch {
		case damage < t.HitWeak:
			m.attackVerb = weak
		case damage < t.HitMed:
			m.attackVerb = med
		case damage < t.HitStrong:
			m.attackVerb = strong
		default:
			m.attackVerb = dev
		}
	}
	switch {
	case m.damageType == inventory.DamageClawing:
		byDegree("scratch", "claw", "mangle", "eviscerate")
	case mutation(m.attacker, MutTentacles) > 0:
		byDegree("tentacle-slap", "bludgeon", "batter", "thrash")
	case damage < t.HitWeak:
		m.attackVerb = "hit"
	case damage < t.HitMed:
		m.attackVerb = "punch"
	case damage < t.HitStrong:
		m.attackVerb = "pummel"
	default:
		pick(punchDesc)
		if m.attackVerb == "pound" && m.defender.HasTrait(TraitBleeds) {
			m.attackVerb, m.verbDegree = "beat", "into a bloody pulp"
		}
	}
}

// setMountAttackVerb picks the verb for a mount's natural attack.
func (m *MeleeAttack) setMountAttackVerb(damage int) {
	t := m.ctx.Tuning
	m.verbDegree = ""
	switch m.mountKind() {
	case MountDrake, MountHydra:
		switch {
		case damage < t.HitWeak:
			m.attackVerb = "nips"
		case damage < t.HitMed:
			m.attackVerb = "bites"
		case damage < t.HitStrong:
			m.attackVerb = "chomps"
		default:
			m.attackVerb = "mauls"
		}
	case MountSpider:
		m.attackVerb = "stings"
	default:
		m.attackVerb = "bashes"
	}
}

// monsAttackVerb is the bare verb for a monster's natural attack type.
func (m *MeleeAttack) monsAttackVerb() string {
	switch m.attkType {
	case AttackHit, AttackWeaponOnly, AttackNone:
		return "hit"
	case AttackTentacleSlap:
		return "slap"
	case AttackTailSlap:
		return "tail-slap"
	case AttackTrunkSlap:
		return "trunk-slap"
	case AttackReachSting:
		return "sting"
	case AttackSpore:
		return "release spores at"
	case AttackEngulf:
		return "engulf"
	case AttackConstrict:
		return "grab"
	case AttackPounce:
		return "pounce on"
	}
	return m.attkType.String()
}

// monsAttackDesc describes how a monster's hit arrived.
func (m *MeleeAttack) monsAttackDesc() string {
	if !m.ctx.canSee(m.attacker) {
		return ""
	}
	var b strings.Builder
	if m.defender.Pos().Distance(m.attackPosition) > 1 {
		b.WriteString(" from afar")
	}
	if m.weapon != nil {
		b.WriteString(" with ")
		b.WriteString(article(m.weapon.Name()))
	}
	return b.String()
}

func article(name string) string {
	if name == "" {
		return name
	}
	switch name[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an " + name
	case '+', '-':
		return "a " + name
	}
	return "a " + name
}

// announceHit emits the hit line for this swing.
func (m *MeleeAttack) announceHit() {
	if !m.needsMessage || m.attkFlavour == FlavourCrush {
		return
	}
	switch {
	case m.mountAttack:
		m.ctx.emitf(ChannelCombat, "%s %s %s%s",
			m.atkName(DescThe), m.attackVerb, m.defender.Name(DescThe), m.punctuation(m.damageDone))
	case !m.attacker.IsPlayer():
		m.ctx.emitf(ChannelCombat, "%s %s %s%s%s",
			m.atkName(DescThe), m.attacker.ConjVerb(m.monsAttackVerb()),
			m.defenderName(true), m.monsAttackDesc(), m.punctuation(m.damageDone))
	default:
		degree := m.verbDegree
		if degree != "" && degree[0] != ' ' && degree[0] != ',' && degree[0] != '\'' {
			degree = " " + degree
		}
		m.ctx.emitf(ChannelCombat, "You %s %s%s%s",
			m.attackVerb, m.defender.Name(DescThe), degree, m.punctuation(m.damageDone))
	}
}

// atkName renders the attacker for a message.
func (m *MeleeAttack) atkName(desc DescLevel) string {
	if !m.ctx.canSee(m.attacker) && !m.attacker.IsPlayer() {
		if desc == DescIts {
			return "something's"
		}
		return "something"
	}
	return m.attacker.Name(desc)
}

// defenderName renders the defender, as a reflexive pronoun on a self-attack
// when allowReflexive is set.
func (m *MeleeAttack) defenderName(allowReflexive bool) string {
	if allowReflexive && m.attacker == m.defender {
		return m.attacker.Pronoun(PronounReflexive)
	}
	if !m.ctx.canSee(m.defender) && !m.defender.IsPlayer() {
		return "something"
	}
	return m.defender.Name(DescThe)
}

var irregularThird = map[string]string{
	"are":  "is",
	"have": "has",
	"do":   "does",
	"go":   "goes",
	"can":  "can",
}

// ThirdPerson conjugates verb for a singular third-person subject. Only the
// first word of a phrase changes, so "are shoved" becomes "is shoved".
func ThirdPerson(verb string) string {
	head, tail, found := strings.Cut(verb, " ")
	if found {
		return ThirdPerson(head) + " " + tail
	}
	if irr, ok := irregularThird[verb]; ok {
		return irr
	}
	for _, suf := range []string{"s", "sh", "ch", "x", "z"} {
		if strings.HasSuffix(verb, suf) {
			return verb + "es"
		}
	}
	if n := len(verb); n > 1 && verb[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(verb[n-2])) {
		return verb[:n-1] + "ies"
	}
	return verb + "s"
}
