package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// runUnrand hands the hit to the artefact's scripted hook.
func (m *MeleeAttack) runUnrand(died bool, damage int) bool {
	if m.ctx.Unrands == nil || m.weapon == nil || m.weapon.Def.Unrand == "" {
		return false
	}
	ran := m.ctx.Unrands.MeleeEffects(m.spanCtx, UnrandHit{
		Weapon:       m.weapon,
		Attacker:     m.attacker,
		Defender:     m.defender,
		DefenderDied: died,
		Damage:       damage,
		MountDefend:  m.mountDefend,
		Visible:      m.needsMessage,
		Src:          m.ctx.Src,
		Messages:     m.ctx.Messages,
	})
	if ran {
		m.ctx.Logger.Debug("unrand melee effects",
			zap.String("unrand", m.weapon.Def.Unrand),
			zap.Bool("died", died),
			zap.Int("damage", damage),
		)
	}
	return ran
}

// checkUnrand runs the wielded artefact's on-hit effect and reports whether
// the defender died from it. Wyrmbane's kill effect waits for the killed phase.
func (m *MeleeAttack) checkUnrand() bool {
	if m.ctx.Unrands == nil || m.weapon == nil || m.weapon.Def.Unrand == "" {
		return false
	}
	died := !m.defender.Alive()
	switch m.weapon.Def.Unrand {
	case inventory.UnrandWyrmbane:
		if died {
			return true
		}
	case inventory.UnrandFinisher:
		if m.damageDone > 0 {
			dmg := 2
			if m.cleaving {
				dmg = 1
			}
			m.runUnrand(died, dmg)
		}
		return !m.defender.Alive()
	}
	m.runUnrand(died, m.damageDone)
	return !m.defender.Alive()
}
