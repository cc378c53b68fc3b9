package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/dice"
)

// RegisterModules registers the engine.* Lua table into L. Every function
// acts on the hit currently being resolved and raises a Lua error when
// called outside a hook.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"random2":         m.luaRandom2,
		"x_chance_in_y":   m.luaXChanceInY,
		"message":         m.luaMessage,
		"hurt":            m.luaHurt,
		"alive":           m.luaAlive,
		"conj_verb":       m.luaConjVerb,
		"reflexive":       m.luaReflexive,
		"set_weapon_plus": m.luaSetWeaponPlus,
		"log":             m.luaLog,
	})
	L.SetGlobal("engine", engine)
}

func (m *Manager) hit(L *lua.LState) *combat.UnrandHit {
	if m.cur == nil {
		L.RaiseError("engine functions are only available inside a melee hook")
	}
	return m.cur
}

// actor resolves the role argument at position n: "attacker" or "defender".
func (m *Manager) actor(L *lua.LState, n int) combat.Actor {
	hit := m.hit(L)
	switch role := L.CheckString(n); role {
	case "attacker":
		return hit.Attacker
	case "defender":
		return hit.Defender
	default:
		L.ArgError(n, "role must be \"attacker\" or \"defender\"")
	}
	return nil
}

func (m *Manager) luaRandom2(L *lua.LState) int {
	hit := m.hit(L)
	L.Push(lua.LNumber(dice.Random2(hit.Src, L.CheckInt(1))))
	return 1
}

func (m *Manager) luaXChanceInY(L *lua.LState) int {
	hit := m.hit(L)
	L.Push(lua.LBool(dice.XChanceInY(hit.Src, L.CheckInt(1), L.CheckInt(2))))
	return 1
}

func (m *Manager) luaMessage(L *lua.LState) int {
	hit := m.hit(L)
	if hit.Messages != nil {
		hit.Messages.Emit(combat.ChannelCombat, combat.Capitalise(L.CheckString(1)))
	}
	return 0
}

// luaHurt damages the named combatant on behalf of the other one and returns
// the damage taken.
func (m *Manager) luaHurt(L *lua.LState) int {
	hit := m.hit(L)
	target := m.actor(L, 1)
	amount := L.CheckInt(2)
	if amount < 0 {
		L.ArgError(2, "amount must be >= 0")
	}
	source := hit.Attacker
	if target == hit.Attacker {
		source = hit.Defender
	}
	L.Push(lua.LNumber(target.Hurt(source, amount, combat.BeamNone)))
	return 1
}

func (m *Manager) luaAlive(L *lua.LState) int {
	L.Push(lua.LBool(m.actor(L, 1).Alive()))
	return 1
}

func (m *Manager) luaConjVerb(L *lua.LState) int {
	a := m.actor(L, 1)
	L.Push(lua.LString(a.ConjVerb(L.CheckString(2))))
	return 1
}

func (m *Manager) luaReflexive(L *lua.LState) int {
	L.Push(lua.LString(m.actor(L, 1).Pronoun(combat.PronounReflexive)))
	return 1
}

func (m *Manager) luaSetWeaponPlus(L *lua.LState) int {
	hit := m.hit(L)
	hit.Weapon.Plus = L.CheckInt(1)
	return 0
}

func (m *Manager) luaLog(L *lua.LState) int {
	hit := m.hit(L)
	m.logger.Debug("unrand script",
		zap.String("unrand", hit.Weapon.Def.Unrand),
		zap.String("message", L.CheckString(1)),
	)
	return 0
}
