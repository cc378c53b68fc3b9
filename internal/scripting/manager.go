package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/combat"
)

// hookSuffix names the global a script defines for an artefact: the hook for
// the "woe" unrand is woe_melee_effects.
const hookSuffix = "_melee_effects"

// HookName returns the Lua global that holds unrand's melee hook.
func HookName(unrand string) string {
	return unrand + hookSuffix
}

// Manager owns the sandboxed VM that holds every artefact hook and
// implements combat.UnrandHooks.
//
// Manager is safe for concurrent use. The VM is single-threaded, so hook
// calls are serialised.
type Manager struct {
	mu        sync.Mutex
	L         *lua.LState
	instLimit int
	logger    *zap.Logger
	scripts   []string

	// cur is the hit being resolved while a hook runs; nil otherwise.
	cur *combat.UnrandHit
}

var _ combat.UnrandHooks = (*Manager)(nil)

// NewManager creates a Manager with an empty VM.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 uses DefaultInstructionLimit).
// Postcondition: Returns a non-nil Manager with the engine module registered.
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	if logger == nil {
		panic("scripting: NewManager precondition violated: logger must not be nil")
	}
	m := &Manager{
		L:         NewSandboxedState(instLimit),
		instLimit: instLimit,
		logger:    logger,
	}
	m.L.RemoveContext()
	m.RegisterModules(m.L)
	return m
}

// LoadDir executes every *.lua file in dir in lexicographic order. Each file
// gets its own instruction budget.
//
// Precondition: dir must be a readable directory.
// Postcondition: On error no further files are loaded; already loaded hooks stay defined.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range luaFiles {
		release := withBudget(m.L, context.Background(), m.instLimit)
		err := m.L.DoFile(path)
		release()
		if err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
		m.scripts = append(m.scripts, filepath.Base(path))
	}
	m.logger.Debug("unrand scripts loaded", zap.Strings("files", m.scripts))
	return nil
}

// LoadString executes src as a chunk named name.
func (m *Manager) LoadString(name, src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	release := withBudget(m.L, context.Background(), m.instLimit)
	defer release()
	if err := m.L.DoString(src); err != nil {
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	m.scripts = append(m.scripts, name)
	return nil
}

// Hooks returns the unrand ids that have a melee hook defined, sorted.
func (m *Manager) Hooks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	m.L.G.Global.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok || v.Type() != lua.LTFunction {
			return
		}
		if id, found := strings.CutSuffix(string(name), hookSuffix); found && id != "" {
			out = append(out, id)
		}
	})
	sort.Strings(out)
	return out
}

// MeleeEffects runs hit.Weapon's artefact hook. It reports false when no hook
// is defined. Lua runtime errors and exhausted budgets are logged at Warn and
// still count as the hook having run.
//
// Precondition: hit.Weapon, hit.Attacker, hit.Defender and hit.Src must be non-nil.
func (m *Manager) MeleeEffects(ctx context.Context, hit combat.UnrandHit) bool {
	if hit.Weapon == nil || hit.Attacker == nil || hit.Defender == nil || hit.Src == nil {
		panic("scripting: MeleeEffects precondition violated: weapon, combatants and source are required")
	}
	unrand := hit.Weapon.Def.Unrand
	if unrand == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fn := m.L.GetGlobal(HookName(unrand))
	if fn.Type() != lua.LTFunction {
		return false
	}

	m.cur = &hit
	defer func() { m.cur = nil }()
	release := withBudget(m.L, ctx, m.instLimit)
	defer release()

	if err := m.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, m.hitTable(&hit)); err != nil {
		m.logger.Warn("scripting: unrand hook failed",
			zap.String("unrand", unrand),
			zap.String("hook", HookName(unrand)),
			zap.Error(err),
		)
	}
	return true
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L.Close()
}

// hitTable snapshots hit for the hook's argument.
func (m *Manager) hitTable(hit *combat.UnrandHit) *lua.LTable {
	L := m.L
	t := L.NewTable()
	weapon := L.NewTable()
	weapon.RawSetString("id", lua.LString(hit.Weapon.Def.ID))
	weapon.RawSetString("name", lua.LString(hit.Weapon.Name()))
	weapon.RawSetString("plus", lua.LNumber(hit.Weapon.Plus))
	t.RawSetString("weapon", weapon)
	t.RawSetString("unrand", lua.LString(hit.Weapon.Def.Unrand))
	t.RawSetString("attacker", actorTable(L, hit.Attacker))
	t.RawSetString("defender", actorTable(L, hit.Defender))
	t.RawSetString("defender_died", lua.LBool(hit.DefenderDied))
	t.RawSetString("damage", lua.LNumber(hit.Damage))
	t.RawSetString("mount_defend", lua.LBool(hit.MountDefend))
	t.RawSetString("visible", lua.LBool(hit.Visible))
	t.RawSetString("same_actor", lua.LBool(hit.Attacker == hit.Defender))
	return t
}

func actorTable(L *lua.LState, a combat.Actor) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(a.ID()))
	t.RawSetString("name", lua.LString(a.Name(combat.DescThe)))
	t.RawSetString("hp", lua.LNumber(a.HP()))
	t.RawSetString("max_hp", lua.LNumber(a.MaxHP()))
	t.RawSetString("hit_dice", lua.LNumber(a.HitDice()))
	t.RawSetString("is_player", lua.LBool(a.IsPlayer()))
	t.RawSetString("dragon", lua.LBool(a.HasTrait(combat.TraitDragonkind)))
	t.RawSetString("summoned", lua.LBool(a.HasTrait(combat.TraitSummoned)))
	return t
}
