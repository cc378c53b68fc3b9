package sim_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/config"
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/scripting"
	"github.com/cory-johannsen/melee/internal/sim"
)

func repoRoot(t testing.TB) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "module root not found")
		dir = parent
	}
}

func shippedContent(t testing.TB) *sim.Content {
	t.Helper()
	content, err := sim.LoadContentFrom(filepath.Join(repoRoot(t), "content"))
	require.NoError(t, err)
	return content
}

func stockTuning() combat.Tuning {
	cfg, err := config.LoadDefaults()
	if err != nil {
		panic(err)
	}
	return sim.TuningFrom(cfg.Combat)
}

type memJournal struct {
	mu      sync.Mutex
	attacks []combat.AttackRecord
	duels   map[uuid.UUID]uint64
}

func (j *memJournal) Record(_ context.Context, rec combat.AttackRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attacks = append(j.attacks, rec)
	return nil
}

func (j *memJournal) RecordDuel(_ context.Context, res combat.DuelResult, seed uint64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.duels == nil {
		j.duels = make(map[uuid.UUID]uint64)
	}
	j.duels[res.DuelID] = seed
	return nil
}

func TestParseFighter(t *testing.T) {
	cases := []struct {
		in   string
		want sim.FighterSpec
	}{
		{"orc_warrior", sim.FighterSpec{Monster: "orc_warrior"}},
		{"monster:hydra", sim.FighterSpec{Monster: "hydra"}},
		{"player:human/fighter", sim.FighterSpec{Species: "human", Job: "fighter", XL: 1}},
		{"player:troll/berserker@12", sim.FighterSpec{Species: "troll", Job: "berserker", XL: 12}},
	}
	for _, tc := range cases {
		got, err := sim.ParseFighter(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseFighter_Rejects(t *testing.T) {
	for _, in := range []string{"monster:", "player:human", "player:/fighter", "player:human/fighter@0",
		"player:human/fighter@28", "player:human/fighter@x", "ghost:boo"} {
		_, err := sim.ParseFighter(in)
		assert.Error(t, err, in)
	}
}

func TestParseFighter_StringRoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var spec sim.FighterSpec
		if rapid.Bool().Draw(rt, "player") {
			spec = sim.FighterSpec{
				Species: rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "species"),
				Job:     rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "job"),
				XL:      rapid.IntRange(1, 27).Draw(rt, "xl"),
			}
		} else {
			spec = sim.FighterSpec{Monster: rapid.StringMatching(`[a-z_]{1,12}`).Draw(rt, "monster")}
		}
		got, err := sim.ParseFighter(spec.String())
		if err != nil {
			rt.Fatalf("parse %q: %v", spec.String(), err)
		}
		if got != spec {
			rt.Fatalf("round trip %v != %v", got, spec)
		}
	})
}

func TestLoadContent_MissingDir(t *testing.T) {
	_, err := sim.LoadContentFrom(t.TempDir())
	assert.Error(t, err)
}

func TestRunner_RejectsBadOptions(t *testing.T) {
	r := sim.NewRunner(shippedContent(t), stockTuning(), zaptest.NewLogger(t))
	_, err := r.Run(context.Background(), sim.Options{Duels: 0, MaxRounds: 10})
	assert.Error(t, err)
	_, err = r.Run(context.Background(), sim.Options{Duels: 1, MaxRounds: 0})
	assert.Error(t, err)
}

func TestRunner_UnknownFighter(t *testing.T) {
	r := sim.NewRunner(shippedContent(t), stockTuning(), zaptest.NewLogger(t))
	_, err := r.Run(context.Background(), sim.Options{
		Left:  sim.FighterSpec{Monster: "balrog"},
		Right: sim.FighterSpec{Monster: "orc_warrior"},
		Duels: 1, MaxRounds: 10,
	})
	assert.ErrorIs(t, err, sim.ErrUnknownFighter)
}

func TestRunner_TalliesAddUp(t *testing.T) {
	r := sim.NewRunner(shippedContent(t), stockTuning(), zaptest.NewLogger(t))
	sum, err := r.Run(context.Background(), sim.Options{
		Left:  sim.FighterSpec{Species: "human", Job: "fighter", XL: 8},
		Right: sim.FighterSpec{Monster: "orc_warrior"},
		Duels: 10, Seed: 100, MaxRounds: 100, Transcript: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, sum.Duels)
	assert.Equal(t, sum.Duels, sum.LeftWins+sum.RightWins+sum.Draws)
	require.Len(t, sum.Outcomes, 10)
	for i, out := range sum.Outcomes {
		assert.Equal(t, uint64(100+i), out.Seed)
		assert.Equal(t, "hero", out.LeftID)
		assert.NotEmpty(t, out.Transcript)
		assert.LessOrEqual(t, out.Result.Rounds, 100)
	}
}

func TestRunner_SeedReproducesDuel(t *testing.T) {
	content := shippedContent(t)
	opts := sim.Options{
		Left:  sim.FighterSpec{Species: "minotaur", Job: "berserker", XL: 10},
		Right: sim.FighterSpec{Monster: "skeletal_warrior"},
		Duels: 3, Seed: 7, MaxRounds: 60, Transcript: true,
	}
	first, err := sim.NewRunner(content, stockTuning(), zap.NewNop()).Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := sim.NewRunner(content, stockTuning(), zap.NewNop()).Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, second.Outcomes, len(first.Outcomes))
	for i := range first.Outcomes {
		a, b := first.Outcomes[i], second.Outcomes[i]
		assert.Equal(t, a.Result.Rounds, b.Result.Rounds)
		assert.Equal(t, a.Result.Winner, b.Result.Winner)
		assert.Equal(t, a.Result.Damage, b.Result.Damage)
		assert.Equal(t, a.Transcript, b.Transcript)
	}
}

func TestRunner_JournalsEveryDuel(t *testing.T) {
	j := &memJournal{}
	r := sim.NewRunner(shippedContent(t), stockTuning(), zaptest.NewLogger(t), sim.WithJournal(j))
	sum, err := r.Run(context.Background(), sim.Options{
		Left:  sim.FighterSpec{Species: "human", Job: "knight", XL: 12},
		Right: sim.FighterSpec{Monster: "fire_dragon"},
		Duels: 4, Seed: 1, MaxRounds: 50,
	})
	require.NoError(t, err)
	require.Len(t, j.duels, 4)
	for _, out := range sum.Outcomes {
		assert.Equal(t, out.Seed, j.duels[out.Result.DuelID])
	}
	require.NotEmpty(t, j.attacks)
	for _, rec := range j.attacks {
		_, ok := j.duels[rec.DuelID]
		assert.True(t, ok, "attack %s belongs to an unrecorded duel", rec.ID)
	}
}

func TestRunner_UnrandHooksRun(t *testing.T) {
	mgr := scripting.NewManager(zaptest.NewLogger(t), 0)
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.LoadDir(filepath.Join(repoRoot(t), "content", "scripts", "unrands")))

	r := sim.NewRunner(shippedContent(t), stockTuning(), zaptest.NewLogger(t), sim.WithUnrands(mgr))
	sum, err := r.Run(context.Background(), sim.Options{
		Left:  sim.FighterSpec{Monster: "orc_executioner"},
		Right: sim.FighterSpec{Monster: "porcupine"},
		Duels: 3, Seed: 3, MaxRounds: 40, Transcript: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.LeftWins)

	woe := []string{" in twain", " into a thin bloody mist", " savagely", "fatally mangles",
		" like a pig carcass", " into pieces", " messily", " joyfully"}
	found := false
	for _, out := range sum.Outcomes {
		for _, line := range out.Transcript {
			for _, phrase := range woe {
				found = found || strings.Contains(line, phrase)
			}
		}
	}
	assert.True(t, found, "the axe of woe never announced a kill")
}

func TestRunner_TracesRunAndDuels(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := sim.NewRunner(shippedContent(t), stockTuning(), zaptest.NewLogger(t), sim.WithTracer(tp.Tracer("sim")))
	_, err := r.Run(context.Background(), sim.Options{
		Left:  sim.FighterSpec{Monster: "orc_warrior"},
		Right: sim.FighterSpec{Monster: "orc_warrior"},
		Duels: 2, Seed: 9, MaxRounds: 30,
	})
	require.NoError(t, err)

	names := map[string]int{}
	for _, s := range rec.Ended() {
		names[s.Name()]++
	}
	assert.Equal(t, 1, names["meleesim.run"])
	assert.Equal(t, 2, names["melee.duel"])
}

func TestRunner_NarrateLogsMessages(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := sim.NewRunner(shippedContent(t), stockTuning(), zap.New(core))
	_, err := r.Run(context.Background(), sim.Options{
		Left:  sim.FighterSpec{Species: "troll", Job: "berserker", XL: 6},
		Right: sim.FighterSpec{Monster: "orc_warrior"},
		Duels: 1, Seed: 5, MaxRounds: 30, Narrate: true,
	})
	require.NoError(t, err)
	assert.Positive(t, logs.FilterLoggerName("narrative").Len())
}

func TestNewRunner_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { sim.NewRunner(nil, combat.Tuning{}, zap.NewNop()) })
}
