// Package sim runs batches of seeded melee duels between content-defined
// fighters and tallies the outcome.
package sim

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/config"
	"github.com/cory-johannsen/melee/internal/game/character"
	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/npc"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// Content is every definition a duel can draw on.
type Content struct {
	Items     *inventory.Registry
	Templates []*npc.Template
	Rules     *ruleset.Registry
	Statuses  *condition.Registry
}

// LoadContent reads weapons, armour, monsters, statuses and rules from the
// directories in cfg.
//
// Postcondition: Returns fully populated Content or the first load error.
func LoadContent(cfg config.ContentConfig) (*Content, error) {
	items := inventory.NewRegistry()
	weapons, err := inventory.LoadWeapons(cfg.WeaponsDir)
	if err != nil {
		return nil, fmt.Errorf("loading weapons: %w", err)
	}
	for _, w := range weapons {
		if err := items.RegisterWeapon(w); err != nil {
			return nil, err
		}
	}
	armour, err := inventory.LoadArmour(cfg.ArmourDir)
	if err != nil {
		return nil, fmt.Errorf("loading armour: %w", err)
	}
	for _, a := range armour {
		if err := items.RegisterArmour(a); err != nil {
			return nil, err
		}
	}

	templates, err := npc.LoadTemplates(cfg.MonstersDir)
	if err != nil {
		return nil, fmt.Errorf("loading monsters: %w", err)
	}
	statuses, err := condition.LoadDirectory(cfg.StatusesDir)
	if err != nil {
		return nil, fmt.Errorf("loading statuses: %w", err)
	}
	rules, err := ruleset.LoadRegistry(cfg.RulesDir)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	return &Content{Items: items, Templates: templates, Rules: rules, Statuses: statuses}, nil
}

// LoadContentFrom loads content laid out under root the way the repository
// ships it.
func LoadContentFrom(root string) (*Content, error) {
	return LoadContent(config.ContentConfig{
		WeaponsDir:  filepath.Join(root, "items", "weapons"),
		ArmourDir:   filepath.Join(root, "items", "armour"),
		MonstersDir: filepath.Join(root, "monsters"),
		StatusesDir: filepath.Join(root, "statuses"),
		RulesDir:    filepath.Join(root, "rules"),
	})
}

// FighterSpec names one side of a duel: either a monster template, or a
// player built from a species, a job and an experience level.
type FighterSpec struct {
	Monster string
	Species string
	Job     string
	XL      int
}

// ParseFighter reads "monster:<template>", "player:<species>/<job>[@xl]",
// or a bare template id.
//
// Postcondition: a player spec without a level gets XL 1.
func ParseFighter(s string) (FighterSpec, error) {
	kind, body, found := strings.Cut(s, ":")
	if !found {
		kind, body = "monster", s
	}
	switch kind {
	case "monster":
		if body == "" {
			return FighterSpec{}, fmt.Errorf("fighter %q: monster template must not be empty", s)
		}
		return FighterSpec{Monster: body}, nil
	case "player":
		build, lvl, hasLvl := strings.Cut(body, "@")
		species, job, ok := strings.Cut(build, "/")
		if !ok || species == "" || job == "" {
			return FighterSpec{}, fmt.Errorf("fighter %q: want player:<species>/<job>[@xl]", s)
		}
		xl := 1
		if hasLvl {
			n, err := strconv.Atoi(lvl)
			if err != nil || n < 1 || n > character.MaxXL {
				return FighterSpec{}, fmt.Errorf("fighter %q: level must be in [1, %d]", s, character.MaxXL)
			}
			xl = n
		}
		return FighterSpec{Species: species, Job: job, XL: xl}, nil
	}
	return FighterSpec{}, fmt.Errorf("fighter %q: unknown kind %q", s, kind)
}

// IsPlayer reports whether the spec builds a player.
func (f FighterSpec) IsPlayer() bool { return f.Monster == "" }

func (f FighterSpec) String() string {
	if f.IsPlayer() {
		return fmt.Sprintf("player:%s/%s@%d", f.Species, f.Job, f.XL)
	}
	return "monster:" + f.Monster
}

// Journal persists attacks and duel outcomes.
type Journal interface {
	combat.JournalWriter
	RecordDuel(ctx context.Context, res combat.DuelResult, seed uint64) error
}

// Options selects what a Run fights.
type Options struct {
	Left, Right FighterSpec
	Duels       int
	// Seed of the first duel; duel i is seeded with Seed+i so any one duel
	// can be replayed alone.
	Seed      uint64
	MaxRounds int
	// Transcript keeps every duel's narrative messages in the outcome.
	Transcript bool
	// Narrate routes narrative messages to the logger instead.
	Narrate bool
}

// Outcome is one finished duel.
type Outcome struct {
	Seed       uint64
	Result     combat.DuelResult
	LeftID     string
	RightID    string
	Transcript []string
}

// Summary tallies a batch of duels.
type Summary struct {
	Duels       int
	LeftWins    int
	RightWins   int
	Draws       int
	TotalRounds int
	LeftDamage  int
	RightDamage int
	Outcomes    []Outcome
}

// Runner fights duels between content-defined fighters.
type Runner struct {
	content *Content
	tuning  combat.Tuning
	unrands combat.UnrandHooks
	journal Journal
	logger  *zap.Logger
	tracer  trace.Tracer
	engine  *combat.Engine
}

// Option configures a Runner.
type Option func(*Runner)

// WithUnrands installs artefact melee hooks.
func WithUnrands(h combat.UnrandHooks) Option { return func(r *Runner) { r.unrands = h } }

// WithJournal persists every attack and duel outcome.
func WithJournal(j Journal) Option { return func(r *Runner) { r.journal = j } }

// WithTracer records a span per run and per duel.
func WithTracer(t trace.Tracer) Option { return func(r *Runner) { r.tracer = t } }

// NewRunner creates a Runner over content.
//
// Precondition: content and logger must not be nil.
func NewRunner(content *Content, tuning combat.Tuning, logger *zap.Logger, opts ...Option) *Runner {
	if content == nil || logger == nil {
		panic("sim: NewRunner precondition violated: content and logger must not be nil")
	}
	r := &Runner{
		content: content,
		tuning:  tuning,
		logger:  logger,
		engine:  combat.NewEngine(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// TuningFrom maps the combat configuration onto engine tuning.
func TuningFrom(c config.CombatConfig) combat.Tuning {
	return combat.Tuning{
		AuxAttacks:      c.AuxAttacks,
		RiposteEnabled:  c.RiposteEnabled,
		MaxChildAttacks: c.MaxChildAttacks,
		HitWeak:         c.HitWeak,
		HitMed:          c.HitMed,
		HitStrong:       c.HitStrong,
	}
}

// Run fights opts.Duels duels in sequence. It stops at the first error,
// returning the tallies so far.
//
// Precondition: opts.Duels >= 1 and opts.MaxRounds >= 1.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Duels < 1 || opts.MaxRounds < 1 {
		return Summary{}, fmt.Errorf("sim: duels and max rounds must be >= 1, got %d and %d", opts.Duels, opts.MaxRounds)
	}
	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "meleesim.run", trace.WithAttributes(
			attribute.String("left", opts.Left.String()),
			attribute.String("right", opts.Right.String()),
			attribute.Int("duels", opts.Duels),
			attribute.Int64("seed", int64(opts.Seed)),
		))
		defer span.End()
	}

	var sum Summary
	for i := 0; i < opts.Duels; i++ {
		out, err := r.duel(ctx, opts, opts.Seed+uint64(i))
		if err != nil {
			return sum, err
		}
		sum.add(out)
	}
	r.logger.Info("duels finished",
		zap.Int("duels", sum.Duels),
		zap.Int("left_wins", sum.LeftWins),
		zap.Int("right_wins", sum.RightWins),
		zap.Int("draws", sum.Draws),
	)
	return sum, nil
}

func (s *Summary) add(out Outcome) {
	s.Duels++
	s.TotalRounds += out.Result.Rounds
	s.LeftDamage += out.Result.Damage[out.LeftID]
	s.RightDamage += out.Result.Damage[out.RightID]
	switch out.Result.Winner {
	case out.LeftID:
		s.LeftWins++
	case out.RightID:
		s.RightWins++
	default:
		s.Draws++
	}
	s.Outcomes = append(s.Outcomes, out)
}

func (r *Runner) duel(ctx context.Context, opts Options, seed uint64) (Outcome, error) {
	src := dice.NewSeededSource(seed)
	roller := dice.NewLoggedRoller(src, r.logger)
	monsters, err := npc.NewManager(r.content.Templates, r.content.Items, roller)
	if err != nil {
		return Outcome{}, err
	}

	left, err := r.build(opts.Left, "hero", monsters, src)
	if err != nil {
		return Outcome{}, fmt.Errorf("building %s: %w", opts.Left, err)
	}
	right, err := r.build(opts.Right, "rival", monsters, src)
	if err != nil {
		return Outcome{}, fmt.Errorf("building %s: %w", opts.Right, err)
	}
	left.SetPos(combat.Pos{X: 0, Y: 0})
	right.SetPos(combat.Pos{X: 1, Y: 0})

	c := combat.NewContext(src)
	c.Logger = r.logger
	c.Tuning = r.tuning
	c.Statuses = r.content.Statuses
	c.Unrands = r.unrands
	if r.journal != nil {
		c.Journal = r.journal
	}
	if r.tracer != nil {
		c.Tracer = r.tracer
	}
	if left.IsPlayer() {
		c.Observer = left
	}
	var transcript combat.Transcript
	switch {
	case opts.Transcript:
		c.Messages = &transcript
	case opts.Narrate:
		c.Messages = combat.NewLogSink(r.logger.Named("narrative"))
	}

	d, err := r.engine.StartDuel(c, left, right)
	if err != nil {
		return Outcome{}, err
	}
	defer func() {
		if err := r.engine.EndDuel(d.ID); err != nil {
			r.logger.Warn("ending duel", zap.Error(err))
		}
	}()

	res, err := d.Run(ctx, opts.MaxRounds)
	if err != nil {
		return Outcome{}, err
	}
	if r.journal != nil {
		if err := r.journal.RecordDuel(ctx, res, seed); err != nil {
			return Outcome{}, fmt.Errorf("journalling duel %s: %w", res.DuelID, err)
		}
	}
	return Outcome{
		Seed:       seed,
		Result:     res,
		LeftID:     left.ID(),
		RightID:    right.ID(),
		Transcript: transcript.Lines,
	}, nil
}

// ErrUnknownFighter is returned when a spec names no known template, species or job.
var ErrUnknownFighter = errors.New("unknown fighter")

func (r *Runner) build(spec FighterSpec, playerID string, monsters *npc.Manager, src dice.Source) (combat.Actor, error) {
	if !spec.IsPlayer() {
		inst, err := monsters.Spawn(spec.Monster)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownFighter, err)
		}
		return inst, nil
	}
	sp, err := r.content.Rules.Species(spec.Species)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownFighter, err)
	}
	job, err := r.content.Rules.Job(spec.Job)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownFighter, err)
	}
	return character.Build(character.Options{ID: playerID, Species: sp, Job: job, XL: spec.XL}, r.content.Items, src)
}
