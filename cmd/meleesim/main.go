// Package main runs seeded melee duels between two fighters and prints the
// result.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/config"
	"github.com/cory-johannsen/melee/internal/observability"
	"github.com/cory-johannsen/melee/internal/scripting"
	"github.com/cory-johannsen/melee/internal/sim"
	"github.com/cory-johannsen/melee/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults and MELEE_ environment")
	leftFlag := flag.String("left", "player:human/fighter@10", "first fighter: monster:<id> or player:<species>/<job>[@xl]")
	rightFlag := flag.String("right", "monster:orc_warrior", "second fighter")
	duels := flag.Int("duels", 1, "number of duels to fight")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed of the first duel")
	maxRounds := flag.Int("max-rounds", 0, "round limit per duel; 0 = combat.max_rounds from config")
	transcript := flag.Bool("transcript", false, "print every duel's narrative")
	narrate := flag.Bool("narrate", false, "log narrative messages instead of printing them")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("setting up tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("shutting down tracing", zap.Error(err))
		}
	}()

	left, err := sim.ParseFighter(*leftFlag)
	if err != nil {
		logger.Fatal("parsing -left", zap.Error(err))
	}
	right, err := sim.ParseFighter(*rightFlag)
	if err != nil {
		logger.Fatal("parsing -right", zap.Error(err))
	}

	contentStart := time.Now()
	content, err := sim.LoadContent(cfg.Content)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("monsters", len(content.Templates)),
		zap.Int("weapons", len(content.Items.AllWeapons())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	scripts := scripting.NewManager(logger, cfg.Scripting.InstructionLimit)
	defer scripts.Close()
	if cfg.Scripting.UnrandDir != "" {
		if err := scripts.LoadDir(cfg.Scripting.UnrandDir); err != nil {
			logger.Fatal("loading unrand scripts", zap.Error(err))
		}
		logger.Info("unrand hooks loaded", zap.Strings("unrands", scripts.Hooks()))
	}

	opts := []sim.Option{
		sim.WithUnrands(scripts),
		sim.WithTracer(observability.Tracer("meleesim")),
	}
	if cfg.Combat.JournalEnabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		opts = append(opts, sim.WithJournal(postgres.NewJournalRepository(pool.DB())))
		logger.Info("attack journal enabled", zap.String("host", cfg.Database.Host))
	}

	rounds := *maxRounds
	if rounds == 0 {
		rounds = cfg.Combat.MaxRounds
	}
	runner := sim.NewRunner(content, sim.TuningFrom(cfg.Combat), logger, opts...)
	sum, err := runner.Run(ctx, sim.Options{
		Left:       left,
		Right:      right,
		Duels:      *duels,
		Seed:       *seed,
		MaxRounds:  rounds,
		Transcript: *transcript,
		Narrate:    *narrate,
	})
	if err != nil {
		logger.Fatal("running duels", zap.Error(err))
	}

	printSummary(left, right, sum, *transcript)
	logger.Info("meleesim finished", zap.Duration("elapsed", time.Since(start)))
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadDefaults()
	}
	return config.Load(path)
}

func printSummary(left, right sim.FighterSpec, sum sim.Summary, transcript bool) {
	for i, out := range sum.Outcomes {
		if transcript {
			fmt.Fprintf(os.Stdout, "--- duel %d (seed %d) ---\n", i+1, out.Seed)
			for _, line := range out.Transcript {
				fmt.Fprintln(os.Stdout, line)
			}
		}
		winner := out.Result.Winner
		if winner == "" {
			winner = "nobody"
		}
		fmt.Fprintf(os.Stdout, "duel %d: %s won after %d rounds (seed %d)\n", i+1, winner, out.Result.Rounds, out.Seed)
	}
	fmt.Fprintf(os.Stdout, "\n%s vs %s over %d duels\n", left, right, sum.Duels)
	fmt.Fprintf(os.Stdout, "  %-40s wins %d, damage dealt %d\n", left, sum.LeftWins, sum.LeftDamage)
	fmt.Fprintf(os.Stdout, "  %-40s wins %d, damage dealt %d\n", right, sum.RightWins, sum.RightDamage)
	fmt.Fprintf(os.Stdout, "  draws %d, average rounds %.1f\n", sum.Draws, float64(sum.TotalRounds)/float64(max(1, sum.Duels)))
}
