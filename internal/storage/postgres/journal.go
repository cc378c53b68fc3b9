package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/melee/internal/game/combat"
)

// ErrAttackNotFound is returned when an attack lookup yields no results.
var ErrAttackNotFound = errors.New("attack not found")

// ErrDuelNotFound is returned when a duel summary lookup yields no results.
var ErrDuelNotFound = errors.New("duel not found")

// JournalRepository persists attack records and duel outcomes.
type JournalRepository struct {
	db *pgxpool.Pool
}

var _ combat.JournalWriter = (*JournalRepository)(nil)

// NewJournalRepository creates a JournalRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

const attackColumns = `id, duel_id, parent_id, kind, attacker, defender, weapon, brand,
	to_hit, ev_margin, damage, special, hit, blocked, killed, occurred_at`

func nullable(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

// Record inserts one attack record. Re-recording the same ID is a no-op.
//
// Precondition: rec.ID must not be uuid.Nil.
// Postcondition: the record is retrievable with Get.
func (r *JournalRepository) Record(ctx context.Context, rec combat.AttackRecord) error {
	if rec.ID == uuid.Nil {
		return errors.New("recording attack: id must not be nil")
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO attack_journal (`+attackColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, nullable(rec.DuelID), nullable(rec.ParentID), rec.Kind,
		rec.Attacker, rec.Defender, rec.Weapon, rec.Brand,
		rec.ToHit, rec.EvMargin, rec.Damage, rec.Special,
		rec.Hit, rec.Blocked, rec.Killed, rec.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("inserting attack %s: %w", rec.ID, err)
	}
	return nil
}

func scanAttack(row pgx.Row) (combat.AttackRecord, error) {
	var (
		rec          combat.AttackRecord
		duel, parent uuid.NullUUID
	)
	err := row.Scan(&rec.ID, &duel, &parent, &rec.Kind, &rec.Attacker, &rec.Defender,
		&rec.Weapon, &rec.Brand, &rec.ToHit, &rec.EvMargin, &rec.Damage, &rec.Special,
		&rec.Hit, &rec.Blocked, &rec.Killed, &rec.OccurredAt)
	if err != nil {
		return combat.AttackRecord{}, err
	}
	rec.DuelID = duel.UUID
	rec.ParentID = parent.UUID
	return rec, nil
}

// Get retrieves one attack record by ID.
//
// Postcondition: Returns the record or ErrAttackNotFound.
func (r *JournalRepository) Get(ctx context.Context, id uuid.UUID) (combat.AttackRecord, error) {
	rec, err := scanAttack(r.db.QueryRow(ctx,
		`SELECT `+attackColumns+` FROM attack_journal WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return combat.AttackRecord{}, ErrAttackNotFound
		}
		return combat.AttackRecord{}, fmt.Errorf("querying attack %s: %w", id, err)
	}
	return rec, nil
}

// ListByDuel returns every attack recorded for duelID in the order they
// occurred.
//
// Postcondition: Returns an empty slice when the duel has no attacks.
func (r *JournalRepository) ListByDuel(ctx context.Context, duelID uuid.UUID) ([]combat.AttackRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+attackColumns+` FROM attack_journal
		 WHERE duel_id = $1
		 ORDER BY occurred_at, id`, duelID)
	if err != nil {
		return nil, fmt.Errorf("listing attacks for duel %s: %w", duelID, err)
	}
	defer rows.Close()

	out := []combat.AttackRecord{}
	for rows.Next() {
		rec, err := scanAttack(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attack: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attacks: %w", err)
	}
	return out, nil
}

// RecordDuel stores the outcome of a finished duel and the per-combatant
// tallies in one transaction.
//
// Precondition: res.DuelID must not be uuid.Nil.
// Postcondition: GetDuel(res.DuelID) returns the same tallies.
func (r *JournalRepository) RecordDuel(ctx context.Context, res combat.DuelResult, seed uint64) error {
	if res.DuelID == uuid.Nil {
		return errors.New("recording duel: id must not be nil")
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning duel transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO duel_results (duel_id, rounds, winner, seed)
		 VALUES ($1, $2, $3, $4)`,
		res.DuelID, res.Rounds, res.Winner, int64(seed),
	); err != nil {
		return fmt.Errorf("inserting duel %s: %w", res.DuelID, err)
	}

	batch := &pgx.Batch{}
	for _, actor := range combatants(res) {
		batch.Queue(
			`INSERT INTO duel_combatants (duel_id, actor, swings, hits, damage)
			 VALUES ($1, $2, $3, $4, $5)`,
			res.DuelID, actor, res.Swings[actor], res.Hits[actor], res.Damage[actor],
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting combatants for duel %s: %w", res.DuelID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing duel %s: %w", res.DuelID, err)
	}
	return nil
}

// combatants returns every actor named in res's tallies, sorted.
func combatants(res combat.DuelResult) []string {
	seen := make(map[string]bool)
	for _, m := range []map[string]int{res.Swings, res.Hits, res.Damage} {
		for actor := range m {
			seen[actor] = true
		}
	}
	out := make([]string, 0, len(seen))
	for actor := range seen {
		out = append(out, actor)
	}
	sort.Strings(out)
	return out
}

// GetDuel loads a recorded duel outcome.
//
// Postcondition: Returns the result or ErrDuelNotFound.
func (r *JournalRepository) GetDuel(ctx context.Context, duelID uuid.UUID) (combat.DuelResult, error) {
	res := combat.DuelResult{
		DuelID: duelID,
		Swings: make(map[string]int),
		Hits:   make(map[string]int),
		Damage: make(map[string]int),
	}
	err := r.db.QueryRow(ctx,
		`SELECT rounds, winner FROM duel_results WHERE duel_id = $1`, duelID,
	).Scan(&res.Rounds, &res.Winner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return combat.DuelResult{}, ErrDuelNotFound
		}
		return combat.DuelResult{}, fmt.Errorf("querying duel %s: %w", duelID, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT actor, swings, hits, damage FROM duel_combatants WHERE duel_id = $1`, duelID)
	if err != nil {
		return combat.DuelResult{}, fmt.Errorf("querying combatants for duel %s: %w", duelID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			actor                string
			swings, hits, damage int
		)
		if err := rows.Scan(&actor, &swings, &hits, &damage); err != nil {
			return combat.DuelResult{}, fmt.Errorf("scanning combatant: %w", err)
		}
		res.Swings[actor] = swings
		res.Hits[actor] = hits
		res.Damage[actor] = damage
	}
	if err := rows.Err(); err != nil {
		return combat.DuelResult{}, fmt.Errorf("iterating combatants: %w", err)
	}
	return res, nil
}
