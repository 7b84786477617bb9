package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/events"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/observability"
)

const programColumns = `program_id, tenant_id, gym_id, coach_id, client_id, name, notes, blocks, created_at, updated_at`

// ProgramRepository provides Postgres-backed persistence for workout programs.
// Block structure is stored as JSONB.
type ProgramRepository struct {
	pool *pgxpool.Pool
}

// NewProgramRepository constructs a ProgramRepository.
func NewProgramRepository(pool *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{pool: pool}
}

// Create persists the program and records a program.saved outbox event in one transaction.
func (r *ProgramRepository) Create(ctx context.Context, program domain.WorkoutProgram) error {
	blocks, err := json.Marshal(program.Blocks)
	if err != nil {
		return err
	}

	err = withTenantTx(ctx, r.pool, program.TenantID, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO workout_programs (` + programColumns + `)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
		_, err := tx.Exec(ctx, stmt,
			program.ID, program.TenantID, program.GymID, program.CoachID, nullIfEmpty(program.ClientID),
			program.Name, program.Notes, blocks, program.CreatedAt, program.UpdatedAt)
		if err != nil {
			return err
		}
		return r.insertSavedEvent(ctx, tx, program)
	})
	if err != nil {
		return err
	}
	observability.RecordProgramPersisted(program.UpdatedAt)
	return nil
}

// Get retrieves a program by ID within a tenant.
func (r *ProgramRepository) Get(ctx context.Context, tenantID, programID string) (*domain.WorkoutProgram, error) {
	var program *domain.WorkoutProgram
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + programColumns + ` FROM workout_programs WHERE tenant_id=$1 AND program_id=$2`
		scanned, err := scanProgram(tx.QueryRow(ctx, query, tenantID, programID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		program = scanned
		return nil
	})
	return program, err
}

// List returns programs newest-first with keyset pagination, optionally filtered by gym.
func (r *ProgramRepository) List(ctx context.Context, tenantID, gymID string, cursor *domain.Cursor, limit int) ([]domain.WorkoutProgram, *domain.Cursor, error) {
	query := `SELECT ` + programColumns + ` FROM workout_programs WHERE tenant_id=$1`
	args := []interface{}{tenantID, limit}
	next := 3

	if gymID != "" {
		query += fmt.Sprintf(` AND gym_id=$%d`, next)
		args = append(args, gymID)
		next++
	}
	if cursor != nil {
		query += fmt.Sprintf(` AND (created_at, program_id) < ($%d, $%d)`, next, next+1)
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY created_at DESC, program_id DESC LIMIT $2`

	var results []domain.WorkoutProgram
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		results = make([]domain.WorkoutProgram, 0, limit)
		for rows.Next() {
			program, err := scanProgram(rows)
			if err != nil {
				return err
			}
			results = append(results, *program)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *domain.Cursor
	if len(results) == limit && limit > 0 {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return results, nextCursor, nil
}

// Update persists mutable program fields and records a program.saved event.
func (r *ProgramRepository) Update(ctx context.Context, program domain.WorkoutProgram) error {
	blocks, err := json.Marshal(program.Blocks)
	if err != nil {
		return err
	}

	err = withTenantTx(ctx, r.pool, program.TenantID, func(tx pgx.Tx) error {
		const stmt = `UPDATE workout_programs
            SET client_id=$3, name=$4, notes=$5, blocks=$6, updated_at=$7
            WHERE tenant_id=$1 AND program_id=$2`
		_, err := tx.Exec(ctx, stmt,
			program.TenantID, program.ID, nullIfEmpty(program.ClientID), program.Name, program.Notes, blocks, program.UpdatedAt)
		if err != nil {
			return err
		}
		return r.insertSavedEvent(ctx, tx, program)
	})
	if err != nil {
		return err
	}
	observability.RecordProgramPersisted(program.UpdatedAt)
	return nil
}

// Delete removes a program.
func (r *ProgramRepository) Delete(ctx context.Context, tenantID, programID string) error {
	return withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM workout_programs WHERE tenant_id=$1 AND program_id=$2`, tenantID, programID)
		return err
	})
}

func (r *ProgramRepository) insertSavedEvent(ctx context.Context, tx pgx.Tx, program domain.WorkoutProgram) error {
	dedupeKey := fmt.Sprintf("%s:program.saved:%d", program.ID, program.UpdatedAt.UnixNano())
	return insertOutbox(ctx, tx, program.TenantID, "workout_program", program.ID, "program.saved", dedupeKey, events.ProgramSaved{
		ProgramID: program.ID,
		TenantID:  program.TenantID,
		GymID:     program.GymID,
		CoachID:   program.CoachID,
		ClientID:  program.ClientID,
		Blocks:    len(program.Blocks),
		SavedAt:   program.UpdatedAt,
	})
}

func scanProgram(row pgx.Row) (*domain.WorkoutProgram, error) {
	var program domain.WorkoutProgram
	var clientID *string
	var blocks []byte
	if err := row.Scan(&program.ID, &program.TenantID, &program.GymID, &program.CoachID, &clientID, &program.Name, &program.Notes, &blocks, &program.CreatedAt, &program.UpdatedAt); err != nil {
		return nil, err
	}
	program.ClientID = emptyIfNull(clientID)
	if len(blocks) > 0 {
		if err := json.Unmarshal(blocks, &program.Blocks); err != nil {
			return nil, err
		}
	}
	return &program, nil
}
