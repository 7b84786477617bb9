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

const scheduleColumns = `schedule_id, tenant_id, gym_id, name, is_default, timeslots, created_at, updated_at`

// ScheduleRepository provides Postgres-backed persistence for schedule templates.
// Timeslots are stored as JSONB.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// Create persists the schedule and records a schedule.saved outbox event in one transaction.
func (r *ScheduleRepository) Create(ctx context.Context, schedule domain.ScheduleTemplate) error {
	timeslots, err := json.Marshal(schedule.Timeslots)
	if err != nil {
		return err
	}

	err = withTenantTx(ctx, r.pool, schedule.TenantID, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO schedule_templates (` + scheduleColumns + `)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
		_, err := tx.Exec(ctx, stmt,
			schedule.ID, schedule.TenantID, schedule.GymID, schedule.Name, schedule.IsDefault,
			timeslots, schedule.CreatedAt, schedule.UpdatedAt)
		if err != nil {
			return err
		}
		return r.insertSavedEvent(ctx, tx, schedule)
	})
	if err != nil {
		return err
	}
	observability.RecordSchedulePersisted(schedule.UpdatedAt)
	return nil
}

// Get retrieves a schedule template by ID within a tenant.
func (r *ScheduleRepository) Get(ctx context.Context, tenantID, scheduleID string) (*domain.ScheduleTemplate, error) {
	var schedule *domain.ScheduleTemplate
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + scheduleColumns + ` FROM schedule_templates WHERE tenant_id=$1 AND schedule_id=$2`
		scanned, err := scanSchedule(tx.QueryRow(ctx, query, tenantID, scheduleID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		schedule = scanned
		return nil
	})
	return schedule, err
}

// ListByTenant returns the tenant's schedule templates ordered by name.
func (r *ScheduleRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.ScheduleTemplate, error) {
	var results []domain.ScheduleTemplate
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + scheduleColumns + ` FROM schedule_templates WHERE tenant_id=$1 ORDER BY name`
		rows, err := tx.Query(ctx, query, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()

		results = make([]domain.ScheduleTemplate, 0)
		for rows.Next() {
			schedule, err := scanSchedule(rows)
			if err != nil {
				return err
			}
			results = append(results, *schedule)
		}
		return rows.Err()
	})
	return results, err
}

// Update persists mutable schedule fields and records a schedule.saved event.
func (r *ScheduleRepository) Update(ctx context.Context, schedule domain.ScheduleTemplate) error {
	timeslots, err := json.Marshal(schedule.Timeslots)
	if err != nil {
		return err
	}

	err = withTenantTx(ctx, r.pool, schedule.TenantID, func(tx pgx.Tx) error {
		const stmt = `UPDATE schedule_templates SET name=$3, is_default=$4, timeslots=$5, updated_at=$6
            WHERE tenant_id=$1 AND schedule_id=$2`
		_, err := tx.Exec(ctx, stmt,
			schedule.TenantID, schedule.ID, schedule.Name, schedule.IsDefault, timeslots, schedule.UpdatedAt)
		if err != nil {
			return err
		}
		return r.insertSavedEvent(ctx, tx, schedule)
	})
	if err != nil {
		return err
	}
	observability.RecordSchedulePersisted(schedule.UpdatedAt)
	return nil
}

// Delete removes a schedule template.
func (r *ScheduleRepository) Delete(ctx context.Context, tenantID, scheduleID string) error {
	return withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM schedule_templates WHERE tenant_id=$1 AND schedule_id=$2`, tenantID, scheduleID)
		return err
	})
}

func (r *ScheduleRepository) insertSavedEvent(ctx context.Context, tx pgx.Tx, schedule domain.ScheduleTemplate) error {
	dedupeKey := fmt.Sprintf("%s:schedule.saved:%d", schedule.ID, schedule.UpdatedAt.UnixNano())
	return insertOutbox(ctx, tx, schedule.TenantID, "schedule_template", schedule.ID, "schedule.saved", dedupeKey, events.ScheduleSaved{
		ScheduleID: schedule.ID,
		TenantID:   schedule.TenantID,
		GymID:      schedule.GymID,
		Timeslots:  len(schedule.Timeslots),
		SavedAt:    schedule.UpdatedAt,
	})
}

func scanSchedule(row pgx.Row) (*domain.ScheduleTemplate, error) {
	var schedule domain.ScheduleTemplate
	var timeslots []byte
	if err := row.Scan(&schedule.ID, &schedule.TenantID, &schedule.GymID, &schedule.Name, &schedule.IsDefault, &timeslots, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
		return nil, err
	}
	if len(timeslots) > 0 {
		if err := json.Unmarshal(timeslots, &schedule.Timeslots); err != nil {
			return nil, err
		}
	}
	return &schedule, nil
}
