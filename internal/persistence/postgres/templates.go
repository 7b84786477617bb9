package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

const activityTemplateColumns = `template_id, tenant_id, gym_id, name, activity_type, activity_group, description, is_default, created_at, updated_at`

// ActivityTemplateRepository provides Postgres-backed persistence for activity templates.
type ActivityTemplateRepository struct {
	pool *pgxpool.Pool
}

// NewActivityTemplateRepository constructs an ActivityTemplateRepository.
func NewActivityTemplateRepository(pool *pgxpool.Pool) *ActivityTemplateRepository {
	return &ActivityTemplateRepository{pool: pool}
}

// Create persists an activity template.
func (r *ActivityTemplateRepository) Create(ctx context.Context, tpl domain.ActivityTemplate) error {
	return withTenantTx(ctx, r.pool, tpl.TenantID, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO activity_templates (` + activityTemplateColumns + `)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
		_, err := tx.Exec(ctx, stmt,
			tpl.ID, tpl.TenantID, tpl.GymID, tpl.Name, tpl.Type, tpl.Group,
			tpl.Description, tpl.IsDefault, tpl.CreatedAt, tpl.UpdatedAt)
		return err
	})
}

// Get retrieves an activity template by ID within a tenant.
func (r *ActivityTemplateRepository) Get(ctx context.Context, tenantID, templateID string) (*domain.ActivityTemplate, error) {
	var tpl *domain.ActivityTemplate
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + activityTemplateColumns + ` FROM activity_templates WHERE tenant_id=$1 AND template_id=$2`
		scanned, err := scanActivityTemplate(tx.QueryRow(ctx, query, tenantID, templateID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		tpl = scanned
		return nil
	})
	return tpl, err
}

// ListByTenant returns the tenant's activity templates ordered by name.
func (r *ActivityTemplateRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.ActivityTemplate, error) {
	var results []domain.ActivityTemplate
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + activityTemplateColumns + ` FROM activity_templates WHERE tenant_id=$1 ORDER BY name`
		rows, err := tx.Query(ctx, query, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()

		results = make([]domain.ActivityTemplate, 0)
		for rows.Next() {
			tpl, err := scanActivityTemplate(rows)
			if err != nil {
				return err
			}
			results = append(results, *tpl)
		}
		return rows.Err()
	})
	return results, err
}

// Update persists mutable activity template fields.
func (r *ActivityTemplateRepository) Update(ctx context.Context, tpl domain.ActivityTemplate) error {
	return withTenantTx(ctx, r.pool, tpl.TenantID, func(tx pgx.Tx) error {
		const stmt = `UPDATE activity_templates
            SET name=$3, activity_type=$4, activity_group=$5, description=$6, updated_at=$7
            WHERE tenant_id=$1 AND template_id=$2`
		_, err := tx.Exec(ctx, stmt, tpl.TenantID, tpl.ID, tpl.Name, tpl.Type, tpl.Group, tpl.Description, tpl.UpdatedAt)
		return err
	})
}

// Delete removes an activity template.
func (r *ActivityTemplateRepository) Delete(ctx context.Context, tenantID, templateID string) error {
	return withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM activity_templates WHERE tenant_id=$1 AND template_id=$2`, tenantID, templateID)
		return err
	})
}

// SetDefault demotes the gym's previous default and promotes the target inside
// one transaction, keeping the single-default invariant at the transaction
// boundary.
func (r *ActivityTemplateRepository) SetDefault(ctx context.Context, tenantID, gymID, templateID string) error {
	return withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		var foundGym string
		err := tx.QueryRow(ctx,
			`SELECT gym_id FROM activity_templates WHERE tenant_id=$1 AND template_id=$2`,
			tenantID, templateID).Scan(&foundGym)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrTemplateNotFound
			}
			return err
		}
		if foundGym != gymID {
			return domain.ErrTemplateGymMismatch
		}

		if _, err := tx.Exec(ctx,
			`UPDATE activity_templates SET is_default=false
             WHERE tenant_id=$1 AND gym_id=$2 AND is_default`, tenantID, gymID); err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE activity_templates SET is_default=true, updated_at=now()
             WHERE tenant_id=$1 AND template_id=$2`, tenantID, templateID)
		return err
	})
}

func scanActivityTemplate(row pgx.Row) (*domain.ActivityTemplate, error) {
	var tpl domain.ActivityTemplate
	if err := row.Scan(&tpl.ID, &tpl.TenantID, &tpl.GymID, &tpl.Name, &tpl.Type, &tpl.Group, &tpl.Description, &tpl.IsDefault, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
		return nil, err
	}
	return &tpl, nil
}

const benchmarkColumns = `template_id, tenant_id, name, activity_template_id, unit, direction, created_at, updated_at`

// BenchmarkTemplateRepository provides Postgres-backed persistence for benchmark templates.
type BenchmarkTemplateRepository struct {
	pool *pgxpool.Pool
}

// NewBenchmarkTemplateRepository constructs a BenchmarkTemplateRepository.
func NewBenchmarkTemplateRepository(pool *pgxpool.Pool) *BenchmarkTemplateRepository {
	return &BenchmarkTemplateRepository{pool: pool}
}

// Create persists a benchmark template.
func (r *BenchmarkTemplateRepository) Create(ctx context.Context, tpl domain.BenchmarkTemplate) error {
	return withTenantTx(ctx, r.pool, tpl.TenantID, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO benchmark_templates (` + benchmarkColumns + `)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
		_, err := tx.Exec(ctx, stmt,
			tpl.ID, tpl.TenantID, tpl.Name, nullIfEmpty(tpl.ActivityTemplateID), tpl.Unit, tpl.Direction,
			tpl.CreatedAt, tpl.UpdatedAt)
		return err
	})
}

// Get retrieves a benchmark template by ID within a tenant.
func (r *BenchmarkTemplateRepository) Get(ctx context.Context, tenantID, templateID string) (*domain.BenchmarkTemplate, error) {
	var tpl *domain.BenchmarkTemplate
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + benchmarkColumns + ` FROM benchmark_templates WHERE tenant_id=$1 AND template_id=$2`
		scanned, err := scanBenchmarkTemplate(tx.QueryRow(ctx, query, tenantID, templateID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		tpl = scanned
		return nil
	})
	return tpl, err
}

// ListByTenant returns the tenant's benchmark templates ordered by name.
func (r *BenchmarkTemplateRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.BenchmarkTemplate, error) {
	var results []domain.BenchmarkTemplate
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + benchmarkColumns + ` FROM benchmark_templates WHERE tenant_id=$1 ORDER BY name`
		rows, err := tx.Query(ctx, query, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()

		results = make([]domain.BenchmarkTemplate, 0)
		for rows.Next() {
			tpl, err := scanBenchmarkTemplate(rows)
			if err != nil {
				return err
			}
			results = append(results, *tpl)
		}
		return rows.Err()
	})
	return results, err
}

// Update persists mutable benchmark template fields.
func (r *BenchmarkTemplateRepository) Update(ctx context.Context, tpl domain.BenchmarkTemplate) error {
	return withTenantTx(ctx, r.pool, tpl.TenantID, func(tx pgx.Tx) error {
		const stmt = `UPDATE benchmark_templates SET name=$3, unit=$4, direction=$5, updated_at=$6
            WHERE tenant_id=$1 AND template_id=$2`
		_, err := tx.Exec(ctx, stmt, tpl.TenantID, tpl.ID, tpl.Name, tpl.Unit, tpl.Direction, tpl.UpdatedAt)
		return err
	})
}

// Delete removes a benchmark template.
func (r *BenchmarkTemplateRepository) Delete(ctx context.Context, tenantID, templateID string) error {
	return withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM benchmark_templates WHERE tenant_id=$1 AND template_id=$2`, tenantID, templateID)
		return err
	})
}

func scanBenchmarkTemplate(row pgx.Row) (*domain.BenchmarkTemplate, error) {
	var tpl domain.BenchmarkTemplate
	var activityTemplateID *string
	if err := row.Scan(&tpl.ID, &tpl.TenantID, &tpl.Name, &activityTemplateID, &tpl.Unit, &tpl.Direction, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
		return nil, err
	}
	tpl.ActivityTemplateID = emptyIfNull(activityTemplateID)
	return &tpl, nil
}
