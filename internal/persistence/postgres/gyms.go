package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

const gymColumns = `gym_id, tenant_id, name, address, owner_id, created_at, updated_at`

// GymRepository provides Postgres-backed persistence for gyms.
type GymRepository struct {
	pool *pgxpool.Pool
}

// NewGymRepository constructs a GymRepository.
func NewGymRepository(pool *pgxpool.Pool) *GymRepository {
	return &GymRepository{pool: pool}
}

// Create persists a gym.
func (r *GymRepository) Create(ctx context.Context, gym domain.Gym) error {
	return withTenantTx(ctx, r.pool, gym.TenantID, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO gyms (` + gymColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7)`
		_, err := tx.Exec(ctx, stmt,
			gym.ID, gym.TenantID, gym.Name, gym.Address, nullIfEmpty(gym.OwnerID), gym.CreatedAt, gym.UpdatedAt)
		return err
	})
}

// Get retrieves a gym by ID within a tenant.
func (r *GymRepository) Get(ctx context.Context, tenantID, gymID string) (*domain.Gym, error) {
	var gym *domain.Gym
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + gymColumns + ` FROM gyms WHERE tenant_id=$1 AND gym_id=$2`
		scanned, err := scanGym(tx.QueryRow(ctx, query, tenantID, gymID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		gym = scanned
		return nil
	})
	return gym, err
}

// ListByTenant returns the tenant's gyms ordered by name.
func (r *GymRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Gym, error) {
	var results []domain.Gym
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + gymColumns + ` FROM gyms WHERE tenant_id=$1 ORDER BY name`
		rows, err := tx.Query(ctx, query, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()

		results = make([]domain.Gym, 0)
		for rows.Next() {
			gym, err := scanGym(rows)
			if err != nil {
				return err
			}
			results = append(results, *gym)
		}
		return rows.Err()
	})
	return results, err
}

// Update persists mutable gym fields.
func (r *GymRepository) Update(ctx context.Context, gym domain.Gym) error {
	return withTenantTx(ctx, r.pool, gym.TenantID, func(tx pgx.Tx) error {
		const stmt = `UPDATE gyms SET name=$3, address=$4, owner_id=$5, updated_at=$6
            WHERE tenant_id=$1 AND gym_id=$2`
		_, err := tx.Exec(ctx, stmt, gym.TenantID, gym.ID, gym.Name, gym.Address, nullIfEmpty(gym.OwnerID), gym.UpdatedAt)
		return err
	})
}

// Delete removes a gym.
func (r *GymRepository) Delete(ctx context.Context, tenantID, gymID string) error {
	return withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM gyms WHERE tenant_id=$1 AND gym_id=$2`, tenantID, gymID)
		return err
	})
}

func scanGym(row pgx.Row) (*domain.Gym, error) {
	var gym domain.Gym
	var ownerID *string
	if err := row.Scan(&gym.ID, &gym.TenantID, &gym.Name, &gym.Address, &ownerID, &gym.CreatedAt, &gym.UpdatedAt); err != nil {
		return nil, err
	}
	gym.OwnerID = emptyIfNull(ownerID)
	return &gym, nil
}
