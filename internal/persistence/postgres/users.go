package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/events"
)

const userColumns = `user_id, tenant_id, gym_id, email, name, role, password_hash, created_at, updated_at`

// UserRepository provides Postgres-backed persistence for users.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists the user and records a user.created outbox event in one transaction.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	return withTenantTx(ctx, r.pool, user.TenantID, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO users (` + userColumns + `)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

		_, err := tx.Exec(ctx, stmt,
			user.ID,
			user.TenantID,
			nullIfEmpty(user.GymID),
			user.Email,
			user.Name,
			user.Role,
			user.PasswordHash,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return err
		}

		dedupeKey := fmt.Sprintf("%s:user.created", user.ID)
		return insertOutbox(ctx, tx, user.TenantID, "user", user.ID, "user.created", dedupeKey, events.UserCreated{
			UserID:    user.ID,
			TenantID:  user.TenantID,
			GymID:     user.GymID,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		})
	})
}

// Get retrieves a user by ID within a tenant.
func (r *UserRepository) Get(ctx context.Context, tenantID, userID string) (*domain.User, error) {
	var user *domain.User
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		const query = `SELECT ` + userColumns + ` FROM users WHERE tenant_id=$1 AND user_id=$2`
		row := tx.QueryRow(ctx, query, tenantID, userID)
		scanned, err := scanUser(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		user = scanned
		return nil
	})
	return user, err
}

// FindByEmail looks a user up across tenants; used by login before any tenant
// context exists, so it runs outside the tenant-scoped transaction.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	row := r.pool.QueryRow(ctx, query, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// List returns users newest-first with keyset pagination, optionally filtered by gym.
func (r *UserRepository) List(ctx context.Context, tenantID, gymID string, cursor *domain.Cursor, limit int) ([]domain.User, *domain.Cursor, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id=$1`
	args := []interface{}{tenantID, limit}
	next := 3

	if gymID != "" {
		query += fmt.Sprintf(` AND gym_id=$%d`, next)
		args = append(args, gymID)
		next++
	}
	if cursor != nil {
		query += fmt.Sprintf(` AND (created_at, user_id) < ($%d, $%d)`, next, next+1)
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY created_at DESC, user_id DESC LIMIT $2`

	var results []domain.User
	err := withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		results = make([]domain.User, 0, limit)
		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return err
			}
			results = append(results, *user)
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

// Update persists mutable user fields.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	return withTenantTx(ctx, r.pool, user.TenantID, func(tx pgx.Tx) error {
		const stmt = `UPDATE users SET gym_id=$3, name=$4, role=$5, updated_at=$6
            WHERE tenant_id=$1 AND user_id=$2`
		_, err := tx.Exec(ctx, stmt, user.TenantID, user.ID, nullIfEmpty(user.GymID), user.Name, user.Role, user.UpdatedAt)
		return err
	})
}

// Delete removes a user.
func (r *UserRepository) Delete(ctx context.Context, tenantID, userID string) error {
	return withTenantTx(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM users WHERE tenant_id=$1 AND user_id=$2`, tenantID, userID)
		return err
	})
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var gymID *string
	if err := row.Scan(&user.ID, &user.TenantID, &gymID, &user.Email, &user.Name, &user.Role, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.GymID = emptyIfNull(gymID)
	return &user, nil
}
