//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

func TestRepositoriesRespectTenantIsolation(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t, ctx)

	users := NewUserRepository(pool)

	tenantID := uuid.NewString()
	user := domain.User{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Email:        uuid.NewString() + "@example.com",
		Name:         "Integration Tester",
		Role:         domain.RoleCoach,
		PasswordHash: []byte("not-a-real-hash"),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, users.Create(ctx, user))

	stored, err := users.Get(ctx, tenantID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, user.Email, stored.Email)

	otherTenant := uuid.NewString()
	storedOther, err := users.Get(ctx, otherTenant, user.ID)
	require.NoError(t, err)
	require.Nil(t, storedOther, "cross-tenant reads must come back empty")
}

func TestSetDefaultSwapIsTransactional(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t, ctx)

	templates := NewActivityTemplateRepository(pool)

	tenantID := uuid.NewString()
	gymID := uuid.NewString()
	first := domain.ActivityTemplate{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		GymID:     gymID,
		Name:      "Back Squat",
		Type:      domain.ActivityTypeStrength,
		Group:     "squat",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	second := first
	second.ID = uuid.NewString()
	second.Name = "Front Squat"

	require.NoError(t, templates.Create(ctx, first))
	require.NoError(t, templates.Create(ctx, second))

	require.NoError(t, templates.SetDefault(ctx, tenantID, gymID, first.ID))
	require.NoError(t, templates.SetDefault(ctx, tenantID, gymID, second.ID))

	stored, err := templates.Get(ctx, tenantID, first.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.False(t, stored.IsDefault, "previous default must be demoted")

	promoted, err := templates.Get(ctx, tenantID, second.ID)
	require.NoError(t, err)
	require.NotNil(t, promoted)
	require.True(t, promoted.IsDefault)

	otherGym := uuid.NewString()
	err = templates.SetDefault(ctx, tenantID, otherGym, second.ID)
	require.ErrorIs(t, err, domain.ErrTemplateGymMismatch)
}

func TestProgramRoundTripWithOutboxEvent(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t, ctx)

	programs := NewProgramRepository(pool)

	tenantID := uuid.NewString()
	program := domain.WorkoutProgram{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		GymID:    uuid.NewString(),
		CoachID:  uuid.NewString(),
		Name:     "Strength Cycle",
		Blocks: []domain.Block{
			{
				Name: "Accumulation",
				Weeks: []domain.Week{
					{Days: []domain.Day{{DayOfWeek: 1, Activities: []domain.Activity{
						{TemplateID: uuid.NewString(), Type: domain.ActivityTypeStrength, Sets: 3, Reps: 5},
					}}}},
				},
			},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, programs.Create(ctx, program))

	stored, err := programs.Get(ctx, tenantID, program.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Blocks, 1)
	require.Equal(t, "Accumulation", stored.Blocks[0].Name)

	var pending int
	err = pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox WHERE aggregate_id=$1 AND event_type='program.saved' AND published_at IS NULL`,
		program.ID).Scan(&pending)
	require.NoError(t, err)
	require.Equal(t, 1, pending)
}

func newTestPool(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("gym"),
		postgrescontainer.WithUsername("gym"),
		postgrescontainer.WithPassword("gym"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
