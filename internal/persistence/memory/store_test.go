package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
)

func TestActivityTemplateSetDefaultSwap(t *testing.T) {
	ctx := context.Background()
	store := NewActivityTemplateStore()

	first := domain.ActivityTemplate{ID: "tpl-1", TenantID: "tenant-1", GymID: "gym-1", Name: "Back Squat", IsDefault: true}
	second := domain.ActivityTemplate{ID: "tpl-2", TenantID: "tenant-1", GymID: "gym-1", Name: "Front Squat"}
	other := domain.ActivityTemplate{ID: "tpl-3", TenantID: "tenant-1", GymID: "gym-2", Name: "Deadlift", IsDefault: true}
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, other))

	require.NoError(t, store.SetDefault(ctx, "tenant-1", "gym-1", "tpl-2"))

	templates, err := store.ListByTenant(ctx, "tenant-1")
	require.NoError(t, err)

	defaults := make(map[string]bool, len(templates))
	for _, tpl := range templates {
		defaults[tpl.ID] = tpl.IsDefault
	}
	require.False(t, defaults["tpl-1"], "previous default should be demoted")
	require.True(t, defaults["tpl-2"])
	require.True(t, defaults["tpl-3"], "other gym's default must be untouched")
}

func TestActivityTemplateSetDefaultRejectsWrongGym(t *testing.T) {
	ctx := context.Background()
	store := NewActivityTemplateStore()
	require.NoError(t, store.Create(ctx, domain.ActivityTemplate{
		ID: "tpl-1", TenantID: "tenant-1", GymID: "gym-1", Name: "Back Squat",
	}))

	err := store.SetDefault(ctx, "tenant-1", "gym-2", "tpl-1")
	require.ErrorIs(t, err, domain.ErrTemplateGymMismatch)

	err = store.SetDefault(ctx, "tenant-1", "gym-1", "missing")
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestUserStoreTenantIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	require.NoError(t, store.Create(ctx, domain.User{ID: "user-1", TenantID: "tenant-1", Email: "a@example.com"}))

	user, err := store.Get(ctx, "tenant-2", "user-1")
	require.NoError(t, err)
	require.Nil(t, user)

	user, err = store.Get(ctx, "tenant-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, user)
}

func TestUserStoreListPagination(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	base := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(ctx, domain.User{
			ID:        fmt.Sprintf("user-%d", i),
			TenantID:  "tenant-1",
			GymID:     "gym-1",
			Email:     fmt.Sprintf("u%d@example.com", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, next, err := store.List(ctx, "tenant-1", "gym-1", nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	require.Equal(t, "user-4", page[0].ID)
	require.Equal(t, "user-3", page[1].ID)

	page, _, err = store.List(ctx, "tenant-1", "gym-1", next, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "user-2", page[0].ID)
	require.Equal(t, "user-1", page[1].ID)
}

func TestProgramStoreGymFilter(t *testing.T) {
	ctx := context.Background()
	store := NewProgramStore()
	require.NoError(t, store.Create(ctx, domain.WorkoutProgram{ID: "prog-1", TenantID: "tenant-1", GymID: "gym-1"}))
	require.NoError(t, store.Create(ctx, domain.WorkoutProgram{ID: "prog-2", TenantID: "tenant-1", GymID: "gym-2"}))

	programs, _, err := store.List(ctx, "tenant-1", "gym-2", nil, 10)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	require.Equal(t, "prog-2", programs[0].ID)
}
