package repository

import (
	"context"
	"testing"

	"clubhouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalBanRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGlobalBanRepository(db)
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.GlobalBan{
			UserID:         50,
			BannedByUserID: 1,
			Reason:         "abuse",
		}))

		ban, err := repo.Get(ctx, 50)
		require.NoError(t, err)
		require.NotNil(t, ban)
		assert.Equal(t, "abuse", ban.Reason)

		absent, err := repo.Get(ctx, 51)
		require.NoError(t, err)
		assert.Nil(t, absent)
	})

	t.Run("DeleteReportsWhetherBanExisted", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.GlobalBan{UserID: 60, BannedByUserID: 1}))

		deleted, err := repo.Delete(ctx, 60)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, 60)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.GlobalBan{UserID: 70, BannedByUserID: 1}))
		require.NoError(t, repo.Create(ctx, &models.GlobalBan{UserID: 71, BannedByUserID: 1}))

		bans, err := repo.List(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(bans), 2)
	})
}
