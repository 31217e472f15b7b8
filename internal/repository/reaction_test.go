package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	room := createTestRoom(t, db, 200)
	msgs := createTestMessages(t, db, room.ID, 1, time.Now().UTC())
	messageID := msgs[0].ID

	t.Run("ToggleOnOffOn", func(t *testing.T) {
		reaction, err := repo.Toggle(ctx, messageID, 5, "👍")
		require.NoError(t, err)
		require.NotNil(t, reaction)
		assert.NotZero(t, reaction.ID)

		// Same triple toggles off.
		reaction, err = repo.Toggle(ctx, messageID, 5, "👍")
		require.NoError(t, err)
		assert.Nil(t, reaction)

		found, err := repo.Find(ctx, messageID, 5, "👍")
		require.NoError(t, err)
		assert.Nil(t, found)

		// Third call toggles back on.
		reaction, err = repo.Toggle(ctx, messageID, 5, "👍")
		require.NoError(t, err)
		require.NotNil(t, reaction)
	})

	t.Run("DistinctEmojisAreIndependent", func(t *testing.T) {
		first, err := repo.Toggle(ctx, messageID, 6, "❤️")
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := repo.Toggle(ctx, messageID, 6, "🔥")
		require.NoError(t, err)
		require.NotNil(t, second)

		found, err := repo.Find(ctx, messageID, 6, "❤️")
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("DistinctUsersAreIndependent", func(t *testing.T) {
		a, err := repo.Toggle(ctx, messageID, 7, "🎉")
		require.NoError(t, err)
		require.NotNil(t, a)

		b, err := repo.Toggle(ctx, messageID, 8, "🎉")
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("Delete", func(t *testing.T) {
		reaction, err := repo.Toggle(ctx, messageID, 9, "💪")
		require.NoError(t, err)
		require.NotNil(t, reaction)

		require.NoError(t, repo.Delete(ctx, reaction.ID))

		_, err = repo.GetByID(ctx, reaction.ID)
		require.Error(t, err)
	})
}
