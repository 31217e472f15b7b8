package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubhouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestRoom(t *testing.T, db *gorm.DB, clubID uint) *models.Room {
	t.Helper()
	room := &models.Room{
		Kind:            models.RoomKindClub,
		Name:            "Test Club",
		ClubID:          &clubID,
		CreatedByUserID: 1,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func TestMembershipRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	t.Run("AddIsIdempotent", func(t *testing.T) {
		room := createTestRoom(t, db, 1)

		created, err := repo.Add(ctx, &models.RoomMembership{
			RoomID:  room.ID,
			UserID:  7,
			IsAdmin: true,
		})
		require.NoError(t, err)
		assert.True(t, created)

		// Re-adding must not touch the existing row, admin flag included.
		created, err = repo.Add(ctx, &models.RoomMembership{
			RoomID:  room.ID,
			UserID:  7,
			IsAdmin: false,
		})
		require.NoError(t, err)
		assert.False(t, created)

		m, err := repo.Get(ctx, room.ID, 7)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.True(t, m.IsAdmin)
	})

	t.Run("GetAbsentReturnsNil", func(t *testing.T) {
		m, err := repo.Get(ctx, 9999, 9999)
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("SetAndClearBan", func(t *testing.T) {
		room := createTestRoom(t, db, 2)
		_, err := repo.Add(ctx, &models.RoomMembership{RoomID: room.ID, UserID: 20})
		require.NoError(t, err)

		until := time.Now().UTC().Add(time.Hour)
		require.NoError(t, repo.SetBan(ctx, room.ID, 20, 1, &until, "spam"))

		m, err := repo.Get(ctx, room.ID, 20)
		require.NoError(t, err)
		assert.True(t, m.IsBanned)
		require.NotNil(t, m.BannedUntil)
		assert.Equal(t, "spam", m.BanReason)
		require.NotNil(t, m.BannedByUserID)
		assert.Equal(t, uint(1), *m.BannedByUserID)

		require.NoError(t, repo.ClearBan(ctx, room.ID, 20))
		m, err = repo.Get(ctx, room.ID, 20)
		require.NoError(t, err)
		assert.False(t, m.IsBanned)
		assert.Nil(t, m.BannedUntil)
		assert.Nil(t, m.BannedByUserID)
	})

	t.Run("SetBanOnNonMemberFails", func(t *testing.T) {
		err := repo.SetBan(ctx, 9999, 9999, 1, nil, "")
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotMember, appErr.Code)
	})

	t.Run("MarkRead", func(t *testing.T) {
		room := createTestRoom(t, db, 3)
		_, err := repo.Add(ctx, &models.RoomMembership{RoomID: room.ID, UserID: 30})
		require.NoError(t, err)

		at := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, repo.MarkRead(ctx, room.ID, 30, at))

		m, err := repo.Get(ctx, room.ID, 30)
		require.NoError(t, err)
		require.NotNil(t, m.LastReadAt)
		assert.WithinDuration(t, at, *m.LastReadAt, time.Second)
	})

	t.Run("ListActiveByUserHonorsBanExpiry", func(t *testing.T) {
		userID := uint(40)
		now := time.Now().UTC()

		open := createTestRoom(t, db, 4)
		permBanned := createTestRoom(t, db, 5)
		timedBanned := createTestRoom(t, db, 6)
		lapsedBanned := createTestRoom(t, db, 7)

		for _, room := range []*models.Room{open, permBanned, timedBanned, lapsedBanned} {
			_, err := repo.Add(ctx, &models.RoomMembership{RoomID: room.ID, UserID: userID})
			require.NoError(t, err)
		}

		future := now.Add(time.Hour)
		past := now.Add(-time.Hour)
		require.NoError(t, repo.SetBan(ctx, permBanned.ID, userID, 1, nil, ""))
		require.NoError(t, repo.SetBan(ctx, timedBanned.ID, userID, 1, &future, ""))
		// Lapsed timed ban: the flag is still set but the deadline passed.
		require.NoError(t, repo.SetBan(ctx, lapsedBanned.ID, userID, 1, &past, ""))

		active, err := repo.ListActiveByUser(ctx, userID, now)
		require.NoError(t, err)

		roomIDs := make([]uint, 0, len(active))
		for _, m := range active {
			require.NotNil(t, m.Room)
			roomIDs = append(roomIDs, m.RoomID)
		}
		assert.ElementsMatch(t, []uint{open.ID, lapsedBanned.ID}, roomIDs)
	})
}
