package repository

import (
	"context"
	"errors"
	"testing"

	"clubhouse/internal/database"
	"clubhouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func uintPtr(v uint) *uint {
	return &v
}

func TestRoomRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	t.Run("CreateClubRoom", func(t *testing.T) {
		room := &models.Room{
			Kind:            models.RoomKindClub,
			Name:            "Trail Runners",
			ClubID:          uintPtr(10),
			CreatedByUserID: 1,
		}
		err := repo.Create(ctx, room)
		require.NoError(t, err)
		assert.NotZero(t, room.ID)

		fetched, err := repo.GetByID(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoomKindClub, fetched.Kind)
		assert.Equal(t, "Trail Runners", fetched.Name)
	})

	t.Run("CreateRejectsInconsistentReferences", func(t *testing.T) {
		room := &models.Room{
			Kind: models.RoomKindClub,
			Name: "Broken",
		}
		err := repo.Create(ctx, room)
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("GetByIDNotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 99999)
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("FindByClub", func(t *testing.T) {
		room := &models.Room{
			Kind:            models.RoomKindClub,
			Name:            "Climbers",
			ClubID:          uintPtr(42),
			CreatedByUserID: 1,
		}
		require.NoError(t, repo.Create(ctx, room))

		found, err := repo.FindByClub(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, room.ID, found.ID)

		missing, err := repo.FindByClub(ctx, 777)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("FindByCoach", func(t *testing.T) {
		room := &models.Room{
			Kind:            models.RoomKindCoach,
			Name:            "Coach Anna",
			CoachID:         uintPtr(5),
			CreatedByUserID: 2,
		}
		require.NoError(t, repo.Create(ctx, room))

		found, err := repo.FindByCoach(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, room.ID, found.ID)
	})

	t.Run("FindDirectOrderIndependent", func(t *testing.T) {
		key := models.DirectKeyFor(3, 8)
		room := &models.Room{
			Kind:           models.RoomKindDirect,
			ParticipantAID: uintPtr(3),
			ParticipantBID: uintPtr(8),
			DirectKey:      &key,
		}
		require.NoError(t, repo.Create(ctx, room))

		ab, err := repo.FindDirect(ctx, 3, 8)
		require.NoError(t, err)
		require.NotNil(t, ab)

		ba, err := repo.FindDirect(ctx, 8, 3)
		require.NoError(t, err)
		require.NotNil(t, ba)
		assert.Equal(t, ab.ID, ba.ID)

		missing, err := repo.FindDirect(ctx, 3, 9)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("DirectKeyUniqueness", func(t *testing.T) {
		key := models.DirectKeyFor(11, 12)
		first := &models.Room{
			Kind:           models.RoomKindDirect,
			ParticipantAID: uintPtr(11),
			ParticipantBID: uintPtr(12),
			DirectKey:      &key,
		}
		require.NoError(t, repo.Create(ctx, first))

		dup := &models.Room{
			Kind:           models.RoomKindDirect,
			ParticipantAID: uintPtr(11),
			ParticipantBID: uintPtr(12),
			DirectKey:      &key,
		}
		assert.Error(t, repo.Create(ctx, dup))
	})
}
