package service

import (
	"context"
	"testing"

	"clubhouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClubRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.createUser(t, "manager")

	t.Run("CreatesRoomWithAdminManager", func(t *testing.T) {
		room, err := env.rooms.CreateClubRoom(ctx, CreateClubRoomInput{
			ClubID:    1,
			Name:      "Road Cyclists",
			ManagerID: manager.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoomKindClub, room.Kind)
		require.NotNil(t, room.ClubID)
		assert.Equal(t, uint(1), *room.ClubID)

		m, err := env.memberRepo.Get(ctx, room.ID, manager.ID)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.True(t, m.IsAdmin)
	})

	t.Run("ReRunConverges", func(t *testing.T) {
		first, err := env.rooms.CreateClubRoom(ctx, CreateClubRoomInput{
			ClubID:    2,
			Name:      "Swimmers",
			ManagerID: manager.ID,
		})
		require.NoError(t, err)

		second, err := env.rooms.CreateClubRoom(ctx, CreateClubRoomInput{
			ClubID:    2,
			Name:      "Swimmers Again",
			ManagerID: manager.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("NameRequired", func(t *testing.T) {
		_, err := env.rooms.CreateClubRoom(ctx, CreateClubRoomInput{
			ClubID:    3,
			ManagerID: manager.ID,
		})
		assertAppErrCode(t, err, models.CodeValidation)
	})
}

func TestCreateCoachRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	coach := env.createUser(t, "coach")

	room, err := env.rooms.CreateCoachRoom(ctx, CreateCoachRoomInput{
		CoachID:     1,
		Name:        "Coach Kim",
		CoachUserID: coach.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoomKindCoach, room.Kind)

	m, err := env.memberRepo.Get(ctx, room.ID, coach.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.IsAdmin)

	again, err := env.rooms.CreateCoachRoom(ctx, CreateCoachRoomInput{
		CoachID:     1,
		Name:        "Coach Kim",
		CoachUserID: coach.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, room.ID, again.ID)
}

func TestAddMemberToClubRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.createUser(t, "manager")
	athlete := env.createUser(t, "athlete")

	room, err := env.rooms.CreateClubRoom(ctx, CreateClubRoomInput{
		ClubID:    1,
		Name:      "Runners",
		ManagerID: manager.ID,
	})
	require.NoError(t, err)

	t.Run("AddsRegularMember", func(t *testing.T) {
		m, err := env.rooms.AddMemberToClubRoom(ctx, 1, athlete.ID)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, room.ID, m.RoomID)
		assert.False(t, m.IsAdmin)
	})

	t.Run("ReAddPreservesExistingState", func(t *testing.T) {
		// Ban the member, then re-add: the ban must survive.
		require.NoError(t, env.memberRepo.SetBan(ctx, room.ID, athlete.ID, manager.ID, nil, "strike"))

		m, err := env.rooms.AddMemberToClubRoom(ctx, 1, athlete.ID)
		require.NoError(t, err)
		assert.True(t, m.IsBanned)
		assert.Equal(t, "strike", m.BanReason)
	})

	t.Run("MissingClubRoomNotFound", func(t *testing.T) {
		_, err := env.rooms.AddMemberToClubRoom(ctx, 999, athlete.ID)
		assertAppErrCode(t, err, models.CodeNotFound)
	})
}

func TestCreateDirectMessageRoom(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	t.Run("CreatesRoomWithBothMembers", func(t *testing.T) {
		room, err := env.rooms.CreateDirectMessageRoom(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoomKindDirect, room.Kind)
		assert.Empty(t, room.Name)

		for _, userID := range []uint{alice.ID, bob.ID} {
			m, err := env.memberRepo.Get(ctx, room.ID, userID)
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.False(t, m.IsAdmin)
		}
	})

	t.Run("PairIsOrderIndependent", func(t *testing.T) {
		first, err := env.rooms.CreateDirectMessageRoom(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		second, err := env.rooms.CreateDirectMessageRoom(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("DistinctPairsGetDistinctRooms", func(t *testing.T) {
		ab, err := env.rooms.CreateDirectMessageRoom(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		ac, err := env.rooms.CreateDirectMessageRoom(ctx, alice.ID, carol.ID)
		require.NoError(t, err)
		assert.NotEqual(t, ab.ID, ac.ID)
	})

	t.Run("SelfPairRejected", func(t *testing.T) {
		_, err := env.rooms.CreateDirectMessageRoom(ctx, alice.ID, alice.ID)
		assertAppErrCode(t, err, models.CodeValidation)
	})
}
