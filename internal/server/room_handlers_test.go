package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"clubhouse/internal/models"
	"clubhouse/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClubRoomHandler(t *testing.T) {
	s := setupTestServer(t)
	manager := createTestUser(t, s, "manager", false)
	app := testApp(s, manager.ID)

	t.Run("Success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/rooms/club",
			map[string]any{"club_id": 7, "name": "Chess Club"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var room models.Room
		decodeJSON(t, resp, &room)
		assert.Equal(t, models.RoomKindClub, room.Kind)
		assert.Equal(t, "Chess Club", room.Name)
		require.NotNil(t, room.ClubID)
		assert.Equal(t, uint(7), *room.ClubID)

		// caller becomes the room admin
		m, err := s.memberRepo.Get(context.Background(), room.ID, manager.ID)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.True(t, m.IsAdmin)
	})

	t.Run("Re-Run Returns Same Room", func(t *testing.T) {
		first := doJSON(t, app, http.MethodPost, "/api/rooms/club",
			map[string]any{"club_id": 8, "name": "Book Club"})
		require.Equal(t, http.StatusCreated, first.StatusCode)
		var a models.Room
		decodeJSON(t, first, &a)

		second := doJSON(t, app, http.MethodPost, "/api/rooms/club",
			map[string]any{"club_id": 8, "name": "Renamed Club"})
		require.Equal(t, http.StatusCreated, second.StatusCode)
		var b models.Room
		decodeJSON(t, second, &b)

		assert.Equal(t, a.ID, b.ID)
		assert.Equal(t, "Book Club", b.Name)
	})

	t.Run("Missing Club ID", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/rooms/club",
			map[string]any{"name": "No Club"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing Name", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/rooms/club",
			map[string]any{"club_id": 9})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCreateCoachRoomHandler(t *testing.T) {
	s := setupTestServer(t)
	coach := createTestUser(t, s, "coach", false)
	app := testApp(s, coach.ID)

	resp := doJSON(t, app, http.MethodPost, "/api/rooms/coach",
		map[string]any{"coach_id": 3, "name": "Coach Corner"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var room models.Room
	decodeJSON(t, resp, &room)
	assert.Equal(t, models.RoomKindCoach, room.Kind)
	require.NotNil(t, room.CoachID)
	assert.Equal(t, uint(3), *room.CoachID)

	m, err := s.memberRepo.Get(context.Background(), room.ID, coach.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.IsAdmin)
}

func TestCreateDirectRoomHandler(t *testing.T) {
	s := setupTestServer(t)
	alice := createTestUser(t, s, "alice", false)
	bob := createTestUser(t, s, "bob", false)

	t.Run("Success", func(t *testing.T) {
		app := testApp(s, alice.ID)
		resp := doJSON(t, app, http.MethodPost, "/api/rooms/direct",
			map[string]any{"user_id": bob.ID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var room models.Room
		decodeJSON(t, resp, &room)
		assert.Equal(t, models.RoomKindDirect, room.Kind)
	})

	t.Run("Reversed Pair Returns Same Room", func(t *testing.T) {
		appA := testApp(s, alice.ID)
		respA := doJSON(t, appA, http.MethodPost, "/api/rooms/direct",
			map[string]any{"user_id": bob.ID})
		require.Equal(t, http.StatusCreated, respA.StatusCode)
		var a models.Room
		decodeJSON(t, respA, &a)

		appB := testApp(s, bob.ID)
		respB := doJSON(t, appB, http.MethodPost, "/api/rooms/direct",
			map[string]any{"user_id": alice.ID})
		require.Equal(t, http.StatusCreated, respB.StatusCode)
		var b models.Room
		decodeJSON(t, respB, &b)

		assert.Equal(t, a.ID, b.ID)
	})

	t.Run("Self Pair Rejected", func(t *testing.T) {
		app := testApp(s, alice.ID)
		resp := doJSON(t, app, http.MethodPost, "/api/rooms/direct",
			map[string]any{"user_id": alice.ID})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing User ID", func(t *testing.T) {
		app := testApp(s, alice.ID)
		resp := doJSON(t, app, http.MethodPost, "/api/rooms/direct",
			map[string]any{})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAddClubMemberHandler(t *testing.T) {
	s := setupTestServer(t)
	manager := createTestUser(t, s, "manager", false)
	joiner := createTestUser(t, s, "joiner", false)
	createTestClubRoom(t, s, 4, manager.ID)
	app := testApp(s, manager.ID)

	t.Run("Success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/rooms/club/4/members",
			map[string]any{"user_id": joiner.ID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var m models.RoomMembership
		decodeJSON(t, resp, &m)
		assert.Equal(t, joiner.ID, m.UserID)
		assert.False(t, m.IsAdmin)
	})

	t.Run("Re-Add Is Idempotent", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/rooms/club/4/members",
			map[string]any{"user_id": joiner.ID})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Missing Club Room", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/rooms/club/999/members",
			map[string]any{"user_id": joiner.ID})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRoomListingHandlers(t *testing.T) {
	s := setupTestServer(t)
	manager := createTestUser(t, s, "manager", false)
	member := createTestUser(t, s, "member", false)
	room := createTestClubRoom(t, s, 1, manager.ID)
	joinRoom(t, s, room.ID, member.ID)

	t.Run("Get My Rooms", func(t *testing.T) {
		app := testApp(s, member.ID)
		resp := doJSON(t, app, http.MethodGet, "/api/rooms/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var rooms []models.Room
		decodeJSON(t, resp, &rooms)
		require.Len(t, rooms, 1)
		assert.Equal(t, room.ID, rooms[0].ID)
	})

	t.Run("Get Room Members", func(t *testing.T) {
		app := testApp(s, member.ID)
		resp := doJSON(t, app, http.MethodGet,
			fmt.Sprintf("/api/rooms/%d/members", room.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var members []models.RoomMembership
		decodeJSON(t, resp, &members)
		assert.Len(t, members, 2)
	})

	t.Run("Members Hidden From Non-Members", func(t *testing.T) {
		outsider := createTestUser(t, s, "outsider", false)
		app := testApp(s, outsider.ID)
		resp := doJSON(t, app, http.MethodGet,
			fmt.Sprintf("/api/rooms/%d/members", room.ID), nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestReadTrackingHandlers(t *testing.T) {
	s := setupTestServer(t)
	manager := createTestUser(t, s, "manager", false)
	member := createTestUser(t, s, "member", false)
	room := createTestClubRoom(t, s, 1, manager.ID)
	joinRoom(t, s, room.ID, member.ID)

	_, err := s.chatService.SendMessage(context.Background(), service.SendMessageInput{
		UserID:  manager.ID,
		RoomID:  room.ID,
		Content: "unread",
	})
	require.NoError(t, err)

	app := testApp(s, member.ID)

	t.Run("Unread Before Mark", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet,
			fmt.Sprintf("/api/rooms/%d/unread", room.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]float64
		decodeJSON(t, resp, &body)
		assert.Equal(t, float64(1), body["unread_count"])
	})

	t.Run("Mark Read Resets Count", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/rooms/%d/read", room.ID), nil)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet,
			fmt.Sprintf("/api/rooms/%d/unread", room.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]float64
		decodeJSON(t, resp, &body)
		assert.Equal(t, float64(0), body["unread_count"])
	})

	t.Run("Mark Read Without Membership", func(t *testing.T) {
		outsider := createTestUser(t, s, "outsider", false)
		outApp := testApp(s, outsider.ID)
		resp := doJSON(t, outApp, http.MethodPost,
			fmt.Sprintf("/api/rooms/%d/read", room.ID), nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
