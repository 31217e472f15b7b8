package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	RoomKeyPrefix      = "room:%d"
	UserRoomsKeyPrefix = "user:%d:rooms"
)

const (
	UserTTL      = 5 * time.Minute
	UserRoomsTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func RoomKey(roomID uint) string {
	return fmt.Sprintf(RoomKeyPrefix, roomID)
}

func UserRoomsKey(userID uint) string {
	return fmt.Sprintf(UserRoomsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateUserRooms drops a user's cached room listing. Called whenever a
// write changes what roomsForUser would return: new memberships, bans,
// unbans, read-marking and message sends.
func InvalidateUserRooms(ctx context.Context, userID uint) {
	Invalidate(ctx, UserRoomsKey(userID))
}
