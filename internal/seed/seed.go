package seed

import (
	"context"
	"fmt"
	"log"

	"clubhouse/internal/models"
	"clubhouse/internal/repository"
	"clubhouse/internal/service"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers         int
	MessagesPerRoom  int
	NumClubs         int
	NumCoaches       int
	NumDirectPairs   int
	ReactionsPerRoom int
	ShouldClean      bool
}

// DefaultOptions returns a small but representative demo dataset.
func DefaultOptions() Options {
	return Options{
		NumUsers:         20,
		MessagesPerRoom:  15,
		NumClubs:         3,
		NumCoaches:       2,
		NumDirectPairs:   5,
		ReactionsPerRoom: 8,
	}
}

// Demo seeds a demo dataset with the default options.
func Demo(db *gorm.DB) error {
	return Run(db, DefaultOptions())
}

// Run seeds users, rooms, memberships, messages and reactions. Room creation
// goes through the orchestration layer so seeded data obeys the same
// invariants as production data.
func Run(db *gorm.DB, opts Options) error {
	ctx := context.Background()

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("failed to clean existing data: %w", err)
		}
	}

	factory := NewFactory(db)
	roomService := service.NewRoomService(db,
		repository.NewRoomRepository(db), repository.NewMembershipRepository(db))

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	if len(users) < 4 {
		return fmt.Errorf("seeding requires at least 4 users, got %d", len(users))
	}

	var rooms []*models.Room

	for i := 0; i < opts.NumClubs; i++ {
		manager := users[i%len(users)]
		room, err := roomService.CreateClubRoom(ctx, service.CreateClubRoomInput{
			ClubID:    uint(i + 1),
			Name:      fmt.Sprintf("Club %d Lounge", i+1),
			ManagerID: manager.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to create club room: %w", err)
		}
		// Enroll roughly half the user pool.
		for j, user := range users {
			if j%2 == i%2 || user.ID == manager.ID {
				continue
			}
			if _, err := roomService.AddMemberToClubRoom(ctx, uint(i+1), user.ID); err != nil {
				return fmt.Errorf("failed to add club member: %w", err)
			}
		}
		rooms = append(rooms, room)
	}

	for i := 0; i < opts.NumCoaches; i++ {
		coach := users[(i+1)%len(users)]
		room, err := roomService.CreateCoachRoom(ctx, service.CreateCoachRoomInput{
			CoachID:     uint(i + 1),
			Name:        fmt.Sprintf("Coach %s", coach.Username),
			CoachUserID: coach.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to create coach room: %w", err)
		}
		rooms = append(rooms, room)
	}

	for i := 0; i < opts.NumDirectPairs; i++ {
		a := users[i%len(users)]
		b := users[(i+len(users)/2)%len(users)]
		if a.ID == b.ID {
			continue
		}
		room, err := roomService.CreateDirectMessageRoom(ctx, a.ID, b.ID)
		if err != nil {
			return fmt.Errorf("failed to create direct room: %w", err)
		}
		rooms = append(rooms, room)
	}

	memberRepo := repository.NewMembershipRepository(db)
	for _, room := range rooms {
		members, err := memberRepo.ListByRoom(ctx, room.ID)
		if err != nil {
			return fmt.Errorf("failed to list room members: %w", err)
		}
		if len(members) == 0 {
			continue
		}

		var messages []*models.ChatMessage
		for i := 0; i < opts.MessagesPerRoom; i++ {
			author := members[i%len(members)]
			message, err := factory.CreateMessage(room.ID, author.UserID, 30)
			if err != nil {
				return fmt.Errorf("failed to create message: %w", err)
			}
			messages = append(messages, message)
		}

		for i := 0; i < opts.ReactionsPerRoom && len(messages) > 0; i++ {
			message := messages[i%len(messages)]
			reactor := members[(i+1)%len(members)]
			if _, err := factory.CreateReaction(message.ID, reactor.UserID); err != nil {
				// Unique triple collisions are expected with random emoji.
				continue
			}
		}
	}

	log.Printf("Seeded %d users and %d rooms", len(users), len(rooms))
	return nil
}

// clean removes all chat data. Order matters for foreign keys.
func clean(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.MessageReaction{},
		&models.ChatMessage{},
		&models.RoomMembership{},
		&models.GlobalBan{},
		&models.Room{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
