// Package seed provides helpers to create development and demo data for the
// chat database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"clubhouse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a user with a generated identity. Overrides run before
// the insert.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  gofakeit.Username(),
		Email:     gofakeit.Email(),
		Password:  string(hashed),
		AvatarURL: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", uuid.NewString()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateMessage persists a message with generated content and a realistic
// created_at spread over the past maxDays days.
func (f *Factory) CreateMessage(roomID, authorID uint, maxDays int, overrides ...func(*models.ChatMessage)) (*models.ChatMessage, error) {
	if maxDays <= 0 {
		maxDays = 30
	}
	back := time.Duration(f.rnd.Intn(maxDays*24*60)) * time.Minute

	message := &models.ChatMessage{
		RoomID:    roomID,
		AuthorID:  authorID,
		Content:   gofakeit.Sentence(f.rnd.Intn(12) + 3),
		ImageURLs: models.StringList{},
		CreatedAt: time.Now().Add(-back),
	}
	if f.rnd.Intn(5) == 0 {
		message.ImageURLs = models.StringList{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/600", uuid.NewString()),
		}
	}
	for _, override := range overrides {
		override(message)
	}
	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// CreateReaction persists a reaction with a random emoji.
func (f *Factory) CreateReaction(messageID, userID uint) (*models.MessageReaction, error) {
	emojis := []string{"👍", "❤️", "😂", "🔥", "🎉", "💪"}
	reaction := &models.MessageReaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emojis[f.rnd.Intn(len(emojis))],
	}
	if err := f.db.Create(reaction).Error; err != nil {
		return nil, err
	}
	return reaction, nil
}
