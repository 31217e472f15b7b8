// Command seed populates the database with demo chat data.
package main

import (
	"flag"
	"log"

	"clubhouse/internal/config"
	"clubhouse/internal/database"
	"clubhouse/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numClubs := flag.Int("clubs", 3, "Number of club rooms to create")
	numCoaches := flag.Int("coaches", 2, "Number of coach rooms to create")
	messagesPerRoom := flag.Int("messages", 15, "Messages per room")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	opts := seed.DefaultOptions()
	opts.NumUsers = *numUsers
	opts.NumClubs = *numClubs
	opts.NumCoaches = *numCoaches
	opts.MessagesPerRoom = *messagesPerRoom
	opts.ShouldClean = *shouldClean

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
