// Command main runs the database seeder for FarmSphere.
package main

import (
	"context"
	"flag"
	"log"

	"farmsphere/internal/config"
	"farmsphere/internal/database"
	"farmsphere/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	numChats := flag.Int("chats", defaults.NumChats, "Number of chat rooms to fill")
	seedValue := flag.Int64("seed", 0, "Random seed, 0 for a random run")
	shouldClean := flag.Bool("clean", defaults.ShouldClean, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts, %d chats, clean=%v\n", *numUsers, *numPosts, *numChats, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	opts := defaults
	opts.NumUsers = *numUsers
	opts.NumPosts = *numPosts
	opts.NumChats = *numChats
	opts.Seed = *seedValue
	opts.ShouldClean = *shouldClean

	sum, err := seed.NewSeeder(db, opts.Seed).Run(ctx, opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Done: %d users, %d posts, %d comments, %d likes, %d messages\n",
		sum.Users, sum.Posts, sum.Comments, sum.Likes, sum.Messages)
}
