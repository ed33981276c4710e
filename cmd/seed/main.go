// Command seed populates the database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/emilythestrangee/idiom-hub/backend/internal/config"
	"github.com/emilythestrangee/idiom-hub/backend/internal/database"
	"github.com/emilythestrangee/idiom-hub/backend/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numIdioms := flag.Int("idioms", 0, "Number of idioms to create (0 means all built-in idioms)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	summary, err := seed.NewSeeder(db.GetDB(), *randSeed).Run(context.Background(), seed.Options{
		Users:       *numUsers,
		Idioms:      *numIdioms,
		ShouldClean: *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d idioms, %d votes, %d comments, %d replies, %d reactions, %d favourites",
		summary.Users, summary.Idioms, summary.Votes, summary.Comments, summary.Replies, summary.Reactions, summary.Favourites)
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
