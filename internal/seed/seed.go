// Package seed fills a database with demo users, idioms and community activity.
// It is meant for development and tests only.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

type Options struct {
	Users       int
	Idioms      int
	ShouldClean bool
}

// Summary counts what a run inserted.
type Summary struct {
	Users      int
	Idioms     int
	Votes      int
	Comments   int
	Replies    int
	Reactions  int
	Favourites int
}

type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
}

// NewSeeder returns a seeder whose random choices are driven by randSeed. Zero picks a seed.
func NewSeeder(db *gorm.DB, randSeed int64) *Seeder {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	return &Seeder{db: db, faker: gofakeit.New(randSeed)}
}

type idiomTemplate struct {
	title, meaning, example, category string
}

var idiomTemplates = []idiomTemplate{
	{"Break the ice", "To start a conversation in an awkward situation", "He told a joke to break the ice.", "social"},
	{"Piece of cake", "Something very easy", "The exam was a piece of cake.", "everyday"},
	{"Hit the sack", "To go to bed", "I'm exhausted, time to hit the sack.", "everyday"},
	{"Under the weather", "Feeling slightly ill", "She stayed home because she was under the weather.", "health"},
	{"Spill the beans", "To reveal a secret", "Who spilled the beans about the party?", "social"},
	{"Cost an arm and a leg", "To be very expensive", "That car cost an arm and a leg.", "money"},
	{"Once in a blue moon", "Very rarely", "We only eat out once in a blue moon.", "time"},
	{"Bite the bullet", "To face something difficult bravely", "I bit the bullet and called the dentist.", "courage"},
	{"The ball is in your court", "It is your turn to act", "I've made my offer, the ball is in your court.", "business"},
	{"Let the cat out of the bag", "To reveal a secret by mistake", "She let the cat out of the bag about the wedding.", "social"},
	{"Burn the midnight oil", "To work late into the night", "Students burn the midnight oil before exams.", "work"},
	{"Hit the nail on the head", "To describe exactly what is causing a problem", "You hit the nail on the head with that comment.", "communication"},
}

var difficulties = []string{"beginner", "intermediate", "advanced"}

// Run inserts demo data according to opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Users < 2 {
		return nil, fmt.Errorf("at least 2 users are required, got %d", opts.Users)
	}
	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	summary := &Summary{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := s.seedUsers(tx, opts.Users)
		if err != nil {
			return err
		}
		summary.Users = len(users)

		idioms, err := s.seedIdioms(tx, users, opts.Idioms)
		if err != nil {
			return err
		}
		summary.Idioms = len(idioms)

		return s.seedActivity(tx, users, idioms, summary)
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ClearAll removes every row the application owns, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []any{
		&models.Reaction{}, &models.Reply{}, &models.Comment{}, &models.IdiomVote{},
		&models.Favourite{}, &models.Idiom{}, &models.User{},
	}
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, t := range tables {
		if err := db.Delete(t).Error; err != nil {
			return fmt.Errorf("clear %T: %w", t, err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(tx *gorm.DB, n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, n)
	for i := range users {
		username := fmt.Sprintf("%s%d", s.faker.Username(), i)
		if len(username) > 50 {
			username = username[len(username)-50:]
		}
		users[i] = models.User{
			Username: username,
			Email:    fmt.Sprintf("demo%d@example.com", i),
			Password: string(hashed),
			FullName: s.faker.Name(),
			Bio:      s.faker.Sentence(8),
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%d", i),
			Level:    s.pick(difficulties),
		}
	}
	if err := tx.CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

func (s *Seeder) seedIdioms(tx *gorm.DB, users []models.User, n int) ([]models.Idiom, error) {
	if n <= 0 || n > len(idiomTemplates) {
		n = len(idiomTemplates)
	}

	idioms := make([]models.Idiom, n)
	for i := range idioms {
		tpl := idiomTemplates[i]
		idioms[i] = models.Idiom{
			Title:       tpl.title,
			Meaning:     tpl.meaning,
			Example:     tpl.example,
			Explanation: fmt.Sprintf("**%s** %s", tpl.title, s.faker.Paragraph(1, 2, 10, " ")),
			Etymology:   s.faker.Sentence(12),
			Category:    tpl.category,
			Difficulty:  s.pick(difficulties),
			Tags:        []string{tpl.category, s.faker.Word()},
			AuthorID:    users[s.faker.Number(0, len(users)-1)].ID,
		}
	}
	if err := tx.Omit("User").CreateInBatches(&idioms, 100).Error; err != nil {
		return nil, fmt.Errorf("seed idioms: %w", err)
	}
	return idioms, nil
}

// seedActivity gives each idiom votes, favourites and a small comment tree. Every
// (target, user) pair is drawn once so the unique indexes hold.
func (s *Seeder) seedActivity(tx *gorm.DB, users []models.User, idioms []models.Idiom, summary *Summary) error {
	for _, idiom := range idioms {
		for _, u := range s.sample(users) {
			vote := models.VoteUp
			if s.faker.Number(1, 4) == 1 {
				vote = models.VoteDown
			}
			if err := tx.Create(&models.IdiomVote{IdiomID: idiom.ID, UserID: u.ID, VoteType: vote}).Error; err != nil {
				return fmt.Errorf("seed votes: %w", err)
			}
			summary.Votes++
		}

		for _, u := range s.sample(users) {
			if !s.faker.Bool() {
				continue
			}
			if err := tx.Create(&models.Favourite{UserID: u.ID, IdiomID: idiom.ID}).Error; err != nil {
				return fmt.Errorf("seed favourites: %w", err)
			}
			summary.Favourites++
		}

		base := time.Now().UTC().Add(-time.Duration(s.faker.Number(24, 24*30)) * time.Hour)
		for i, n := 0, s.faker.Number(0, 4); i < n; i++ {
			at := base.Add(time.Duration(i) * time.Hour)
			comment := models.Comment{
				Content:   s.faker.Sentence(s.faker.Number(5, 15)),
				AuthorID:  s.pickUser(users).ID,
				IdiomID:   idiom.ID,
				CreatedAt: at,
				UpdatedAt: at,
			}
			if err := tx.Omit("User", "Replies").Create(&comment).Error; err != nil {
				return fmt.Errorf("seed comments: %w", err)
			}
			summary.Comments++
			if err := s.seedReactions(tx, users, models.TargetComment, comment.ID, summary); err != nil {
				return err
			}

			for j, m := 0, s.faker.Number(0, 3); j < m; j++ {
				rat := at.Add(time.Duration(j+1) * time.Minute)
				reply := models.Reply{
					Content:   s.faker.Sentence(s.faker.Number(3, 10)),
					AuthorID:  s.pickUser(users).ID,
					CommentID: comment.ID,
					CreatedAt: rat,
					UpdatedAt: rat,
				}
				if err := tx.Omit("User").Create(&reply).Error; err != nil {
					return fmt.Errorf("seed replies: %w", err)
				}
				summary.Replies++
				if err := s.seedReactions(tx, users, models.TargetReply, reply.ID, summary); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Seeder) seedReactions(tx *gorm.DB, users []models.User, target models.TargetType, targetID int, summary *Summary) error {
	for _, u := range s.sample(users) {
		kind := models.ReactionLike
		if s.faker.Number(1, 3) == 1 {
			kind = models.ReactionDislike
		}
		r := models.Reaction{TargetType: target, TargetID: targetID, UserID: u.ID, Kind: kind}
		if err := tx.Create(&r).Error; err != nil {
			return fmt.Errorf("seed reactions: %w", err)
		}
		summary.Reactions++
	}
	return nil
}

// sample returns a random subset of users without repeats.
func (s *Seeder) sample(users []models.User) []models.User {
	shuffled := append([]models.User(nil), users...)
	s.faker.ShuffleAnySlice(shuffled)
	return shuffled[:s.faker.Number(0, len(shuffled))]
}

func (s *Seeder) pickUser(users []models.User) models.User {
	return users[s.faker.Number(0, len(users)-1)]
}

func (s *Seeder) pick(values []string) string {
	return values[s.faker.Number(0, len(values)-1)]
}
