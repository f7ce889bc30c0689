// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devconnector/internal/gravatar"
	"devconnector/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var statuses = []string{
	"Developer", "Junior Developer", "Senior Developer", "Manager",
	"Student or Learning", "Instructor or Teacher", "Intern", "Other",
}

// Seed populates the database with test data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	if err := createProfiles(db, users); err != nil {
		return fmt.Errorf("failed to create profiles: %w", err)
	}

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createEngagement(db, users, posts); err != nil {
		return fmt.Errorf("failed to create likes and comments: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// Children before parents, FK order.
	for _, model := range []any{
		&models.Like{}, &models.Comment{}, &models.Post{},
		&models.Experience{}, &models.Education{}, &models.Profile{},
		&models.User{},
	} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]models.User, error) {
	// One shared hash keeps seeding fast; every account logs in with "password123".
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		email := fmt.Sprintf("%s%d@%s", strings.ToLower(gofakeit.Username()), i, gofakeit.DomainName())
		users = append(users, models.User{
			Name:     name,
			Email:    email,
			Password: string(hashed),
			Avatar:   gravatar.URL(email),
		})
	}
	if err := db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createProfiles(db *gorm.DB, users []models.User) error {
	for _, u := range users {
		// Roughly one in five users never fills in a profile.
		if rand.Intn(5) == 0 {
			continue
		}

		skills := make([]string, 0, 4)
		for j := 0; j < 2+rand.Intn(3); j++ {
			skills = append(skills, gofakeit.ProgrammingLanguage())
		}

		profile := models.Profile{
			UserID:         u.ID,
			Company:        gofakeit.Company(),
			Website:        gofakeit.URL(),
			Location:       gofakeit.City(),
			Status:         statuses[rand.Intn(len(statuses))],
			Skills:         skills,
			Bio:            gofakeit.Sentence(12),
			GithubUsername: strings.ToLower(gofakeit.Username()),
			Social: models.Social{
				Twitter:  "https://twitter.com/" + strings.ToLower(gofakeit.Username()),
				Linkedin: "https://linkedin.com/in/" + strings.ToLower(gofakeit.Username()),
			},
		}
		if err := db.Create(&profile).Error; err != nil {
			return err
		}

		for j := 0; j < 1+rand.Intn(3); j++ {
			from := gofakeit.DateRange(
				time.Now().AddDate(-10, 0, 0), time.Now().AddDate(-1, 0, 0))
			exp := models.Experience{
				ProfileID:   profile.ID,
				Title:       gofakeit.JobTitle(),
				Company:     gofakeit.Company(),
				Location:    gofakeit.City(),
				From:        from,
				Current:     j == 0,
				Description: gofakeit.Sentence(10),
			}
			if !exp.Current {
				to := from.AddDate(0, 6+rand.Intn(30), 0)
				exp.To = &to
			}
			if err := db.Create(&exp).Error; err != nil {
				return err
			}
		}

		edu := models.Education{
			ProfileID:    profile.ID,
			School:       gofakeit.Company() + " University",
			Degree:       "BSc",
			FieldOfStudy: "Computer Science",
			From:         gofakeit.DateRange(time.Now().AddDate(-15, 0, 0), time.Now().AddDate(-8, 0, 0)),
			Description:  gofakeit.Sentence(8),
		}
		if err := db.Create(&edu).Error; err != nil {
			return err
		}
	}
	return nil
}

func createPosts(db *gorm.DB, users []models.User, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		posts = append(posts, models.Post{
			UserID: author.ID,
			Name:   author.Name,
			Avatar: author.Avatar,
			Text:   gofakeit.Paragraph(1, 2+rand.Intn(3), 8, " "),
		})
	}
	if err := db.CreateInBatches(&posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func createEngagement(db *gorm.DB, users []models.User, posts []models.Post) error {
	for _, post := range posts {
		// Shuffle so likers are distinct per post, the unique index demands it.
		perm := rand.Perm(len(users))
		for _, idx := range perm[:rand.Intn(min(len(users), 8))] {
			like := models.Like{PostID: post.ID, UserID: users[idx].ID}
			if err := db.Create(&like).Error; err != nil {
				return err
			}
		}

		for j := 0; j < rand.Intn(4); j++ {
			author := users[rand.Intn(len(users))]
			comment := models.Comment{
				PostID: post.ID,
				UserID: author.ID,
				Name:   author.Name,
				Avatar: author.Avatar,
				Text:   gofakeit.Sentence(6 + rand.Intn(10)),
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
