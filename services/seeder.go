package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/prepview-ai/backend/models"
	"github.com/prepview-ai/backend/repository"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the database with demo users and profiles (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []models.User{
		{
			Email:    "test@example.com",
			Password: string(hashedPassword),
			FullName: "Test User",
			Role:     "user",
		},
		{
			Email:    "demo@example.com",
			Password: string(hashedPassword),
			FullName: "Demo User",
			Role:     "user",
		},
	}

	for _, user := range users {
		if err := s.seedUser(ctx, user); err != nil {
			slog.Error("Failed to seed user", "email", user.Email, "error", err)
		}
	}

	slog.Info("Database seeding completed")
	return nil
}

// seedUser creates the user and a starter profile if neither exists yet.
func (s *DatabaseSeeder) seedUser(ctx context.Context, user models.User) error {
	existing, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := s.repo.CreateUser(ctx, &user); err != nil {
			return err
		}
		existing = &user
	}

	profile, err := s.repo.GetProfileByUserID(ctx, existing.ID)
	if err != nil {
		return err
	}
	if profile != nil {
		return nil
	}

	profile, err = models.NewUserProfile(existing.FullName, existing.Email)
	if err != nil {
		return err
	}
	profile.UserID = existing.ID
	profile.TargetPositions = []string{"Software Engineer"}
	profile.PreferredQuestionTypes = []models.QuestionType{
		models.QuestionBehavioral,
		models.QuestionTechnical,
	}

	return s.repo.CreateProfile(ctx, profile)
}
