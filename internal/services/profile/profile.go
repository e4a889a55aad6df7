// Package profile содержит операции над профессиональными профилями.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sanitize"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

// Repository определяет методы хранилища профилей.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, set patch.Set) (*models.User, error)
	CreateProfile(ctx context.Context, p models.ProfessionalProfile) (*models.ProfessionalProfile, error)
	GetProfileByUser(ctx context.Context, userID string) (*models.ProfessionalProfile, error)
	UpdateProfileByUser(ctx context.Context, userID string, set patch.Set) (*models.ProfessionalProfile, error)
	DeleteProfileByUser(ctx context.Context, userID string) error
}

// UpdateFields — поля профиля, которые можно менять через PUT.
var UpdateFields = patch.Fields{
	"sector":            patch.NullableString("sector"),
	"specialties":       patch.StringList("specialties"),
	"yearsOfExperience": patch.Int("years_of_experience"),
	"skills":            patch.StringList("skills"),
	"bio":               patch.NullableString("bio").Clean(sanitize.Text),
	"hourlyRate":        patch.NullableFloat("hourly_rate"),
	"certifications":    patch.StringList("certifications"),
}

// CreateInput — данные нового профиля.
type CreateInput struct {
	UserID            string
	Sector            *string
	Specialties       []string
	YearsOfExperience int
	Skills            []string
	Bio               *string
	HourlyRate        *float64
	Certifications    []string
}

// Service реализует операции над профилями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create сохраняет профиль существующего пользователя и отмечает профиль
// пользователя заполненным. Второй профиль — models.ErrConflict.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.ProfessionalProfile, error) {
	const op = "profile.Create"

	if in.UserID == "" {
		return nil, fmt.Errorf("%s: %w: userId is required", op, models.ErrValidation)
	}
	if _, err := s.repo.GetUserByID(ctx, in.UserID); err != nil {
		return nil, fmt.Errorf("%s: user %s: %w", op, in.UserID, err)
	}
	_, err := s.repo.GetProfileByUser(ctx, in.UserID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%s: %w: profile already exists for this user", op, models.ErrConflict)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bio := sanitize.TextPtr(in.Bio)
	if bio != nil && *bio == "" {
		bio = nil
	}
	p, err := s.repo.CreateProfile(ctx, models.ProfessionalProfile{
		UserID:            in.UserID,
		Sector:            in.Sector,
		Specialties:       in.Specialties,
		YearsOfExperience: in.YearsOfExperience,
		Skills:            in.Skills,
		Bio:               bio,
		HourlyRate:        in.HourlyRate,
		Certifications:    in.Certifications,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var set patch.Set
	set.Add("is_profile_completed", true)
	if _, err = s.repo.UpdateUser(ctx, in.UserID, set); err != nil {
		return nil, fmt.Errorf("%s: mark profile completed: %w", op, err)
	}
	s.log.Info("professional profile created", slog.String("user_id", in.UserID))
	return p, nil
}

// GetByUser возвращает профиль пользователя. Неизвестный пользователь
// и отсутствующий профиль одинаково дают models.ErrNotFound.
func (s *Service) GetByUser(ctx context.Context, userID string) (*models.ProfessionalProfile, error) {
	const op = "profile.GetByUser"

	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: user %s: %w", op, userID, err)
	}
	p, err := s.repo.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Update применяет разрешённые изменения к профилю пользователя.
func (s *Service) Update(ctx context.Context, userID string, set patch.Set) (*models.ProfessionalProfile, error) {
	const op = "profile.Update"

	p, err := s.repo.UpdateProfileByUser(ctx, userID, set)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Delete удаляет профиль пользователя.
func (s *Service) Delete(ctx context.Context, userID string) error {
	const op = "profile.Delete"

	if err := s.repo.DeleteProfileByUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
