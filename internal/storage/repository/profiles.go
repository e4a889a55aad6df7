package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bdd-service/internal/lib/patch"
	"github.com/magabrotheeeer/bdd-service/internal/models"
)

const profileColumns = `id, user_id, sector, specialties, years_of_experience, skills, bio,
	hourly_rate, certifications, created_at, updated_at`

func scanProfile(row rowScanner) (*models.ProfessionalProfile, error) {
	var (
		p                                   models.ProfessionalProfile
		specialties, skills, certifications []byte
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Sector, &specialties, &p.YearsOfExperience,
		&skills, &p.Bio, &p.HourlyRate, &certifications, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Specialties, err = decodeStringList(specialties); err != nil {
		return nil, err
	}
	if p.Skills, err = decodeStringList(skills); err != nil {
		return nil, err
	}
	if p.Certifications, err = decodeStringList(certifications); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeStringList(b []byte) ([]string, error) {
	list := []string{}
	if len(b) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func encodeStringList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateProfile сохраняет профессиональный профиль пользователя.
// Второй профиль того же пользователя — ErrConflict.
func (s *Storage) CreateProfile(ctx context.Context, p models.ProfessionalProfile) (*models.ProfessionalProfile, error) {
	const op = "storage.CreateProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	specialties, err := encodeStringList(p.Specialties)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	skills, err := encodeStringList(p.Skills)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	certifications, err := encodeStringList(p.Certifications)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO professional_profiles (id, user_id, sector, specialties,
			      years_of_experience, skills, bio, hourly_rate, certifications)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + profileColumns
	created, err := scanProfile(s.DB.QueryRowContext(ctx, query,
		p.ID, p.UserID, p.Sector, specialties, p.YearsOfExperience, skills, p.Bio,
		p.HourlyRate, certifications))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetProfileByUser возвращает профиль пользователя.
func (s *Storage) GetProfileByUser(ctx context.Context, userID string) (*models.ProfessionalProfile, error) {
	const op = "storage.GetProfileByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p, err := scanProfile(s.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM professional_profiles WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// UpdateProfileByUser применяет набор изменений к профилю пользователя.
func (s *Storage) UpdateProfileByUser(ctx context.Context, userID string, set patch.Set) (*models.ProfessionalProfile, error) {
	const op = "storage.UpdateProfileByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args := buildUpdate("professional_profiles", "user_id", userID, set, true, profileColumns)
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// DeleteProfileByUser удаляет профиль пользователя.
func (s *Storage) DeleteProfileByUser(ctx context.Context, userID string) error {
	const op = "storage.DeleteProfileByUser"
	return s.deleteByKey(ctx, op, "professional_profiles", "user_id", userID)
}
