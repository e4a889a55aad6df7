package models

import "time"

// ProfessionalProfile — профессиональный профиль пользователя (не более одного).
type ProfessionalProfile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Sector            *string   `json:"sector"`
	Specialties       []string  `json:"specialties"`
	YearsOfExperience int       `json:"yearsOfExperience"`
	Skills            []string  `json:"skills"`
	Bio               *string   `json:"bio"`
	HourlyRate        *float64  `json:"hourlyRate"`
	Certifications    []string  `json:"certifications"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
