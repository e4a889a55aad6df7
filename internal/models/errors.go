package models

import "errors"

// Доменные ошибки. Слои хранилища и сервисов оборачивают их через %w,
// а HTTP-слой сопоставляет их со статусами ответа.
var (
	// ErrValidation — отсутствуют или некорректны обязательные поля (400).
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized — неверные учётные данные при входе (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound — запрошенная сущность не существует (404).
	ErrNotFound = errors.New("not found")
	// ErrConflict — нарушение уникальности или попытка захвата чужого аккаунта (409).
	ErrConflict = errors.New("conflict")
)
