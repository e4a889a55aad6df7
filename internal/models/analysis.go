package models

import (
	"encoding/json"
	"time"
)

// Analysis — сохранённый результат анализа загруженного файла.
type Analysis struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	FileName       string          `json:"fileName"`
	FileType       *string         `json:"fileType"`
	AnalysisResult json.RawMessage `json:"analysisResult"`
	CreatedAt      time.Time       `json:"createdAt"`
	User           *User           `json:"user,omitempty"`
}
