package models

import (
	"encoding/json"
	"time"
)

// Quote — смета, выставленная пользователю.
type Quote struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Amount      *float64  `json:"amount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	User        *User     `json:"user,omitempty"`
}

// QuoteRequestStatusAnalysed — статус запроса по умолчанию после AI-анализа.
const QuoteRequestStatusAnalysed = "analysed"

// QuoteRequest — запрос на смету с результатами анализа документа.
type QuoteRequest struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DocumentType    *string         `json:"documentType"`
	AIAnalysis      json.RawMessage `json:"aiAnalysis"`
	TasksEstimation json.RawMessage `json:"tasksEstimation"`
	TotalEstimate   *float64        `json:"totalEstimate"`
	TimeEstimate    *int            `json:"timeEstimate"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	User            *User           `json:"user,omitempty"`
}
