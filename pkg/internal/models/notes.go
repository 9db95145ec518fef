package models

import (
	"gorm.io/datatypes"
)

type TranscriptionStatus = string

const (
	TranscriptionStatusProcessing = TranscriptionStatus("processing")
	TranscriptionStatusCompleted  = TranscriptionStatus("completed")
	TranscriptionStatusFailed     = TranscriptionStatus("failed")
)

type Transcription struct {
	BaseModel

	RecordingID uint      `json:"recording_id" gorm:"index"`
	Recording   Recording `json:"recording"`

	Content         string              `json:"content" gorm:"type:text"`
	Language        string              `json:"language"`
	ConfidenceScore float64             `json:"confidence_score"`
	WordCount       int                 `json:"word_count"`
	Status          TranscriptionStatus `json:"status"`
	AccountID       string              `json:"account_id" gorm:"index"`
}

type Note struct {
	BaseModel

	RecordingID     *uint `json:"recording_id"`
	TranscriptionID *uint `json:"transcription_id"`

	Title   string `json:"title"`
	Content string `json:"content" gorm:"type:text"`
	Summary string `json:"summary" gorm:"type:text"`

	Tags           datatypes.JSONSlice[string] `json:"tags"`
	KeyPoints      datatypes.JSONSlice[string] `json:"key_points"`
	SentimentScore float64                     `json:"sentiment_score"`

	IsArchived bool `json:"is_archived"`
	IsFavorite bool `json:"is_favorite"`
	IsDeleted  bool `json:"is_deleted"`

	AccountID string `json:"account_id" gorm:"index"`
}
