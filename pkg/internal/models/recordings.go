package models

import (
	"time"
)

type RecordingStatus = string

const (
	RecordingStatusProcessing = RecordingStatus("processing")
	RecordingStatusReady      = RecordingStatus("ready")
	RecordingStatusFailed     = RecordingStatus("failed")
	RecordingStatusDeleted    = RecordingStatus("deleted")
)

type RecordingType = string

const (
	RecordingTypeVideo     = RecordingType("video")
	RecordingTypeAudio     = RecordingType("audio")
	RecordingTypeComposite = RecordingType("composite")
)

type Recording struct {
	BaseModel

	// ExternalID equals the filename reported by the video platform.
	// Two calls emitting the same filename will collide on this key;
	// upstream keys its recordings by filename today, so we keep it.
	ExternalID     string `json:"external_id" gorm:"uniqueIndex"`
	CallExternalID string `json:"call_external_id" gorm:"index"`

	Title       string     `json:"title"`
	URL         string     `json:"url"`
	DownloadURL string     `json:"download_url"`
	Filename    string     `json:"filename"`
	Duration    int        `json:"duration"`
	FileSize    int64      `json:"file_size"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`

	Status     RecordingStatus `json:"status"`
	Resolution string          `json:"resolution"`
	Type       RecordingType   `json:"type" gorm:"column:recording_type"`
	AccountID  string          `json:"account_id" gorm:"index"`

	Call *Call `json:"call,omitempty" gorm:"foreignKey:CallExternalID;references:ExternalID"`
}
