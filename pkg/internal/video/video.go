package video

import (
	"context"
	"time"
)

// Call is a session as reported by the video platform.
type Call struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	StartsAt         *time.Time     `json:"starts_at"`
	EndedAt          *time.Time     `json:"ended_at"`
	CreatedBy        string         `json:"created_by"`
	ParticipantCount int            `json:"participant_count"`
	Duration         int            `json:"duration"`
	Custom           map[string]any `json:"custom"`
}

// Recording is a capture artifact as reported by the video platform.
// URL may be empty while the platform is still processing the file.
type Recording struct {
	Filename    string     `json:"filename"`
	URL         string     `json:"url"`
	DownloadURL string     `json:"download_url"`
	Duration    float64    `json:"duration"`
	StartedAt   *time.Time `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
	Resolution  string     `json:"resolution"`
}

// Client is the video platform surface this service depends on. The
// implementation owns connection lifecycle; a Client handed to the services
// layer is assumed authenticated and connected.
type Client interface {
	// QueryCalls lists calls the given user created or joined, sorted by
	// start time descending.
	QueryCalls(ctx context.Context, userID string) ([]Call, error)
	// QueryRecordings lists the recordings captured during one call.
	QueryRecordings(ctx context.Context, callID string) ([]Recording, error)
	// DeleteRecording removes a capture from the platform-side storage,
	// addressed by its parent call and filename.
	DeleteRecording(ctx context.Context, callID, filename string) error
}
