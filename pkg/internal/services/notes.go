package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"git.solsynth.dev/hypernet/conference/pkg/internal/database"
	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"github.com/google/generative-ai-go/genai"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// StructuredNotes is the shape the model is asked to produce for one
// meeting transcript.
type StructuredNotes struct {
	Summary      string        `json:"summary"`
	KeyPoints    []string      `json:"keyPoints"`
	Topics       []string      `json:"topics"`
	Slides       []string      `json:"slides"`
	Problems     []NoteProblem `json:"problems"`
	ActionItems  []string      `json:"actionItems"`
	Participants []string      `json:"participants"`
	MeetingType  string        `json:"meetingType"`
	Sentiment    string        `json:"sentiment"`
}

type NoteProblem struct {
	Description string   `json:"description"`
	Suggestions []string `json:"suggestions"`
}

// Notekeeper produces transcripts and structured meeting notes through the
// hosted generative model and persists them. Model failures degrade into a
// valid fallback object; they never propagate out of note generation.
type Notekeeper struct {
	db *gorm.DB
	ai *genai.Client
}

func NewNotekeeper(ctx context.Context, db *gorm.DB) (*Notekeeper, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(viper.GetString("notes.api_key")))
	if err != nil {
		return nil, fmt.Errorf("unable to create generative model client: %v", err)
	}
	return &Notekeeper{db: db, ai: client}, nil
}

func (n *Notekeeper) model() *genai.GenerativeModel {
	name := viper.GetString("notes.model")
	if len(name) == 0 {
		name = "gemini-1.5-pro"
	}
	model := n.ai.GenerativeModel(name)
	model.SetTemperature(0.3)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2000)
	return model
}

const notesPrompt = `You are a professional meeting analyst. Analyze this meeting transcript and generate comprehensive, structured notes.

REQUIRED JSON OUTPUT FORMAT:
{
  "summary": "A comprehensive 3-4 sentence overview of the entire meeting",
  "keyPoints": ["Most important topics and decisions"],
  "topics": ["Main topics discussed"],
  "slides": ["Slide or presentation content mentioned"],
  "problems": [{"description": "A challenge discussed", "suggestions": ["Practical solutions"]}],
  "actionItems": ["Specific tasks with owner and deadline when mentioned"],
  "participants": ["Participant names if clearly mentioned"],
  "meetingType": "brainstorming|decision-making|status-update|problem-solving|planning|presentation",
  "sentiment": "positive|neutral|negative|mixed"
}

Respond with ONLY the JSON object, no additional text or markdown formatting.`

// GenerateNotes asks the model for structured notes. Whatever goes wrong, a
// usable notes object comes back.
func (n *Notekeeper) GenerateNotes(ctx context.Context, transcript string) StructuredNotes {
	resp, err := n.model().GenerateContent(ctx,
		genai.Text(notesPrompt),
		genai.Text(fmt.Sprintf("MEETING TRANSCRIPT:\n\n%s", transcript)),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to generate structured notes, falling back...")
		return FallbackNotes()
	}

	notes, err := ParseStructuredNotes(responseText(resp))
	if err != nil {
		log.Warn().Err(err).Msg("Unable to parse structured notes response, falling back...")
		return FallbackNotes()
	}
	return notes
}

// ParseStructuredNotes decodes the model output, tolerating markdown code
// fences around the JSON body.
func ParseStructuredNotes(raw string) (StructuredNotes, error) {
	var notes StructuredNotes
	cleaned := strings.TrimSpace(regexp.MustCompile("```(?:json)?").ReplaceAllString(raw, ""))
	if len(cleaned) == 0 {
		return notes, fmt.Errorf("empty model response")
	}
	if err := jsoniter.UnmarshalFromString(cleaned, &notes); err != nil {
		return notes, fmt.Errorf("malformed model response: %v", err)
	}
	if len(notes.Summary) == 0 {
		return notes, fmt.Errorf("model response missing summary")
	}
	return notes, nil
}

// FallbackNotes is the degraded-but-valid object returned on any model or
// parse failure.
func FallbackNotes() StructuredNotes {
	return StructuredNotes{
		Summary: "Unable to generate detailed notes due to processing error.",
		KeyPoints: []string{
			"Please check the audio quality and try again",
			"The transcription may contain insufficient content",
		},
		Topics:      []string{},
		Slides:      []string{},
		Problems:    []NoteProblem{},
		ActionItems: []string{},
		MeetingType: "unknown",
		Sentiment:   "neutral",
	}
}

// Transcribe asks the model to transcribe a recording's audio and persists
// the result. A recording without a usable URL yields a completed-but-empty
// transcription rather than an error.
func (n *Notekeeper) Transcribe(ctx context.Context, userID string, recording models.Recording) (models.Transcription, error) {
	transcription := models.Transcription{
		RecordingID: recording.ID,
		Status:      models.TranscriptionStatusProcessing,
		AccountID:   userID,
	}

	if !strings.HasPrefix(recording.URL, "http") {
		transcription.Content = "This file doesn't contain any processable audio content."
		transcription.Status = models.TranscriptionStatusFailed
	} else {
		prompt := fmt.Sprintf(
			"Transcribe the spoken content of the meeting recording at %s. "+
				"Mark speaker changes with [Speaker X] when detectable, use [unclear] for "+
				"inaudible sections, and break paragraphs on topic changes. "+
				"Respond with the transcription text only.",
			recording.URL,
		)
		resp, err := n.model().GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			log.Warn().Err(err).Uint("recording", recording.ID).Msg("Unable to transcribe recording...")
			transcription.Content = "Unable to process audio content due to technical issues."
			transcription.Status = models.TranscriptionStatusFailed
		} else {
			transcription.Content = strings.TrimSpace(responseText(resp))
			transcription.Status = models.TranscriptionStatusCompleted
			transcription.WordCount = len(strings.Fields(transcription.Content))
		}
	}

	err := database.ActAs(n.db, ctx, userID, func(tx *gorm.DB) error {
		return tx.Create(&transcription).Error
	})
	return transcription, err
}

// ComposeNote turns a recording into a persisted note: transcribe, generate
// structured notes, store both.
func (n *Notekeeper) ComposeNote(ctx context.Context, userID string, recording models.Recording) (models.Note, error) {
	var note models.Note

	transcription, err := n.Transcribe(ctx, userID, recording)
	if err != nil {
		return note, fmt.Errorf("unable to store transcription: %v", err)
	}

	notes := n.GenerateNotes(ctx, transcription.Content)

	note = models.Note{
		RecordingID:     &recording.ID,
		TranscriptionID: &transcription.ID,
		Title:           recording.Title,
		Summary:         notes.Summary,
		Content:         transcription.Content,
		Tags:            notes.Topics,
		KeyPoints:       notes.KeyPoints,
		AccountID:       userID,
	}

	err = database.ActAs(n.db, ctx, userID, func(tx *gorm.DB) error {
		return tx.Create(&note).Error
	})
	return note, err
}

func (n *Notekeeper) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	var notes []models.Note
	err := database.ActAs(n.db, ctx, userID, func(tx *gorm.DB) error {
		return tx.
			Where("account_id = ? AND is_deleted = ?", userID, false).
			Order("created_at DESC").
			Find(&notes).Error
	})
	return notes, err
}

// DeleteNote flags a note as deleted; the cleaner purges flagged rows later.
func (n *Notekeeper) DeleteNote(ctx context.Context, userID string, id uint) error {
	return database.ActAs(n.db, ctx, userID, func(tx *gorm.DB) error {
		result := tx.Model(&models.Note{}).
			Where("id = ? AND account_id = ?", id, userID).
			Update("is_deleted", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	parts := lo.FilterMap(resp.Candidates[0].Content.Parts, func(part genai.Part, _ int) (string, bool) {
		if text, ok := part.(genai.Text); ok {
			return string(text), true
		}
		return "", false
	})
	return strings.Join(parts, "")
}
