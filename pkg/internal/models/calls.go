package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type CallStatus = string

const (
	CallStatusScheduled = CallStatus("scheduled")
	CallStatusOngoing   = CallStatus("ongoing")
	CallStatusEnded     = CallStatus("ended")
)

type Call struct {
	BaseModel

	ExternalID  string     `json:"external_id" gorm:"uniqueIndex"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	StartsAt    *time.Time `json:"starts_at"`
	EndedAt     *time.Time `json:"ended_at"`

	AccountID        string            `json:"account_id" gorm:"index"`
	ParticipantCount int               `json:"participant_count"`
	Duration         int               `json:"duration"`
	Status           CallStatus        `json:"status"`
	CustomData       datatypes.JSONMap `json:"custom_data"`

	Recordings []Recording `json:"recordings,omitempty" gorm:"foreignKey:CallExternalID;references:ExternalID"`
}

func (v Call) DisplayText() string {
	if len(v.Title) > 0 {
		return v.Title
	}
	return fmt.Sprintf("Call %s", v.ExternalID)
}
