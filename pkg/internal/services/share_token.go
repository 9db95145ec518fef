package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

type PlaybackClaims struct {
	UserID      string `json:"user_id"`
	RecordingID uint   `json:"recording_id"`
	jwt.RegisteredClaims
}

// CreatePlaybackToken signs a short-lived token granting playback access to
// one recording, so share links work without a full session.
func CreatePlaybackToken(recordingId uint, userId string) (string, error) {
	claims := PlaybackClaims{
		UserID:      userId,
		RecordingID: recordingId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "conference",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24 * 7)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tks, err := token.SignedString([]byte(viper.GetString("security.share_token_secret")))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return tks, nil
}

func ParsePlaybackToken(tk string) (PlaybackClaims, error) {
	var claims PlaybackClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return []byte(viper.GetString("security.share_token_secret")), nil
	})
	if err != nil {
		return claims, err
	}
	if !token.Valid {
		return claims, fmt.Errorf("invalid token")
	}
	return claims, nil
}
