package video

import (
	"context"
	"fmt"
	"sort"
	"time"

	"git.solsynth.dev/hypernet/conference/pkg/internal/storage"
	jsoniter "github.com/json-iterator/go"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// LiveKit talks to a hosted LiveKit deployment. Rooms are calls; egress
// file results are recordings. Egress writes its files into the object
// storage bucket, so file-level operations go through there.
type LiveKit struct {
	rooms  *lksdk.RoomServiceClient
	egress *lksdk.EgressClient
	bucket *storage.Bucket
}

type roomMetadata struct {
	Creator string   `json:"creator"`
	Title   string   `json:"title"`
	Members []string `json:"members"`
}

func NewLiveKit(bucket *storage.Bucket) *LiveKit {
	host := "https://" + viper.GetString("calling.endpoint")
	apiKey := viper.GetString("calling.api_key")
	apiSecret := viper.GetString("calling.api_secret")

	return &LiveKit{
		rooms:  lksdk.NewRoomServiceClient(host, apiKey, apiSecret),
		egress: lksdk.NewEgressClient(host, apiKey, apiSecret),
		bucket: bucket,
	}
}

func (v *LiveKit) QueryCalls(ctx context.Context, userID string) ([]Call, error) {
	if len(userID) == 0 {
		return nil, nil
	}

	var out []Call
	seen := make(map[string]bool)

	res, err := v.rooms.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		return nil, fmt.Errorf("unable to list rooms: %v", err)
	}

	for _, room := range res.Rooms {
		var meta roomMetadata
		if len(room.Metadata) > 0 {
			_ = jsoniter.UnmarshalFromString(room.Metadata, &meta)
		}
		if meta.Creator != userID && !lo.Contains(meta.Members, userID) {
			continue
		}

		startsAt := time.Unix(room.CreationTime, 0)
		seen[room.Name] = true
		out = append(out, Call{
			ID:               room.Name,
			Title:            meta.Title,
			StartsAt:         &startsAt,
			CreatedBy:        meta.Creator,
			ParticipantCount: int(room.NumParticipants),
		})
	}

	// Rooms the platform already tore down only survive as egress records.
	// Those carry no membership metadata anymore; ownership is settled by
	// the durable store when the rows are synced.
	egresses, err := v.egress.ListEgress(ctx, &livekit.ListEgressRequest{})
	if err != nil {
		return out, fmt.Errorf("unable to list egresses: %v", err)
	}

	for _, item := range egresses.Items {
		if seen[item.RoomName] {
			continue
		}
		seen[item.RoomName] = true

		call := Call{
			ID:        item.RoomName,
			CreatedBy: userID,
			StartsAt:  tsFromNanos(item.StartedAt),
			EndedAt:   tsFromNanos(item.EndedAt),
		}
		if call.StartsAt != nil && call.EndedAt != nil {
			call.Duration = int(call.EndedAt.Sub(*call.StartsAt).Seconds())
		}
		out = append(out, call)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].StartsAt, out[j].StartsAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})

	return out, nil
}

func (v *LiveKit) QueryRecordings(ctx context.Context, callID string) ([]Recording, error) {
	res, err := v.egress.ListEgress(ctx, &livekit.ListEgressRequest{
		RoomName: callID,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list egresses of room %s: %v", callID, err)
	}

	var out []Recording
	for _, item := range res.Items {
		for _, file := range item.FileResults {
			recording := Recording{
				Filename:  file.Filename,
				URL:       file.Location,
				Duration:  time.Duration(file.Duration).Seconds(),
				StartedAt: tsFromNanos(file.StartedAt),
				EndedAt:   tsFromNanos(file.EndedAt),
			}
			if v.bucket != nil && len(file.Filename) > 0 {
				if url, err := v.bucket.PresignDownload(ctx, file.Filename); err == nil {
					recording.DownloadURL = url
				} else {
					log.Warn().Err(err).Str("filename", file.Filename).Msg("Unable to presign recording download url...")
				}
			}
			out = append(out, recording)
		}
	}

	return out, nil
}

func (v *LiveKit) DeleteRecording(ctx context.Context, callID, filename string) error {
	if v.bucket == nil {
		return fmt.Errorf("no recording storage configured")
	}
	if err := v.bucket.Remove(ctx, filename); err != nil {
		return fmt.Errorf("unable to delete recording %s of call %s: %v", filename, callID, err)
	}
	return nil
}

// CreateCall opens a new room with the creator recorded in its metadata.
func (v *LiveKit) CreateCall(ctx context.Context, id string, creator string, title string, members []string) error {
	metadata, _ := jsoniter.MarshalToString(roomMetadata{
		Creator: creator,
		Title:   title,
		Members: members,
	})

	_, err := v.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:            id,
		EmptyTimeout:    viper.GetUint32("calling.empty_timeout_duration"),
		MaxParticipants: viper.GetUint32("calling.max_participants"),
		Metadata:        metadata,
	})
	if err != nil {
		return fmt.Errorf("remote livekit error: %v", err)
	}
	return nil
}

func (v *LiveKit) EndCall(ctx context.Context, id string) error {
	_, err := v.rooms.DeleteRoom(ctx, &livekit.DeleteRoomRequest{
		Room: id,
	})
	return err
}

// EncodeCallToken issues a join token for one room.
func (v *LiveKit) EncodeCallToken(callID string, user string, nick string, admin bool) (string, error) {
	grant := &auth.VideoGrant{
		Room:      callID,
		RoomJoin:  true,
		RoomAdmin: admin,
	}

	duration := time.Second * time.Duration(viper.GetInt("calling.token_duration"))
	tk := auth.NewAccessToken(viper.GetString("calling.api_key"), viper.GetString("calling.api_secret"))
	tk.AddGrant(grant).
		SetIdentity(user).
		SetName(nick).
		SetValidFor(duration)

	return tk.ToJWT()
}

func tsFromNanos(n int64) *time.Time {
	if n <= 0 {
		return nil
	}
	ts := time.Unix(0, n)
	return &ts
}
