package checkout

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// MetadataVersion is the current checkout-session metadata schema version.
// The reconciler refuses payloads carrying any other version.
const MetadataVersion = 1

const (
	metadataKeyVersion   = "v"
	metadataKeyUserID    = "user_id"
	metadataKeyEmail     = "email"
	metadataKeyCourseIDs = "course_ids"
)

// SessionMetadata is the fulfillment payload carried on a checkout session.
// Email is informational for operators reading the provider dashboard; the
// reconciler keys everything on UserID.
type SessionMetadata struct {
	UserID    uuid.UUID
	Email     string
	CourseIDs []uuid.UUID
}

// EncodeMetadata renders the payload into Stripe's string-to-string
// metadata map.
func EncodeMetadata(meta SessionMetadata) (map[string]string, error) {
	if meta.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	if len(meta.CourseIDs) == 0 {
		return nil, fmt.Errorf("at least one course id is required")
	}

	ids := make([]string, 0, len(meta.CourseIDs))
	for _, id := range meta.CourseIDs {
		if id == uuid.Nil {
			return nil, fmt.Errorf("course id cannot be nil")
		}
		ids = append(ids, id.String())
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("marshal course ids: %w", err)
	}

	out := map[string]string{
		metadataKeyVersion:   strconv.Itoa(MetadataVersion),
		metadataKeyUserID:    meta.UserID.String(),
		metadataKeyCourseIDs: string(encoded),
	}
	if meta.Email != "" {
		out[metadataKeyEmail] = meta.Email
	}
	return out, nil
}

// DecodeMetadata parses and validates a metadata map produced by
// EncodeMetadata. Any missing key, version mismatch, or malformed id is an
// error; the reconciler turns these into failed orders rather than guessing.
func DecodeMetadata(raw map[string]string) (*SessionMetadata, error) {
	if raw == nil {
		return nil, fmt.Errorf("metadata is missing")
	}

	version, ok := raw[metadataKeyVersion]
	if !ok {
		return nil, fmt.Errorf("metadata version is missing")
	}
	parsedVersion, err := strconv.Atoi(version)
	if err != nil || parsedVersion != MetadataVersion {
		return nil, fmt.Errorf("unsupported metadata version %q", version)
	}

	userRaw, ok := raw[metadataKeyUserID]
	if !ok || userRaw == "" {
		return nil, fmt.Errorf("metadata user id is missing")
	}
	userID, err := uuid.Parse(userRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid metadata user id %q", userRaw)
	}

	idsRaw, ok := raw[metadataKeyCourseIDs]
	if !ok || idsRaw == "" {
		return nil, fmt.Errorf("metadata course ids are missing")
	}
	var encoded []string
	if err := json.Unmarshal([]byte(idsRaw), &encoded); err != nil {
		return nil, fmt.Errorf("invalid metadata course ids: %w", err)
	}
	if len(encoded) == 0 {
		return nil, fmt.Errorf("metadata course ids are empty")
	}

	seen := make(map[uuid.UUID]bool, len(encoded))
	courseIDs := make([]uuid.UUID, 0, len(encoded))
	for _, value := range encoded {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid course id %q", value)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		courseIDs = append(courseIDs, id)
	}

	return &SessionMetadata{UserID: userID, Email: raw[metadataKeyEmail], CourseIDs: courseIDs}, nil
}
