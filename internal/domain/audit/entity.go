package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type RecommendationRecord struct {
	ID        int64
	UserID    uuid.UUID
	Username  *string
	IPAddress *string
	Algorithm string
	Result    json.RawMessage
	CreatedAt time.Time
}
