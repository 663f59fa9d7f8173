package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditRecordResponse struct {
	ID        int64           `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Username  *string         `json:"username"`
	IPAddress *string         `json:"ip_address"`
	Algorithm string          `json:"algorithm"`
	Result    json.RawMessage `json:"recommendation_result"`
	CreatedAt time.Time       `json:"created_at"`
}

type AuditHistoryResponse struct {
	Total   int64                 `json:"total"`
	Skip    int                   `json:"skip"`
	Limit   int                   `json:"limit"`
	Records []AuditRecordResponse `json:"records"`
}
