package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	JobTitle  *string         `json:"job_title"`
	Role      string          `json:"role"`
	Skills    []SkillResponse `json:"skills"`
	CreatedAt time.Time       `json:"created_at"`
}
