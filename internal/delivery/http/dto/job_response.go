package dto

import "time"

type JobResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	CreatedAt   time.Time `json:"created_at"`
}

type JobListResponse struct {
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Pages int           `json:"pages"`
	Items []JobResponse `json:"items"`
}
