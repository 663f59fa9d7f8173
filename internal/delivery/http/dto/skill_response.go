package dto

type SkillResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
