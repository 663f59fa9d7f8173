package dto

type UserSkillResponse struct {
	SkillID   int64  `json:"skill_id"`
	SkillName string `json:"skill_name"`
}
