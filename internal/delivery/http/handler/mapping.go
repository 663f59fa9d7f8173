package handler

import (
	"skill-compass/internal/delivery/http/dto"
	"skill-compass/internal/domain/user"
	"skill-compass/internal/usecase"
)

func toUserResponse(usr user.User, skills []usecase.UserSkillItem) dto.UserResponse {
	out := make([]dto.SkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, dto.SkillResponse{ID: s.SkillID, Name: s.SkillName})
	}

	return dto.UserResponse{
		ID:        usr.ID,
		Username:  usr.Username,
		Email:     usr.Email,
		JobTitle:  usr.JobTitle,
		Role:      usr.Role,
		Skills:    out,
		CreatedAt: usr.CreatedAt,
	}
}

func toJobResponse(it usecase.JobItem) dto.JobResponse {
	return dto.JobResponse{
		ID:          it.ID,
		Title:       it.Title,
		Company:     it.Company,
		Location:    it.Location,
		Description: it.Description,
		Skills:      it.Skills,
		CreatedAt:   it.CreatedAt,
	}
}
