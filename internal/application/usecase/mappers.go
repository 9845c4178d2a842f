package usecase

import (
	"github.com/jhoicas/taskhub-api/internal/application/dto"
	"github.com/jhoicas/taskhub-api/internal/domain"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
)

var errNoFields = domain.Invalid("No hay campos válidos para actualizar")

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:               t.ID,
		Name:             t.Name,
		Subdomain:        t.Subdomain,
		Status:           string(t.Status),
		SubscriptionPlan: string(t.SubscriptionPlan),
		MaxUsers:         t.MaxUsers,
		MaxProjects:      t.MaxProjects,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func toProjectResponse(s *entity.ProjectSummary) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:                 s.ID,
		TenantID:           s.TenantID,
		Name:               s.Name,
		Description:        s.Description,
		Status:             string(s.Status),
		CreatedBy:          dto.CreatorRef{ID: s.CreatedBy, FullName: s.CreatorName},
		TaskCount:          s.TaskCount,
		CompletedTaskCount: s.CompletedTaskCount,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func toTaskResponse(t *entity.Task, assignee *entity.Assignee) dto.TaskResponse {
	out := dto.TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		TenantID:    t.TenantID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     dto.DatePtr(t.DueDate),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if assignee != nil {
		out.AssignedTo = &dto.AssigneeResponse{ID: assignee.ID, FullName: assignee.FullName, Email: assignee.Email}
	}
	return out
}
