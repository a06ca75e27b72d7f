package service

import (
	"context"
	"encoding/json"
	"strings"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
)

type NoticeService struct {
	Store repository.NoticeStore
}

type CreateNoticeInput struct {
	Title       string
	Description string
	AdminID     int64
	IsImportant bool
}

type UpdateNoticeInput struct {
	Title       *string
	Description *string
	IsImportant *bool
	ActorID     int64
}

func noticeActivity(kind, title string, actor int64) repository.Audit[domain.Notice] {
	return func(n domain.Notice) []repository.NewActivity {
		meta, _ := json.Marshal(map[string]any{"noticeId": n.ID})
		return []repository.NewActivity{{
			Type:        kind,
			Title:       title,
			Description: n.Title,
			UserID:      &actor,
			Metadata:    ptr(string(meta)),
		}}
	}
}

func (s NoticeService) Create(ctx context.Context, in CreateNoticeInput) (*domain.Notice, error) {
	ve := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		ve.Add("title", "is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		ve.Add("description", "is required")
	}
	if in.AdminID <= 0 {
		ve.Add("adminId", "is required")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return s.Store.CreateNotice(ctx, repository.NewNotice{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		AdminID:     in.AdminID,
		IsImportant: in.IsImportant,
	}, noticeActivity(domain.ActivityNoticePublished, "Notice published", in.AdminID))
}

func (s NoticeService) Update(ctx context.Context, id int64, in UpdateNoticeInput) (*domain.Notice, error) {
	ve := &ValidationError{}
	title, desc := trimmed(in.Title), trimmed(in.Description)
	if title != nil && *title == "" {
		ve.Add("title", "must not be empty")
	}
	if desc != nil && *desc == "" {
		ve.Add("description", "must not be empty")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return s.Store.UpdateNotice(ctx, id, repository.NoticeUpdate{
		Title:       title,
		Description: desc,
		IsImportant: in.IsImportant,
	}, noticeActivity(domain.ActivityNoticeUpdated, "Notice updated", in.ActorID))
}

func (s NoticeService) Delete(ctx context.Context, id, actorID int64) error {
	return s.Store.DeleteNotice(ctx, id, noticeActivity(domain.ActivityNoticeDeleted, "Notice removed", actorID))
}
