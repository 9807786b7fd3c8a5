package service

import (
	"context"

	"lending-library/internal/domains/member/model"
)

// ServiceInterface defines the member registry business logic.
type ServiceInterface interface {
	ListMembers(ctx context.Context) ([]model.Member, error)
	GetMemberByCode(ctx context.Context, code string) (*model.Member, error)
	CreateMember(ctx context.Context, req model.CreateMemberRequest) (*model.Member, error)
	UpdateMember(ctx context.Context, code string, req model.UpdateMemberRequest) (*model.Member, error)
	DeleteMember(ctx context.Context, code string) error
}
