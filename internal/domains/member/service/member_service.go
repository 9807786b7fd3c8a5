package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"lending-library/internal/domains/member/model"
	"lending-library/internal/domains/member/repository"
	"lending-library/pkg/logger"
)

type MemberService struct {
	repo repository.RepositoryInterface
}

// NewService creates a new member registry service.
func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &MemberService{
		repo: repo,
	}
}

// ListMembers implements ServiceInterface.ListMembers.
func (s *MemberService) ListMembers(ctx context.Context) ([]model.Member, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// GetMemberByCode implements ServiceInterface.GetMemberByCode.
func (s *MemberService) GetMemberByCode(ctx context.Context, code string) (*model.Member, error) {
	return s.repo.GetByCode(ctx, code)
}

// CreateMember implements ServiceInterface.CreateMember. An empty
// req.Code lets the repository allocate the next member code.
func (s *MemberService) CreateMember(ctx context.Context, req model.CreateMemberRequest) (*model.Member, error) {
	member := &model.Member{
		ID:   uuid.New(),
		Code: req.Code,
		Name: req.Name,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}

	logger.Info("member created", map[string]interface{}{
		"code": member.Code,
	})

	return member, nil
}

// UpdateMember implements ServiceInterface.UpdateMember.
func (s *MemberService) UpdateMember(ctx context.Context, code string, req model.UpdateMemberRequest) (*model.Member, error) {
	return s.repo.UpdateName(ctx, code, req.Name)
}

// DeleteMember implements ServiceInterface.DeleteMember.
func (s *MemberService) DeleteMember(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}

	logger.Info("member deleted", map[string]interface{}{"code": code})

	return nil
}
