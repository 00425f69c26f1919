package service

import (
	"context"
	"errors"

	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/repository"
)

type WorkspaceService struct {
	workspaces repository.WorkspaceRepository
	users      repository.UserRepository
}

func NewWorkspaceService(workspaces repository.WorkspaceRepository, users repository.UserRepository) *WorkspaceService {
	return &WorkspaceService{workspaces: workspaces, users: users}
}

// GetWorkspace возвращает workspace по ID.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, id int64) (*domain.Workspace, error) {
	ws, err := s.workspaces.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return ws, nil
}

// ListChatUsers — все пользователи workspace в усечённом виде,
// для подбора участников при создании чата.
func (s *WorkspaceService) ListChatUsers(ctx context.Context, wsID int64) ([]domain.ChatUser, error) {
	return s.users.ListByWorkspace(ctx, wsID)
}
