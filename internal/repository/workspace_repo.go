package repository

import (
	"context"

	"github.com/wangxiaochuang/05-chat/internal/domain"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, name string, ownerID int64) (*domain.Workspace, error)
	GetByID(ctx context.Context, id int64) (*domain.Workspace, error)
	GetByName(ctx context.Context, name string) (*domain.Workspace, error)
	UpdateOwner(ctx context.Context, id, ownerID int64) (*domain.Workspace, error)
}
