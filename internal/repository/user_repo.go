package repository

import (
	"context"

	"github.com/wangxiaochuang/05-chat/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByIDs(ctx context.Context, ids []int64) (int, error)
	ListByWorkspace(ctx context.Context, wsID int64) ([]domain.ChatUser, error)
}
