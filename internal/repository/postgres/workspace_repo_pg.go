package postgres

import (
	"context"
	"errors"

	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/repository"
	"github.com/wangxiaochuang/05-chat/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type WorkspaceRepo struct {
	q querier
}

// NewWorkspaceRepoFromPool - конструктор от пула (*pgxpool.Pool)
func NewWorkspaceRepoFromPool(q querier) *WorkspaceRepo {
	return &WorkspaceRepo{q: q}
}

// NewWorkspaceRepoFromTx - конструктор от транзакции (pgx.Tx)
func NewWorkspaceRepoFromTx(tx pgx.Tx) *WorkspaceRepo {
	return &WorkspaceRepo{q: tx}
}

func (r *WorkspaceRepo) Create(ctx context.Context, name string, ownerID int64) (*domain.Workspace, error) {
	ws, err := r.getOne(ctx, queries.QueryCreateWorkspace, name, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		// ON CONFLICT DO NOTHING не вернул строку: имя уже занято
		return nil, repository.ErrAlreadyExists
	}

	return ws, err
}

func (r *WorkspaceRepo) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	return r.getOne(ctx, queries.QueryGetWorkspaceByID, id)
}

func (r *WorkspaceRepo) GetByName(ctx context.Context, name string) (*domain.Workspace, error) {
	return r.getOne(ctx, queries.QueryGetWorkspaceByName, name)
}

func (r *WorkspaceRepo) UpdateOwner(ctx context.Context, id, ownerID int64) (*domain.Workspace, error) {
	return r.getOne(ctx, queries.QueryUpdateWorkspaceOwner, id, ownerID)
}

func (r *WorkspaceRepo) getOne(ctx context.Context, sql string, args ...any) (*domain.Workspace, error) {
	var ws domain.Workspace
	err := r.q.QueryRow(ctx, sql, args...).
		Scan(&ws.ID, &ws.Name, &ws.OwnerID, &ws.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPgError(err)
	}

	return &ws, nil
}
