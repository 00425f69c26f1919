package postgres

import (
	"context"
	"errors"

	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/repository"
	"github.com/wangxiaochuang/05-chat/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

type UserRepo struct {
	q querier
}

// NewUserRepoFromPool - конструктор от пула (*pgxpool.Pool)
func NewUserRepoFromPool(q querier) *UserRepo {
	return &UserRepo{q: q}
}

// NewUserRepoFromTx - конструктор от транзакции (pgx.Tx), удобно для составных операций
func NewUserRepoFromTx(tx pgx.Tx) *UserRepo {
	return &UserRepo{q: tx}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (int64, error) {
	var id int64
	err := r.q.QueryRow(
		ctx,
		queries.QueryCreateUser,
		u.WsID,
		u.Fullname,
		u.Email,
		u.PasswordHash,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}

	return id, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, queries.QueryGetUserByID, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, queries.QueryGetUserByEmail, domain.NormalizeEmail(email))
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.q.QueryRow(ctx, queries.QueryExistsUserByEmail, domain.NormalizeEmail(email)).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, mapPgError(err)
	}

	return true, nil
}

func (r *UserRepo) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, queries.QueryCountUsersByIDs, ids).Scan(&count)
	if err != nil {
		return 0, mapPgError(err)
	}

	return count, nil
}

func (r *UserRepo) ListByWorkspace(ctx context.Context, wsID int64) ([]domain.ChatUser, error) {
	rows, err := r.q.Query(ctx, queries.QueryListChatUsers, wsID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var out []domain.ChatUser
	for rows.Next() {
		var u domain.ChatUser
		if err := rows.Scan(&u.ID, &u.Fullname, &u.Email); err != nil {
			return nil, err
		}
		out = append(out, u)
	}

	return out, rows.Err()
}

func (r *UserRepo) getOne(ctx context.Context, sql string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.q.QueryRow(ctx, sql, arg).Scan(
		&u.ID,
		&u.WsID,
		&u.Fullname,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPgError(err)
	}

	return &u, nil
}
