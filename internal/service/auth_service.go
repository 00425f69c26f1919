package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/repository"
	"github.com/wangxiaochuang/05-chat/internal/repository/postgres"
	"github.com/wangxiaochuang/05-chat/internal/security"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService struct {
	pool       *pgxpool.Pool
	users      repository.UserRepository
	workspaces repository.WorkspaceRepository
	jwt        *security.JWTSigner
	passPolicy security.BcryptConfig
	now        func() time.Time
}

func NewAuthService(
	pool *pgxpool.Pool,
	users repository.UserRepository,
	workspaces repository.WorkspaceRepository,
	jwt *security.JWTSigner,
	passPolicy security.BcryptConfig,
	now func() time.Time,
) *AuthService {
	if now == nil {
		now = time.Now
	}

	return &AuthService{
		pool:       pool,
		users:      users,
		workspaces: workspaces,
		jwt:        jwt,
		passPolicy: passPolicy,
		now:        now,
	}
}

// Signup регистрирует пользователя. Workspace с указанным именем
// создаётся при первом обращении; первый зарегистрировавшийся
// становится его владельцем.
func (s *AuthService) Signup(ctx context.Context, wsName, fullname, email, password string) (*AuthResult, error) {
	email = domain.NormalizeEmail(email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		slog.Error("auth.signup.existsByEmail failed", slog.Any("err", err))
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := security.HashPassword(password, &s.passPolicy)
	if err != nil {
		slog.Error("auth.signup.hashPassword failed", slog.Any("err", err))
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op после коммита

	wsTx := postgres.NewWorkspaceRepoFromTx(tx)
	usersTx := postgres.NewUserRepoFromTx(tx)

	ws, err := resolveWorkspace(ctx, wsTx, wsName)
	if err != nil {
		slog.Error("auth.signup.resolveWorkspace failed", slog.Any("err", err))
		return nil, err
	}

	u := &domain.User{
		WsID:         ws.ID,
		Fullname:     fullname,
		Email:        email,
		PasswordHash: hash,
	}
	id, err := usersTx.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, domain.ErrEmailAlreadyExists
		}
		slog.Error("auth.signup.createUser failed", slog.Any("err", err))
		return nil, err
	}
	u.ID = id

	if ws.OwnerID == 0 {
		if _, err := wsTx.UpdateOwner(ctx, ws.ID, u.ID); err != nil {
			slog.Error("auth.signup.updateOwner failed", slog.Any("err", err))
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	token, err := s.jwt.Sign(u.ID, u.WsID, s.now())
	if err != nil {
		slog.Error("auth.signup.signToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, Token: token}, nil
}

// resolveWorkspace возвращает workspace по имени, создавая его при
// первом обращении (owner_id = 0: владелец назначается после вставки
// пользователя). Две одновременные первые регистрации гонятся за имя;
// проигравший перечитывает строку победителя.
func resolveWorkspace(ctx context.Context, repo repository.WorkspaceRepository, name string) (*domain.Workspace, error) {
	ws, err := repo.GetByName(ctx, name)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	ws, err = repo.Create(ctx, name, 0)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return repo.GetByName(ctx, name)
	}

	return ws, err
}

// Signin аутентифицирует по email+пароль и выпускает access-токен.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	email = domain.NormalizeEmail(email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		slog.Error("auth.signin.getByEmail failed", slog.Any("err", err))
		return nil, err
	}

	if err := security.ComparePassword(u.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.jwt.Sign(u.ID, u.WsID, s.now())
	if err != nil {
		slog.Error("auth.signin.signToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, Token: token}, nil
}

// Verify парсит access-токен и возвращает личность запроса.
func (s *AuthService) Verify(token string) (*security.Identity, error) {
	return s.jwt.ParseAndValidate(token)
}
