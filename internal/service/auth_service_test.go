package service

import (
	"context"
	"testing"

	"github.com/wangxiaochuang/05-chat/internal/domain"
	"github.com/wangxiaochuang/05-chat/internal/repository"

	"github.com/stretchr/testify/require"
)

type stubWorkspaceRepo struct {
	ws          *domain.Workspace
	getCalls    int
	createCalls int
	// missOnFirstGet имитирует гонку: первый GetByName не видит строку,
	// Create проигрывает конфликт, второй GetByName читает победителя
	missOnFirstGet bool
	createErr      error
}

func (s *stubWorkspaceRepo) GetByName(ctx context.Context, name string) (*domain.Workspace, error) {
	s.getCalls++
	if s.missOnFirstGet && s.getCalls == 1 {
		return nil, repository.ErrNotFound
	}
	if s.ws == nil {
		return nil, repository.ErrNotFound
	}
	return s.ws, nil
}

func (s *stubWorkspaceRepo) Create(ctx context.Context, name string, ownerID int64) (*domain.Workspace, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.ws = &domain.Workspace{ID: 1, Name: name, OwnerID: ownerID}
	return s.ws, nil
}

func (s *stubWorkspaceRepo) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	return s.ws, nil
}

func (s *stubWorkspaceRepo) UpdateOwner(ctx context.Context, id, ownerID int64) (*domain.Workspace, error) {
	s.ws.OwnerID = ownerID
	return s.ws, nil
}

func TestResolveWorkspaceReusesExisting(t *testing.T) {
	repo := &stubWorkspaceRepo{ws: &domain.Workspace{ID: 1, Name: "acme", OwnerID: 5}}

	ws, err := resolveWorkspace(context.Background(), repo, "acme")
	require.NoError(t, err)
	require.Equal(t, int64(1), ws.ID)
	require.Zero(t, repo.createCalls)
}

func TestResolveWorkspaceCreatesOnFirstReference(t *testing.T) {
	repo := &stubWorkspaceRepo{}

	ws, err := resolveWorkspace(context.Background(), repo, "acme")
	require.NoError(t, err)
	require.Equal(t, "acme", ws.Name)
	require.Equal(t, int64(0), ws.OwnerID)
	require.Equal(t, 1, repo.createCalls)
}

func TestResolveWorkspaceLosesCreateRace(t *testing.T) {
	repo := &stubWorkspaceRepo{
		ws:             &domain.Workspace{ID: 2, Name: "acme", OwnerID: 9},
		missOnFirstGet: true,
		createErr:      repository.ErrAlreadyExists,
	}

	ws, err := resolveWorkspace(context.Background(), repo, "acme")
	require.NoError(t, err)
	require.Equal(t, int64(2), ws.ID)
	require.Equal(t, 2, repo.getCalls)
}
