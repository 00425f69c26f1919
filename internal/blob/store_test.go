package blob

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wangxiaochuang/05-chat/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestStore_PutGet(t *testing.T) {
	s := NewStore(t.TempDir())

	f, err := s.Put(1, "hello.txt", []byte("hello world"))
	require.NoError(t, err)
	require.Len(t, f.Hash, 64)

	data, err := s.Get(f)
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), data)
}

func TestStore_PutIdempotent(t *testing.T) {
	base := t.TempDir()
	s := NewStore(base)

	f1, err := s.Put(1, "a.bin", []byte("12345"))
	require.NoError(t, err)
	f2, err := s.Put(1, "b.bin", []byte("12345"))
	require.NoError(t, err)

	require.Equal(t, f1.Hash, f2.Hash)
	require.Equal(t, 1, countFiles(t, base))
}

func TestStore_ConcurrentPutSameContent(t *testing.T) {
	base := t.TempDir()
	s := NewStore(base)
	content := []byte("same bytes every time")

	var wg sync.WaitGroup
	hashes := make([]string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := s.Put(1, "x.dat", content)
			require.NoError(t, err)
			hashes[i] = f.Hash
		}(i)
	}
	wg.Wait()

	for _, h := range hashes[1:] {
		require.Equal(t, hashes[0], h)
	}
	require.Equal(t, 1, countFiles(t, base))

	f, err := s.Put(1, "x.dat", content)
	require.NoError(t, err)
	data, err := s.Get(f)
	require.NoError(t, err)
	require.Equal(t, content, data)
}

func TestStore_GetNotFound(t *testing.T) {
	s := NewStore(t.TempDir())

	f := domain.NewChatFile(1, "missing.txt", []byte("never stored"))
	_, err := s.Get(f)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_GetIntegrityMismatch(t *testing.T) {
	base := t.TempDir()
	s := NewStore(base)

	f, err := s.Put(1, "x.txt", []byte("original"))
	require.NoError(t, err)

	// портим содержимое на диске
	require.NoError(t, os.WriteFile(f.Path(base), []byte("corrupted"), 0o644))

	_, err = s.Get(f)
	require.ErrorIs(t, err, domain.ErrIntegrityMismatch)
}

func TestStore_WorkspacesAreIsolated(t *testing.T) {
	s := NewStore(t.TempDir())

	f1, err := s.Put(1, "x.txt", []byte("shared"))
	require.NoError(t, err)

	f2 := domain.NewChatFile(2, "x.txt", []byte("shared"))
	require.Equal(t, f1.Hash, f2.Hash)
	require.False(t, s.Exists(f2))

	_, err = s.Get(f2)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	count := 0
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)

	return count
}
