package blob

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wangxiaochuang/05-chat/internal/domain"
)

// Store — content-addressed хранилище блобов на файловой системе.
// Путь выводится из хеша содержимого, поэтому повторная загрузка тех же
// байт — no-op, а конкурентные Put сходятся к одному объекту.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Put сохраняет данные и возвращает их content-addressed описание.
// Запись идёт во временный файл с последующим rename: недописанный
// объект никогда не виден по итоговому пути.
func (s *Store) Put(wsID int64, filename string, data []byte) (*domain.ChatFile, error) {
	f := domain.NewChatFile(wsID, filename, data)
	path := f.Path(s.baseDir)

	if _, err := os.Stat(path); err == nil {
		// объект уже существует — идемпотентный успех
		return f, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return nil, fmt.Errorf("blob: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("blob: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("blob: close temp: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("blob: rename: %w", err)
	}

	return f, nil
}

// Get читает блоб и сверяет содержимое с хешом из его адреса.
func (s *Store) Get(f *domain.ChatFile) ([]byte, error) {
	data, err := os.ReadFile(f.Path(s.baseDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: blob %s", domain.ErrNotFound, f.Hash)
		}
		return nil, fmt.Errorf("blob: read %s: %w", f.Hash, err)
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != f.Hash {
		return nil, fmt.Errorf("%w: blob %s", domain.ErrIntegrityMismatch, f.Hash)
	}

	return data, nil
}

func (s *Store) Exists(f *domain.ChatFile) bool {
	_, err := os.Stat(f.Path(s.baseDir))
	return err == nil
}

func (s *Store) BaseDir() string {
	return s.baseDir
}
