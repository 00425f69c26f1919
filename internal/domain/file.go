package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ChatFile — content-addressed ссылка на загруженный файл.
// Идентичность определяется хешем содержимого: одинаковые байты в одном
// workspace всегда дают один и тот же объект хранилища.
type ChatFile struct {
	WsID int64  `json:"ws_id"`
	Ext  string `json:"ext"`
	Hash string `json:"hash"`
}

func NewChatFile(wsID int64, filename string, data []byte) *ChatFile {
	sum := sha256.Sum256(data)

	ext := "txt"
	if i := strings.LastIndexByte(filename, '.'); i >= 0 && i+1 < len(filename) {
		ext = filename[i+1:]
	}

	return &ChatFile{
		WsID: wsID,
		Ext:  ext,
		Hash: hex.EncodeToString(sum[:]),
	}
}

// HashPath шардирует хеш: первые два сегмента по 3 hex-символа становятся
// каталогами, остаток — именем файла с расширением.
func (f *ChatFile) HashPath() string {
	return fmt.Sprintf("%s/%s/%s.%s", f.Hash[:3], f.Hash[3:6], f.Hash[6:], f.Ext)
}

func (f *ChatFile) URL() string {
	return fmt.Sprintf("/files/%d/%s", f.WsID, f.HashPath())
}

func (f *ChatFile) Path(baseDir string) string {
	return filepath.Join(baseDir, strconv.FormatInt(f.WsID, 10), filepath.FromSlash(f.HashPath()))
}

// ChatFileFromURL разбирает URL вида /files/{ws}/{aaa}/{bbb}/{rest}.{ext}.
func ChatFileFromURL(url string) (*ChatFile, error) {
	parts := strings.Split(strings.TrimPrefix(url, "/"), "/")
	if len(parts) != 5 || parts[0] != "files" {
		return nil, fmt.Errorf("%w: file url %q", ErrInvalidInput, url)
	}

	wsID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: workspace id in %q", ErrInvalidInput, url)
	}

	last := parts[4]
	ext := "txt"
	if i := strings.LastIndexByte(last, '.'); i >= 0 && i+1 < len(last) {
		ext = last[i+1:]
		last = last[:i]
	}

	hash := parts[2] + parts[3] + last
	if len(hash) != sha256.Size*2 {
		return nil, fmt.Errorf("%w: content hash in %q", ErrInvalidInput, url)
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return nil, fmt.Errorf("%w: content hash in %q", ErrInvalidInput, url)
	}

	return &ChatFile{WsID: wsID, Ext: ext, Hash: hash}, nil
}
