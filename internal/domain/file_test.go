package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewChatFile(t *testing.T) {
	f := NewChatFile(1, "test.txt", []byte("hello world"))
	require.Equal(t, "txt", f.Ext)

	sum := sha256.Sum256([]byte("hello world"))
	require.Equal(t, hex.EncodeToString(sum[:]), f.Hash)
	require.Equal(t, f.Hash[:3]+"/"+f.Hash[3:6]+"/"+f.Hash[6:]+".txt", f.HashPath())
}

func TestNewChatFile_NoExtension(t *testing.T) {
	f := NewChatFile(1, "README", []byte("x"))
	require.Equal(t, "txt", f.Ext)
}

func TestChatFile_SameContentSameHash(t *testing.T) {
	a := NewChatFile(1, "a.png", []byte("same bytes"))
	b := NewChatFile(1, "b.png", []byte("same bytes"))
	require.Equal(t, a.Hash, b.Hash)
	require.Equal(t, a.HashPath(), b.HashPath())
}

func TestChatFileFromURL_Roundtrip(t *testing.T) {
	orig := NewChatFile(42, "photo.jpg", []byte("image bytes"))

	parsed, err := ChatFileFromURL(orig.URL())
	require.NoError(t, err)
	require.Equal(t, orig.WsID, parsed.WsID)
	require.Equal(t, orig.Hash, parsed.Hash)
	require.Equal(t, orig.Ext, parsed.Ext)
}

func TestChatFileFromURL_Invalid(t *testing.T) {
	for _, url := range []string{
		"invalid_file.txt",
		"/files/1/too/short",
		"/files/abc/aaa/bbb/ccc.txt",
		"/files/1/aaa/bbb/ccc.txt", // хеш не той длины
	} {
		_, err := ChatFileFromURL(url)
		require.ErrorIs(t, err, ErrInvalidInput, url)
	}
}
