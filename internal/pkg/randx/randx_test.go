package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestConnectionIDIsUniqueUUID(t *testing.T) {
	req := require.New(t)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := ConnectionID()

		_, err := uuid.Parse(id)
		req.NoError(err)

		_, dup := seen[id]
		req.False(dup)
		seen[id] = struct{}{}
	}
}

func TestFileObjectKey(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		wantBase string
	}{
		{name: "plain name", fileName: "photo.jpg", wantBase: "photo.jpg"},
		{name: "unix path is stripped", fileName: "../../etc/passwd", wantBase: "passwd"},
		{name: "windows path is stripped", fileName: `C:\Users\me\doc.pdf`, wantBase: "doc.pdf"},
		{name: "empty name falls back", fileName: "", wantBase: "file"},
		{name: "dot falls back", fileName: ".", wantBase: "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			key := FileObjectKey("user-1", tt.fileName)

			parts := strings.Split(key, "/")
			req.Len(parts, 4)
			req.Equal("chat-files", parts[0])
			req.Equal("user-1", parts[1])

			_, err := uuid.Parse(parts[2])
			req.NoError(err)

			req.Equal(tt.wantBase, parts[3])
		})
	}
}
