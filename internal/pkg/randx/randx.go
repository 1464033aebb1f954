/*
Package randx provides generators for unique identifiers used by the server.
*/
package randx

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ConnectionID generates a UUID v4 string identifying one websocket connection.
func ConnectionID() string {
	return uuid.New().String()
}

// FileObjectKey builds a collision-free storage key for an uploaded chat file,
// namespaced under the uploading user's id. The original file name is kept as
// the last path segment so downloads keep a sensible name.
func FileObjectKey(userID, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}

	return fmt.Sprintf("chat-files/%s/%s/%s", userID, uuid.New().String(), base)
}
