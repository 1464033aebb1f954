/*
Package handler provides HTTP handler functions for file message attachments.

Attachments are not proxied through the server: clients get a time-limited
presigned URL, upload directly to storage, and then send a file message whose
fileUrl is the storage key.
*/
package handler

import (
	"net/http"
	"strings"

	"imchat/internal/app/storage"
	"imchat/internal/pkg/auth/jwt"
	"imchat/internal/pkg/errs"
	"imchat/internal/pkg/logx"
	"imchat/internal/pkg/randx"
	"imchat/internal/pkg/req"
	"imchat/internal/pkg/resp"
)

// ChatFileKeyPrefix namespaces every chat attachment key in the bucket.
const ChatFileKeyPrefix = "chat-files/"

type UploadFileInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandleUploadFile validates the declared file and returns a presigned
// upload URL plus the storage key to use as the message's fileUrl.
func HandleUploadFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input UploadFileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateFileType(input.FileName, input.MimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateFileSize(input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := randx.FileObjectKey(identity.UserID, input.FileName)

		uploadURL, err := deps.StorageService.PresignUpload(
			r.Context(),
			key,
			input.MimeType,
			input.FileSize,
			storage.PresignedURLDuration,
		)
		if err != nil {
			logx.Error(err, "upload_file: presign failed", "user_id", identity.UserID, "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": uploadURL,
			"fileUrl":   key,
		})
	}
}

// HandleDownloadFile returns a presigned download URL for a stored
// attachment key.
func HandleDownloadFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		key := r.URL.Query().Get("key")
		if !strings.HasPrefix(key, ChatFileKeyPrefix) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		downloadURL, err := deps.StorageService.PresignDownload(r.Context(), key, storage.PresignedURLDuration)
		if err != nil {
			logx.Error(err, "download_file: presign failed", "user_id", identity.UserID, "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"url": downloadURL,
		})
	}
}
