package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"imchat/internal/pkg/errs"
)

func TestValidateFileSize(t *testing.T) {
	tests := []struct {
		name     string
		fileSize int64
		wantCode int
	}{
		{name: "valid size", fileSize: 1024, wantCode: 0},
		{name: "exactly at limit", fileSize: MaxFileSize, wantCode: 0},
		{name: "zero size", fileSize: 0, wantCode: errs.ErrInvalidParams},
		{name: "negative size", fileSize: -1, wantCode: errs.ErrInvalidParams},
		{name: "over limit", fileSize: MaxFileSize + 1, wantCode: errs.ErrFileSizeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			err := ValidateFileSize(tt.fileSize)
			if tt.wantCode == 0 {
				req.Nil(err)
				return
			}

			req.NotNil(err)
			req.Equal(tt.wantCode, err.Code)
		})
	}
}

func TestValidateFileType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		wantErr  bool
	}{
		{name: "jpeg", fileName: "photo.jpg", mimeType: "image/jpeg", wantErr: false},
		{name: "jpeg alternate extension", fileName: "photo.jpeg", mimeType: "image/jpeg", wantErr: false},
		{name: "pdf", fileName: "doc.pdf", mimeType: "application/pdf", wantErr: false},
		{name: "uppercase mime is normalized", fileName: "photo.png", mimeType: "IMAGE/PNG", wantErr: false},
		{name: "disallowed mime type", fileName: "script.sh", mimeType: "application/x-sh", wantErr: true},
		{name: "extension mime mismatch", fileName: "photo.png", mimeType: "image/jpeg", wantErr: true},
		{name: "no extension", fileName: "README", mimeType: "text/plain", wantErr: true},
		{name: "unknown extension", fileName: "archive.rar", mimeType: "application/zip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			err := ValidateFileType(tt.fileName, tt.mimeType)
			if tt.wantErr {
				req.NotNil(err)
				req.Equal(errs.ErrFileTypeInvalid, err.Code)
			} else {
				req.Nil(err)
			}
		})
	}
}
