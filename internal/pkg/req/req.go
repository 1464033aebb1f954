/*
Package req provides helpers for HTTP request parsing and data binding.

JSON binding is strict: unknown fields and trailing content after the
document are rejected so malformed clients fail fast.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"imchat/internal/pkg/errs"
)

// BindJSON decodes the request body into dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
