/*
Package handler provides HTTP handler functions for message history.
*/
package handler

import (
	"net/http"

	"imchat/internal/pkg/auth/jwt"
	"imchat/internal/pkg/errs"
	"imchat/internal/pkg/logx"
	"imchat/internal/pkg/req"
	"imchat/internal/pkg/resp"
)

type GetMessagesInput struct {
	// ID is the other user of the conversation.
	ID string `json:"id"`
}

// HandleGetMessages returns the chronological history between the caller and
// one other user, profiles hydrated by the store.
func HandleGetMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input GetMessagesInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessagePeerRequired))
			return
		}

		messages, err := deps.Store.ListMessagesBetween(r.Context(), identity.UserID, input.ID)
		if err != nil {
			logx.Error(err, "get_messages: query failed", "user_id", identity.UserID, "peer_id", input.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": messages,
		})
	}
}
