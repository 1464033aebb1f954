/*
Package handler provides HTTP handler functions for the contacts API.
*/
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"imchat/internal/pkg/auth/jwt"
	"imchat/internal/pkg/errs"
	"imchat/internal/pkg/logx"
	"imchat/internal/pkg/req"
	"imchat/internal/pkg/resp"
)

type SearchContactsInput struct {
	SearchTerm string `json:"searchTerm"`
}

// HandleSearchContacts finds other users by partial name or email match.
func HandleSearchContacts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input SearchContactsInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if strings.TrimSpace(input.SearchTerm) == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrSearchTermRequired))
			return
		}

		contacts, err := deps.Store.SearchContacts(r.Context(), identity.UserID, input.SearchTerm)
		if err != nil {
			logx.Error(err, "search_contacts: query failed", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"contacts": contacts,
		})
	}
}

// ContactOption is the label/value pair the client's contact picker consumes.
type ContactOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// HandleGetAllContacts lists every other user as a label/value pair.
func HandleGetAllContacts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		profiles, err := deps.Store.ListContacts(r.Context(), identity.UserID)
		if err != nil {
			logx.Error(err, "all_contacts: query failed", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		contacts := make([]ContactOption, 0, len(profiles))
		for _, p := range profiles {
			label := strings.TrimSpace(p.FirstName + " " + p.LastName)
			if label == "" {
				label = p.Email
			}

			contacts = append(contacts, ContactOption{
				Label: label,
				Value: p.ID,
			})
		}

		resp.RespondSuccess(w, r, map[string]any{
			"contacts": contacts,
		})
	}
}

// HandleGetContactsForList returns the user's DM partners, most recent
// conversation first.
func HandleGetContactsForList(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		contacts, err := deps.Store.ListContactsByLastMessage(r.Context(), identity.UserID)
		if err != nil {
			logx.Error(err, "contacts_for_list: query failed", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"contacts": contacts,
		})
	}
}

// HandleDeleteDirectMessages removes the whole history with one contact.
func HandleDeleteDirectMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		dmID := chi.URLParam(r, "dmId")
		if dmID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessagePeerRequired))
			return
		}

		if err := deps.Store.DeleteMessagesBetween(r.Context(), identity.UserID, dmID); err != nil {
			logx.Error(err, "delete_dm: delete failed", "user_id", identity.UserID, "peer_id", dmID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message": "DM deleted successfully",
		})
	}
}
