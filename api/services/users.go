package services

import (
	"fmt"
	"net/http"
	"path"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/creation"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/editor"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/search"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// UserDetailResponse is the detail view of one user.
type UserDetailResponse struct {
	User            models.User       `json:"user"`
	Avatar          string            `json:"avatar"`
	Schema          models.Schema     `json:"schema"`
	AvailableGroups []models.GroupRef `json:"availableGroups"`
}

// UpdateUserRequest carries the edits of one save. Nil fields are left as
// they are. Groups, when present, is the complete desired membership.
type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Groups      []int   `json:"groups"`
}

// ListUsersService returns the user table, filtered by the optional search
// query and ordered by the optional sort column.
func ListUsersService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	query := r.URL.Query()
	view := search.NewListView(svc.Catalog, svc.Matcher)
	if err := view.Load(r.Context()); err != nil {
		logger.Error().Err(err).Msg("failed to list users")
		HandleErrResponse(w, err)
		return
	}

	view.Filter(query.Get("search"))
	rows := view.Rows()

	if column := query.Get("sort"); column != "" {
		if err := search.SortBy(rows, column, query.Get("order") == "desc"); err != nil {
			HandleErrResponse(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	HandleSuccessResponse(w, http.StatusOK, rows)
}

// GetUserService returns a user with its attribute schema and the groups it
// can still join.
func GetUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user-id"]
	logger := zerolog.Ctx(r.Context()).With().Str("user_id", userID).Logger()

	ed := editor.New(svc.Catalog, userID)
	if err := ed.Load(r.Context()); err != nil {
		logger.Error().Err(err).Msg("failed to load user")
		HandleErrResponse(w, err)
		return
	}

	user, _ := ed.Editable()
	HandleSuccessResponse(w, http.StatusOK, UserDetailResponse{
		User:            user,
		Avatar:          ed.Avatar(),
		Schema:          ed.Schema(),
		AvailableGroups: ed.AvailableGroups(),
	})
}

// UpdateUserService saves the edits of a user. Every call of the save is
// attempted; the response is 200 with the report of each call and success
// set only when all of them succeeded.
func UpdateUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user-id"]
	logger := zerolog.Ctx(r.Context()).With().Str("user_id", userID).Logger()

	var req UpdateUserRequest
	if err := decodeBody(r, &req); err != nil {
		HandleErrResponse(w, err)
		return
	}

	ed := editor.New(svc.Catalog, userID)
	if err := ed.Load(r.Context()); err != nil {
		logger.Error().Err(err).Msg("failed to load user")
		HandleErrResponse(w, err)
		return
	}

	if err := applyUpdate(ed, req); err != nil {
		HandleErrResponse(w, err)
		return
	}

	report, err := ed.Save(r.Context())
	if err != nil {
		HandleErrResponse(w, err)
		return
	}

	editor.NotifySaved(r.Context(), svc.Notifier, report)

	response := models.Response{Success: 1, Data: report}
	if !report.OK() {
		response.Success = 0
		response.ErrorCode = ErrCodeDirectory
		response.ErrorDetails = report.LastError()
	}
	WriteResponse(w, http.StatusOK, response)
}

// applyUpdate copies the request into the edit buffer.
func applyUpdate(ed *editor.UserEditor, req UpdateUserRequest) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"email", req.Email},
		{"displayName", req.DisplayName},
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := ed.SetField(f.name, *f.value); err != nil {
			return err
		}
	}

	if req.Groups == nil {
		return nil
	}
	return ed.SetGroups(req.Groups)
}

// CreateUserService creates a user from the user fields of the creation form.
func CreateUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var fields creation.UserFields
	if err := decodeBody(r, &fields); err != nil {
		HandleErrResponse(w, err)
		return
	}

	form := creation.Form{Mode: creation.ModeUser, User: fields}
	result, err := form.Submit(r.Context(), svc.Catalog)
	if err != nil {
		logger.Error().Err(err).Str("user_id", fields.ID).Msg("failed to create user")
		HandleErrResponse(w, err)
		return
	}

	events.Notify(r.Context(), svc.Notifier, events.NewEvent(events.ActionCreate, events.EntityUser, result.UserID))

	location := path.Join(svc.basePath(), "users", result.UserID)
	HandleSuccessResponse(w, http.StatusCreated, result, location)
}

// DeleteUserService deletes a user.
func DeleteUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user-id"]
	logger := zerolog.Ctx(r.Context()).With().Str("user_id", userID).Logger()

	if err := svc.Catalog.DeleteUser(r.Context(), userID); err != nil {
		logger.Error().Err(err).Msg("failed to delete user")
		HandleErrResponse(w, err)
		return
	}

	logger.Info().Msg("user deleted")
	events.Notify(r.Context(), svc.Notifier, events.NewEvent(events.ActionDelete, events.EntityUser, userID))

	WriteResponse(w, http.StatusNoContent, nil)
}
