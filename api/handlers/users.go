package handlers

import (
	"net/http"

	"github.com/EO-DataHub/eodhp-directory-admin/api/services"
)

// @Summary List users
// @Description List every directory user as table rows, optionally fuzzy-filtered on display name, email, first name and last name.
// @Tags users
// @Produce json
// @Param search query string false "Fuzzy search query" example(alice)
// @Param sort query string false "Sort column" Enums(id, email, displayName, firstName, lastName, created)
// @Param order query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} models.Response{data=[]search.Row}
// @Failure 400 {object} models.Response
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /users [get]
func ListUsers(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ListUsersService(svc, w, r)
	}
}

// @Summary Get a user
// @Description Get a user with its attribute schema and the groups it can still join.
// @Tags users
// @Produce json
// @Param user-id path string true "User ID" example(alice)
// @Success 200 {object} models.Response{data=services.UserDetailResponse}
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /users/{user-id} [get]
func GetUser(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetUserService(svc, w, r)
	}
}

// @Summary Save a user
// @Description Update the editable fields of a user and reconcile its group membership. Every call is attempted independently; success is 0 when any of them failed and error_details carries the last failure.
// @Tags users
// @Accept json
// @Produce json
// @Param user-id path string true "User ID" example(alice)
// @Param user body services.UpdateUserRequest true "Edits"
// @Success 200 {object} models.Response{data=editor.SaveReport}
// @Failure 400 {object} models.Response
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /users/{user-id} [put]
func UpdateUser(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.UpdateUserService(svc, w, r)
	}
}

// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body creation.UserFields true "User fields"
// @Success 201 {object} models.Response{data=creation.Result}
// @Failure 400 {object} models.Response
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /users [post]
func CreateUser(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateUserService(svc, w, r)
	}
}

// @Summary Delete a user
// @Tags users
// @Param user-id path string true "User ID" example(alice)
// @Success 204
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /users/{user-id} [delete]
func DeleteUser(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.DeleteUserService(svc, w, r)
	}
}
