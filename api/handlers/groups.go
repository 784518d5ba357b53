package handlers

import (
	"net/http"

	"github.com/EO-DataHub/eodhp-directory-admin/api/services"
)

// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Group}
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /groups [get]
func ListGroups(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ListGroupsService(svc, w, r)
	}
}

// @Summary Get a group
// @Description Get a group with its members and attributes.
// @Tags groups
// @Produce json
// @Param group-id path int true "Group ID" example(3)
// @Success 200 {object} models.Response{data=models.Group}
// @Failure 400 {object} models.Response
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /groups/{group-id} [get]
func GetGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetGroupService(svc, w, r)
	}
}

// @Summary List group members
// @Tags groups
// @Produce json
// @Param group-id path int true "Group ID" example(3)
// @Success 200 {object} models.Response{data=[]models.UserRef}
// @Failure 400 {object} models.Response
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /groups/{group-id}/members [get]
func GetGroupMembers(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.GetGroupMembersService(svc, w, r)
	}
}

// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Param group body creation.GroupFields true "Group fields"
// @Success 201 {object} models.Response{data=creation.Result}
// @Failure 400 {object} models.Response
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /groups [post]
func CreateGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateGroupService(svc, w, r)
	}
}

// @Summary Delete a group
// @Tags groups
// @Param group-id path int true "Group ID" example(3)
// @Success 204
// @Failure 400 {object} models.Response
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /groups/{group-id} [delete]
func DeleteGroup(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.DeleteGroupService(svc, w, r)
	}
}
