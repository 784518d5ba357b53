package handlers

import (
	"net/http"

	"github.com/EO-DataHub/eodhp-directory-admin/api/services"
)

// @Summary Add a schema attribute
// @Description Add an attribute to the user or group schema. Group attributes are never editable.
// @Tags schema
// @Accept json
// @Produce json
// @Param entity path string true "Schema" Enums(users, groups)
// @Param attribute body catalog.AttributeDefinition true "Attribute definition"
// @Success 201 {object} models.Response{data=catalog.AttributeDefinition}
// @Failure 400 {object} models.Response
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /schema/{entity}/attributes [post]
func CreateAttribute(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.CreateAttributeService(svc, w, r)
	}
}

// @Summary Delete a schema attribute
// @Tags schema
// @Param entity path string true "Schema" Enums(users, groups)
// @Param name path string true "Attribute name" example(department)
// @Success 204
// @Failure 400 {object} models.Response
// @Failure 401 {object} string
// @Failure 502 {object} models.Response
// @Router /schema/{entity}/attributes/{name} [delete]
func DeleteAttribute(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.DeleteAttributeService(svc, w, r)
	}
}
