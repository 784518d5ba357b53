package handlers

import (
	"net/http"

	"github.com/EO-DataHub/eodhp-directory-admin/api/services"
)

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.WriteResponse(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
