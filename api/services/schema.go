package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// attributeTarget resolves the {entity} route variable to the schema it
// addresses.
type attributeTarget struct {
	entity string
	create func(ctx context.Context, def catalog.AttributeDefinition) error
	delete func(ctx context.Context, name string) error
}

func (svc *Service) attributeTarget(entity string) (attributeTarget, error) {
	switch entity {
	case "users":
		return attributeTarget{
			entity: events.EntityUserAttribute,
			create: svc.Catalog.CreateUserAttribute,
			delete: svc.Catalog.DeleteUserAttribute,
		}, nil
	case "groups":
		return attributeTarget{
			entity: events.EntityGroupAttribute,
			create: svc.Catalog.CreateGroupAttribute,
			delete: svc.Catalog.DeleteGroupAttribute,
		}, nil
	}
	return attributeTarget{}, fmt.Errorf("%w: unknown schema %q", errBadRequest, entity)
}

// CreateAttributeService adds an attribute to the user or group schema.
func CreateAttributeService(svc *Service, w http.ResponseWriter, r *http.Request) {
	target, err := svc.attributeTarget(mux.Vars(r)["entity"])
	if err != nil {
		HandleErrResponse(w, err)
		return
	}

	var def catalog.AttributeDefinition
	if err := decodeBody(r, &def); err != nil {
		HandleErrResponse(w, err)
		return
	}
	if def.Name == "" {
		HandleErrResponse(w, fmt.Errorf("%w: attribute name is required", errBadRequest))
		return
	}

	logger := zerolog.Ctx(r.Context()).With().Str("attribute", def.Name).Str("entity", target.entity).Logger()
	if err := target.create(r.Context(), def); err != nil {
		logger.Error().Err(err).Msg("failed to create attribute")
		HandleErrResponse(w, err)
		return
	}

	logger.Info().Msg("attribute created")
	events.Notify(r.Context(), svc.Notifier, events.NewEvent(events.ActionCreate, target.entity, def.Name))

	HandleSuccessResponse(w, http.StatusCreated, def)
}

// DeleteAttributeService removes an attribute from the user or group schema.
func DeleteAttributeService(svc *Service, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	target, err := svc.attributeTarget(vars["entity"])
	if err != nil {
		HandleErrResponse(w, err)
		return
	}
	name := vars["name"]

	logger := zerolog.Ctx(r.Context()).With().Str("attribute", name).Str("entity", target.entity).Logger()
	if err := target.delete(r.Context(), name); err != nil {
		logger.Error().Err(err).Msg("failed to delete attribute")
		HandleErrResponse(w, err)
		return
	}

	logger.Info().Msg("attribute deleted")
	events.Notify(r.Context(), svc.Notifier, events.NewEvent(events.ActionDelete, target.entity, name))

	WriteResponse(w, http.StatusNoContent, nil)
}
