package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// ErrInvalidAttributeType is returned before any request is sent when an
// attribute definition names a type the directory does not know.
var ErrInvalidAttributeType = errors.New("unknown attribute type")

//go:embed schema.graphql
var schemaSource string

// Schema is the parsed directory schema every catalog document is validated
// against.
var Schema *ast.Schema

func init() {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSource})
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid schema: %v", err))
	}
	for _, op := range Operations() {
		if _, errs := gqlparser.LoadQuery(schema, op.Document); len(errs) > 0 {
			panic(fmt.Sprintf("catalog: invalid %s document: %v", op.Name, errs))
		}
	}
	Schema = schema
}

// Executor runs a catalog operation. *directory.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, op directory.Operation, variables map[string]any, out any) error
}

// Catalog exposes one typed method per directory operation.
type Catalog struct {
	exec Executor
}

// New returns a Catalog issuing its operations through exec.
func New(exec Executor) *Catalog {
	return &Catalog{exec: exec}
}

// UserDetails is the result of GetUserDetails.
type UserDetails struct {
	User   models.User   `json:"user"`
	Schema models.Schema `json:"schema"`
}

// AttributeDefinition describes a new schema attribute.
type AttributeDefinition struct {
	Name       string               `json:"name"`
	Type       models.AttributeType `json:"attributeType"`
	IsList     bool                 `json:"isList"`
	IsVisible  bool                 `json:"isVisible"`
	IsEditable bool                 `json:"isEditable"`
}

type success struct {
	OK bool `json:"ok"`
}

// GetUserDetails fetches a single user together with the user attribute
// schema.
func (c *Catalog) GetUserDetails(ctx context.Context, id string) (*UserDetails, error) {
	var out UserDetails
	if err := c.exec.Execute(ctx, getUserDetails, map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGroupList fetches every group.
func (c *Catalog) GetGroupList(ctx context.Context) ([]models.Group, error) {
	var out struct {
		Groups []models.Group `json:"groups"`
	}
	if err := c.exec.Execute(ctx, getGroupList, nil, &out); err != nil {
		return nil, err
	}
	return out.Groups, nil
}

// GetGroupDetails fetches a single group and its members.
func (c *Catalog) GetGroupDetails(ctx context.Context, id int) (*models.Group, error) {
	var out struct {
		Group models.Group `json:"group"`
	}
	if err := c.exec.Execute(ctx, getGroupDetails, map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	return &out.Group, nil
}

// ListUsers fetches the full user records matching filter. A nil filter
// lists every user.
func (c *Catalog) ListUsers(ctx context.Context, filter *models.RequestFilter) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	if err := c.exec.Execute(ctx, listUsers, filterVariables(filter), &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// ListUserNames fetches only the id and display name of the users matching
// filter.
func (c *Catalog) ListUserNames(ctx context.Context, filter *models.RequestFilter) ([]models.UserRef, error) {
	var out struct {
		Users []models.UserRef `json:"users"`
	}
	if err := c.exec.Execute(ctx, listUserNames, filterVariables(filter), &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// CreateUser creates a user and returns its id and creation date.
func (c *Catalog) CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error) {
	var out struct {
		CreateUser models.User `json:"createUser"`
	}
	if err := c.exec.Execute(ctx, createUser, map[string]any{"user": input}, &out); err != nil {
		return nil, err
	}
	return &out.CreateUser, nil
}

// CreateGroup creates a group with the given display name.
func (c *Catalog) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	var out struct {
		CreateGroup models.Group `json:"createGroup"`
	}
	if err := c.exec.Execute(ctx, createGroup, map[string]any{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out.CreateGroup, nil
}

// UpdateUser overwrites the editable scalar fields of a user.
func (c *Catalog) UpdateUser(ctx context.Context, input models.UpdateUserInput) error {
	return c.mutate(ctx, updateUser, "updateUser", map[string]any{"user": input})
}

// DeleteUser deletes a user.
func (c *Catalog) DeleteUser(ctx context.Context, id string) error {
	return c.mutate(ctx, deleteUser, "deleteUser", map[string]any{"user": id})
}

// DeleteGroup deletes a group.
func (c *Catalog) DeleteGroup(ctx context.Context, id int) error {
	return c.mutate(ctx, deleteGroup, "deleteGroup", map[string]any{"groupId": id})
}

// AddUserToGroup adds a user to a group.
func (c *Catalog) AddUserToGroup(ctx context.Context, userID string, groupID int) error {
	return c.mutate(ctx, addUserToGroup, "addUserToGroup", map[string]any{"user": userID, "group": groupID})
}

// RemoveUserFromGroup removes a user from a group.
func (c *Catalog) RemoveUserFromGroup(ctx context.Context, userID string, groupID int) error {
	return c.mutate(ctx, removeUserFromGroup, "removeUserFromGroup", map[string]any{"user": userID, "group": groupID})
}

// CreateUserAttribute adds an attribute to the user schema.
func (c *Catalog) CreateUserAttribute(ctx context.Context, def AttributeDefinition) error {
	if !def.Type.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidAttributeType, def.Type)
	}
	return c.mutate(ctx, createUserAttribute, "addUserAttribute", map[string]any{
		"name":          def.Name,
		"attributeType": def.Type,
		"isList":        def.IsList,
		"isVisible":     def.IsVisible,
		"isEditable":    def.IsEditable,
	})
}

// CreateGroupAttribute adds an attribute to the group schema. Group
// attributes are never editable, so def.IsEditable is ignored.
func (c *Catalog) CreateGroupAttribute(ctx context.Context, def AttributeDefinition) error {
	if !def.Type.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidAttributeType, def.Type)
	}
	return c.mutate(ctx, createGroupAttribute, "addGroupAttribute", map[string]any{
		"name":          def.Name,
		"attributeType": def.Type,
		"isList":        def.IsList,
		"isVisible":     def.IsVisible,
	})
}

// DeleteUserAttribute removes an attribute from the user schema.
func (c *Catalog) DeleteUserAttribute(ctx context.Context, name string) error {
	return c.mutate(ctx, deleteUserAttribute, "deleteUserAttribute", map[string]any{"name": name})
}

// DeleteGroupAttribute removes an attribute from the group schema.
func (c *Catalog) DeleteGroupAttribute(ctx context.Context, name string) error {
	return c.mutate(ctx, deleteGroupAttribute, "deleteGroupAttribute", map[string]any{"name": name})
}

// mutate runs a mutation answering {ok} and maps ok=false to an
// OperationError.
func (c *Catalog) mutate(ctx context.Context, op directory.Operation, field string, variables map[string]any) error {
	var out map[string]*success
	if err := c.exec.Execute(ctx, op, variables, &out); err != nil {
		return err
	}
	if result := out[field]; result == nil || !result.OK {
		return &directory.OperationError{Operation: op.Name}
	}
	return nil
}

func filterVariables(filter *models.RequestFilter) map[string]any {
	if filter == nil {
		return nil
	}
	return map[string]any{"filters": filter}
}
