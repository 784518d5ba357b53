// Package creation implements the form creating a user or a group.
package creation

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Mode selects which entity the form creates.
type Mode string

const (
	ModeUser  Mode = "user"
	ModeGroup Mode = "group"
)

// Creator issues the creation calls.
type Creator interface {
	CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error)
	CreateGroup(ctx context.Context, name string) (*models.Group, error)
}

// UserFields are the inputs of the user mode.
type UserFields struct {
	ID              string `json:"id" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	DisplayName     string `json:"displayName"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Avatar          []byte `json:"avatar,omitempty"`
}

// GroupFields are the inputs of the group mode.
type GroupFields struct {
	GroupName string `json:"groupName" validate:"required"`
}

// Form holds the inputs of both modes; only the active mode is validated and
// submitted.
type Form struct {
	Mode  Mode        `json:"mode"`
	User  UserFields  `json:"user"`
	Group GroupFields `json:"group"`
}

// Rule names one failed validation rule.
type Rule struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (r Rule) String() string {
	if r.Rule == "eqfield" {
		return fmt.Sprintf("%s does not match password", r.Field)
	}
	return fmt.Sprintf("%s is %s", r.Field, r.Rule)
}

// ValidationError lists every rule the form failed.
type ValidationError struct {
	Rules []Rule
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Rules))
	for _, r := range e.Rules {
		messages = append(messages, r.String())
	}
	return "validation failed: " + strings.Join(messages, ", ")
}

// Messages returns one message per failed rule.
func (e *ValidationError) Messages() []string {
	messages := make([]string, 0, len(e.Rules))
	for _, r := range e.Rules {
		messages = append(messages, r.String())
	}
	return messages
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the rules of the active mode.
func (f Form) Validate() error {
	var err error
	switch f.Mode {
	case ModeUser:
		err = validate.Struct(f.User)
	case ModeGroup:
		err = validate.Struct(f.Group)
	default:
		return &ValidationError{Rules: []Rule{{Field: "mode", Rule: "oneof"}}}
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	rules := make([]Rule, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rules = append(rules, Rule{Field: fe.Field(), Rule: fe.Tag()})
	}
	return &ValidationError{Rules: rules}
}

// Result identifies the created entity.
type Result struct {
	Mode         Mode      `json:"mode"`
	UserID       string    `json:"userId,omitempty"`
	GroupID      int       `json:"groupId,omitempty"`
	DisplayName  string    `json:"displayName,omitempty"`
	CreationDate time.Time `json:"creationDate,omitempty"`
}

// Submit validates the form and issues exactly one creation call for the
// active mode. Nothing is sent when validation fails.
func (f Form) Submit(ctx context.Context, c Creator) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)

	if f.Mode == ModeGroup {
		group, err := c.CreateGroup(ctx, f.Group.GroupName)
		if err != nil {
			return nil, err
		}
		logger.Info().Int("group_id", group.ID).Msg("group created")
		return &Result{Mode: ModeGroup, GroupID: group.ID, DisplayName: group.DisplayName}, nil
	}

	user, err := c.CreateUser(ctx, f.userInput())
	if err != nil {
		return nil, err
	}
	logger.Info().Str("user_id", user.ID).Msg("user created")
	return &Result{Mode: ModeUser, UserID: user.ID, CreationDate: user.CreationDate}, nil
}

func (f Form) userInput() models.CreateUserInput {
	input := models.CreateUserInput{
		ID:          f.User.ID,
		Email:       f.User.Email,
		DisplayName: f.User.DisplayName,
		FirstName:   f.User.FirstName,
		LastName:    f.User.LastName,
		Password:    f.User.Password,
	}
	if len(f.User.Avatar) > 0 {
		input.Avatar = base64.StdEncoding.EncodeToString(f.User.Avatar)
	}
	return input
}
