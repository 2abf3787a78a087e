// Package validation checks registration and login payloads against a fixed schema.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"acara-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

const MinPasswordLength = 8

type registerSchema struct {
	FullName        string `json:"fullName" validate:"required"`
	UserName        string `json:"userName" validate:"required,no_at"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,has_upper,has_digit"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type loginSchema struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Validator evaluates payloads. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on an empty tag name, which these are not.
	_ = v.RegisterValidation("has_upper", hasRune(unicode.IsUpper))
	_ = v.RegisterValidation("has_digit", hasRune(unicode.IsDigit))
	_ = v.RegisterValidation("no_at", func(fl validator.FieldLevel) bool {
		return !strings.Contains(fl.Field().String(), "@")
	})
	return &Validator{validate: v}
}

func hasRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), pred) >= 0
	}
}

// Register returns the normalized payload or a *domain.ValidationError.
// Names are trimmed and the email is lower-cased; passwords are left untouched.
func (v *Validator) Register(p domain.RegisterPayload) (domain.RegisterPayload, error) {
	normalized := domain.RegisterPayload{
		FullName:        strings.TrimSpace(p.FullName),
		UserName:        strings.TrimSpace(p.UserName),
		Email:           strings.ToLower(strings.TrimSpace(p.Email)),
		Password:        p.Password,
		ConfirmPassword: p.ConfirmPassword,
	}
	err := v.validate.Struct(registerSchema(normalized))
	if err != nil {
		return domain.RegisterPayload{}, toValidationError(err)
	}
	return normalized, nil
}

// Login checks presence of both fields.
func (v *Validator) Login(p domain.LoginPayload) (domain.LoginPayload, error) {
	normalized := domain.LoginPayload{
		Identifier: strings.TrimSpace(p.Identifier),
		Password:   p.Password,
	}
	if err := v.validate.Struct(loginSchema(normalized)); err != nil {
		return domain.LoginPayload{}, toValidationError(err)
	}
	return normalized, nil
}

// ActivationCode rejects an empty code before it reaches the store.
func (v *Validator) ActivationCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", domain.NewValidationError("code", "required", "code is required")
	}
	return code, nil
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate payload: %w", err)
	}
	out := &domain.ValidationError{Violations: make([]domain.Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, domain.Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "has_upper":
		return fmt.Sprintf("%s must contain at least one uppercase letter", field)
	case "has_digit":
		return fmt.Sprintf("%s must contain at least one number", field)
	case "eqfield":
		return fmt.Sprintf("%s must match password", field)
	case "no_at":
		return fmt.Sprintf("%s must not contain '@'", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
