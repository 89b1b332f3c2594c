// Package validation checks the shape and strength of credential fields.
//
// Every check comes in two forms: ParseX returns the value or a
// *domain.ValidationError listing every violated rule, IsValidX never fails.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/modela/identity-gateway/internal/core/domain"
)

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
)

var (
	upperRe      = regexp.MustCompile(`[A-Z]`)
	lowerRe      = regexp.MustCompile(`[a-z]`)
	digitRe      = regexp.MustCompile(`[0-9]`)
	specialRe    = regexp.MustCompile(`[^A-Za-z0-9]`)
	personNameRe = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
)

// field describes one input: the label used in messages, the message for an
// empty value (empty string means the rules run anyway) and the ordered tags.
type field struct {
	name     string
	label    string
	required string
	tags     []string
}

var (
	emailField = field{
		name:     FieldEmail,
		label:    "Email",
		required: "Email is required",
		tags:     []string{"email"},
	}
	passwordField = field{
		name:  FieldPassword,
		label: "Password",
		tags:  []string{"min=8", "has_upper", "has_lower", "has_digit", "has_special"},
	}
	nameField = field{
		name:     FieldName,
		label:    "Name",
		required: "Name is required",
		tags:     []string{"min=2", "max=50", "person_name"},
	}
)

// Engine runs the credential rules on top of go-playground/validator.
type Engine struct {
	v *validator.Validate
}

// New returns an Engine with the credential tags registered.
func New() *Engine {
	v := validator.New()
	mustRegister(v, "has_upper", upperRe)
	mustRegister(v, "has_lower", lowerRe)
	mustRegister(v, "has_digit", digitRe)
	mustRegister(v, "has_special", specialRe)
	mustRegister(v, "person_name", personNameRe)
	return &Engine{v: v}
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// check runs every rule of f against value and returns one issue per failure.
func (e *Engine) check(f field, value string) []domain.Issue {
	if value == "" && f.required != "" {
		return []domain.Issue{{Path: []string{f.name}, Message: f.required}}
	}

	var issues []domain.Issue
	for _, tag := range f.tags {
		err := e.v.Var(value, tag)
		if err == nil {
			continue
		}
		msg := fmt.Sprintf("%s is invalid", f.label)
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			msg = fieldError(f.label, ve[0])
		}
		issues = append(issues, domain.Issue{Path: []string{f.name}, Message: msg})
	}
	return issues
}

// fieldError converts a single rule failure into the message shown to users.
func fieldError(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", label, fe.Param())
	case "has_upper":
		return label + " must contain at least one uppercase letter"
	case "has_lower":
		return label + " must contain at least one lowercase letter"
	case "has_digit":
		return label + " must contain at least one number"
	case "has_special":
		return label + " must contain at least one special character"
	case "person_name":
		return label + " can only contain letters, spaces, hyphens and apostrophes"
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}

func (e *Engine) parse(f field, value string) (string, error) {
	if issues := e.check(f, value); len(issues) > 0 {
		return "", &domain.ValidationError{Issues: issues}
	}
	return value, nil
}

func (e *Engine) ParseEmail(s string) (string, error)    { return e.parse(emailField, s) }
func (e *Engine) ParsePassword(s string) (string, error) { return e.parse(passwordField, s) }
func (e *Engine) ParseName(s string) (string, error)     { return e.parse(nameField, s) }

func (e *Engine) IsValidEmail(s string) bool    { return len(e.check(emailField, s)) == 0 }
func (e *Engine) IsValidPassword(s string) bool { return len(e.check(passwordField, s)) == 0 }
func (e *Engine) IsValidName(s string) bool     { return len(e.check(nameField, s)) == 0 }

// LoginInput is the login payload.
type LoginInput struct {
	Email    string
	Password string
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ValidateLogin checks email and password together and reports every failing
// field in one error.
func (e *Engine) ValidateLogin(in LoginInput) (LoginInput, error) {
	var issues []domain.Issue
	issues = append(issues, e.check(emailField, in.Email)...)
	issues = append(issues, e.check(passwordField, in.Password)...)
	if len(issues) > 0 {
		return LoginInput{}, &domain.ValidationError{Issues: issues}
	}
	return in, nil
}

// ValidateRegister checks name, email and password together.
func (e *Engine) ValidateRegister(in RegisterInput) (RegisterInput, error) {
	var issues []domain.Issue
	issues = append(issues, e.check(nameField, in.Name)...)
	issues = append(issues, e.check(emailField, in.Email)...)
	issues = append(issues, e.check(passwordField, in.Password)...)
	if len(issues) > 0 {
		return RegisterInput{}, &domain.ValidationError{Issues: issues}
	}
	return in, nil
}
