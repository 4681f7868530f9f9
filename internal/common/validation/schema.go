package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/models"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const emailProperty = `{"type": "string", "pattern": "^[^@]*@[^@]+"}`
const passwordProperty = `{"type": "string", "minLength": 8}`

var loginSchema = `{
	"type": "object",
	"required": ["email", "password"],
	"properties": {
		"email": ` + emailProperty + `,
		"password": ` + passwordProperty + `
	}
}`

var signUpSchema = `{
	"type": "object",
	"required": ["first_name", "last_name", "email", "password", "phone_number", "lisence_plate_number"],
	"properties": {
		"first_name": {"type": "string", "minLength": 1},
		"last_name": {"type": "string", "minLength": 1},
		"email": ` + emailProperty + `,
		"password": ` + passwordProperty + `,
		"phone_number": {"type": "string", "pattern": "^0[0-9]{9}$"},
		"lisence_plate_number": {"type": "string", "pattern": "^[0-9]{7,8}$"}
	}
}`

var resetSchema = `{
	"type": "object",
	"required": ["email", "new_password"],
	"properties": {
		"email": ` + emailProperty + `,
		"new_password": ` + passwordProperty + `
	}
}`

var emailSchema = `{
	"type": "object",
	"required": ["email"],
	"properties": {"email": ` + emailProperty + `}
}`

// fieldMessages holds the user-facing text per field; schema keyword errors are
// too technical to show in a prompt.
var fieldMessages = map[string]string{
	"email":                "Please enter a valid email, including @ and a domain.",
	"password":             "Password must be at least 8 characters long.",
	"new_password":         "Password must be at least 8 characters long.",
	"first_name":           "Name is invalid.",
	"last_name":            "Name is invalid.",
	"phone_number":         "Phone number must be 10 digits long and start with 0.",
	"lisence_plate_number": "License number must be 7-8 digits long.",
}

// FormValidator checks the account forms before they are sent to the Parking Service.
type FormValidator struct {
	login  *gojsonschema.Schema
	signUp *gojsonschema.Schema
	reset  *gojsonschema.Schema
	email  *gojsonschema.Schema
}

// NewFormValidator compiles the form schemas.
func NewFormValidator() (*FormValidator, error) {
	compile := func(name, src string) (*gojsonschema.Schema, error) {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", name, err)
		}
		return s, nil
	}

	v := &FormValidator{}
	var err error
	if v.login, err = compile("login", loginSchema); err != nil {
		return nil, err
	}
	if v.signUp, err = compile("sign-up", signUpSchema); err != nil {
		return nil, err
	}
	if v.reset, err = compile("reset", resetSchema); err != nil {
		return nil, err
	}
	if v.email, err = compile("email", emailSchema); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *FormValidator) ValidateLogin(email, password string) *ValidationResult {
	return validate(v.login, map[string]interface{}{"email": email, "password": password})
}

func (v *FormValidator) ValidateSignUp(form models.SignUpForm) *ValidationResult {
	return validate(v.signUp, form)
}

func (v *FormValidator) ValidateReset(email, newPassword string) *ValidationResult {
	return validate(v.reset, map[string]interface{}{"email": email, "new_password": newPassword})
}

func (v *FormValidator) ValidateEmail(email string) *ValidationResult {
	return validate(v.email, map[string]interface{}{"email": email})
}

func validate(schema *gojsonschema.Schema, document interface{}) *ValidationResult {
	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "SCHEMA_ERROR"}},
		}
	}

	seen := make(map[string]bool)
	var errs []ValidationError
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		if seen[field] {
			continue
		}
		seen[field] = true

		msg, ok := fieldMessages[field]
		if !ok {
			msg = desc.Description()
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: msg,
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Err converts a failed result into a VALIDATION_FAILED error, nil when valid.
func (vr *ValidationResult) Err() error {
	if vr.Valid {
		return nil
	}
	return apperrors.NewValidationError(vr.Errors[0].Message, strings.Join(vr.GetErrorMessages(), "; "))
}
