package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationFailed(errs []ValidationError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(msgs, ", "),
	}
}

func ValidateRegisterInput(input RegisterInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Password == "" {
		errors = append(errors, ValidationError{"password", "is required"})
	} else if len(input.Password) < 6 {
		errors = append(errors, ValidationError{"password", "must have at least 6 characters"})
	}

	if input.Role != "" && !entity.IsValidRole(input.Role) {
		errors = append(errors, ValidationError{"role", "must be ADMIN, MANAGER or SALES_EXEC"})
	}

	return errors
}

func ValidateLoginInput(input LoginInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Password == "" {
		errors = append(errors, ValidationError{"password", "is required"})
	}

	return errors
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}

	if input.Email != "" && !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Status != "" && !entity.IsValidLeadStatus(input.Status) {
		errors = append(errors, ValidationError{"status", "must be NEW, CONTACTED, QUALIFIED, WON or LOST"})
	}

	return errors
}

func ValidateUpdateLeadInput(input UpdateLeadInput) []ValidationError {
	var errors []ValidationError

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		errors = append(errors, ValidationError{"name", "must not be empty"})
	}

	if input.Email != nil && *input.Email != "" && !isValidEmail(*input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Status != nil && !entity.IsValidLeadStatus(*input.Status) {
		errors = append(errors, ValidationError{"status", "must be NEW, CONTACTED, QUALIFIED, WON or LOST"})
	}

	return errors
}

func ValidateCreateActivityInput(input CreateActivityInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"leadId", "is required"})
	}

	if input.Type == "" {
		errors = append(errors, ValidationError{"type", "is required"})
	} else if !entity.IsValidActivityType(input.Type) {
		errors = append(errors, ValidationError{"type", "must be NOTE, CALL, MEETING or STATUS_CHANGE"})
	}

	return errors
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
