package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/leadflow/crm-directory/internal/entity"
)

// The directory only applies defaults. Required fields are checked by the
// caller with these helpers before a create is issued.

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

func ValidateCreateEmployeeInput(input CreateEmployeeInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if input.Role != "" && !input.Role.Valid() {
		errors = append(errors, ValidationError{"role", "must be SUPER_ADMIN, ADMIN or EMPLOYEE"})
	}
	if input.Status != "" && !input.Status.Valid() {
		errors = append(errors, ValidationError{"status", "must be ACTIVE or INACTIVE"})
	}

	return errors
}

func ValidateCreateLeadInput(input entity.LeadPatch) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}

	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

// JoinValidationErrors flattens errs into one message.
func JoinValidationErrors(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// isValidPhoneNumber accepts anything from a short local number up to the
// E.164 maximum of 15 digits, ignoring punctuation and a leading +.
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= minPhoneDigits && len(cleaned) <= maxPhoneDigits
}
