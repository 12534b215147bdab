package driver

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

func isValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") || len(phone) < 8 {
		return false
	}

	for _, char := range phone[1:] {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validationError(cause error) error {
	return fmt.Errorf("%w: %w", ErrValidation, cause)
}
