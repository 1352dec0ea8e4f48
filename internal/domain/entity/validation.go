package entity

import (
	"strings"
	"unicode"
)

const (
	// maxPhoneDigits caps the national number length per E.164.
	maxPhoneDigits = 15
	minPhoneDigits = 7

	// maxTitleLength bounds event titles to keep audit rows and provider
	// payloads sane.
	maxTitleLength = 512
)

// ValidatePhone validates a phone number for SMS delivery. Numbers are
// expected in E.164-ish form: an optional leading "+" followed by 7-15
// digits. Separators (spaces, dashes, parentheses) are tolerated.
// Returns a ValidationError if the number is empty or malformed.
func ValidatePhone(phone string) error {
	if phone == "" {
		return &ValidationError{Field: "phone", Message: "phone number is required"}
	}

	digits := 0
	for i, r := range phone {
		switch {
		case r == '+' && i == 0:
		case unicode.IsDigit(r):
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return &ValidationError{Field: "phone", Message: "phone number contains invalid characters"}
		}
	}

	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return &ValidationError{Field: "phone", Message: "phone number must contain 7-15 digits"}
	}
	return nil
}

// ValidateEmail validates an email address for email delivery. The check is
// deliberately shallow (local@domain with a dot in the domain): the email
// provider is the authority on deliverability, this only rejects data that
// cannot possibly be an address.
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "email address is required"}
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return &ValidationError{Field: "email", Message: "email address is malformed"}
	}

	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return &ValidationError{Field: "email", Message: "email domain is malformed"}
	}

	if strings.ContainsAny(email, " \t\n") {
		return &ValidationError{Field: "email", Message: "email address contains whitespace"}
	}
	return nil
}

// ValidateEvent checks the structural invariants of a notification event
// before any channel work begins. A missing recipient id is reported via
// ErrMissingRecipient so the orchestrator can map it to its terminal
// validation failure.
func ValidateEvent(event *NotificationEvent) error {
	if event == nil {
		return ErrInvalidInput
	}
	if event.RecipientID == "" {
		return ErrMissingRecipient
	}
	if !event.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: "unknown event kind"}
	}
	if event.Title == "" && event.Body == "" {
		return &ValidationError{Field: "body", Message: "event must carry a title or a body"}
	}
	if len(event.Title) > maxTitleLength {
		return &ValidationError{Field: "title", Message: "title exceeds maximum length"}
	}
	return nil
}
