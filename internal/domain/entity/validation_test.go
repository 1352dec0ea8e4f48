package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{name: "valid E.164", phone: "+14155552671", wantErr: false},
		{name: "valid with separators", phone: "+1 (415) 555-2671", wantErr: false},
		{name: "valid without plus", phone: "14155552671", wantErr: false},
		{name: "empty", phone: "", wantErr: true},
		{name: "too short", phone: "+1234", wantErr: true},
		{name: "too long", phone: "+1234567890123456", wantErr: true},
		{name: "letters", phone: "+1415CALLME", wantErr: true},
		{name: "plus not leading", phone: "1+4155552671", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhone(tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsValidationError(err), "expected a ValidationError")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "worker@example.com", wantErr: false},
		{name: "valid subdomain", email: "w.orker@mail.example.co", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "no at", email: "workerexample.com", wantErr: true},
		{name: "no local part", email: "@example.com", wantErr: true},
		{name: "no domain", email: "worker@", wantErr: true},
		{name: "no dot in domain", email: "worker@example", wantErr: true},
		{name: "trailing dot domain", email: "worker@example.com.", wantErr: true},
		{name: "whitespace", email: "worker @example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEvent(t *testing.T) {
	valid := func() *NotificationEvent {
		return &NotificationEvent{
			Kind:        EventJobAssignment,
			RecipientID: "user-1",
			Title:       "New shift assigned",
			Body:        "You picked up the Saturday shift.",
		}
	}

	t.Run("valid event", func(t *testing.T) {
		assert.NoError(t, ValidateEvent(valid()))
	})

	t.Run("nil event", func(t *testing.T) {
		assert.ErrorIs(t, ValidateEvent(nil), ErrInvalidInput)
	})

	t.Run("missing recipient", func(t *testing.T) {
		ev := valid()
		ev.RecipientID = ""
		assert.ErrorIs(t, ValidateEvent(ev), ErrMissingRecipient)
	})

	t.Run("unknown kind", func(t *testing.T) {
		ev := valid()
		ev.Kind = EventKind("job_teleported")
		err := ValidateEvent(ev)
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))
	})

	t.Run("empty title and body", func(t *testing.T) {
		ev := valid()
		ev.Title = ""
		ev.Body = ""
		assert.Error(t, ValidateEvent(ev))
	})
}
