package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@acme.com", "acme.com"},
		{"odd@name@sub.acme.io", "sub.acme.io"},
		{"no-at-sign", ""},
		{"", ""},
		{"trailing@", ""},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, Contact{Email: tt.email}.EmailDomain())
		})
	}
}

func TestCompanyIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		want    string
	}{
		{"company wins", Contact{Company: "Acme", Email: "j@acme.com"}, "Acme"},
		{"domain fallback", Contact{Email: "j@acme.com"}, "acme.com"},
		{"nothing", Contact{Email: "not-an-email"}, ""},
		{"empty", Contact{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.contact.CompanyIdentifier())
		})
	}
}

func TestSearchSubject(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		want    string
	}{
		{"company with domain hint", Contact{Company: "Acme", Email: "j@acme.com"}, "company Acme (domain: acme.com)"},
		{"company only", Contact{Company: "Acme"}, "company Acme"},
		{"domain only", Contact{Email: "j@acme.com"}, "company acme.com"},
		{"company equals domain", Contact{Company: "acme.com", Email: "j@acme.com"}, "company acme.com"},
		{"unprocessable", Contact{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.contact.SearchSubject())
		})
	}
}

func TestContactFromProperties(t *testing.T) {
	c := ContactFromProperties("501", map[string]string{"email": " j@acme.com ", "company": "", "other": "x"})
	assert.Equal(t, Contact{ID: "501", Email: "j@acme.com"}, c)
}

func TestOutcomeSucceeded(t *testing.T) {
	assert.True(t, OutcomeSucceeded.Succeeded())
	for _, o := range []Outcome{
		OutcomeSkippedFetchFailed,
		OutcomeSkippedNoIdentifier,
		OutcomeSkippedNoCategoryField,
		OutcomeFailedCategoryWrite,
	} {
		assert.False(t, o.Succeeded(), string(o))
	}
}
