// Package model defines the transient records that flow through a
// categorization run.
package model

import "strings"

// Logical contact fields read from the CRM.
const (
	FieldEmail   = "email"
	FieldCompany = "company"
)

// FallbackCategory is assigned when the classifier cannot pick a configured category.
const FallbackCategory = "Other"

// FallbackContext is stored and classified when web search returns nothing.
const FallbackContext = "No additional web context available."

// Contact is a CRM person record. ID is opaque and never parsed.
type Contact struct {
	ID      string `json:"id"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
}

// ContactFromProperties builds a Contact from a CRM property map.
func ContactFromProperties(id string, props map[string]string) Contact {
	return Contact{
		ID:      id,
		Email:   strings.TrimSpace(props[FieldEmail]),
		Company: strings.TrimSpace(props[FieldCompany]),
	}
}

// EmailDomain returns the substring after the last "@" of the email, or ""
// if the email has no "@".
func (c Contact) EmailDomain() string {
	i := strings.LastIndex(c.Email, "@")
	if i < 0 {
		return ""
	}
	return c.Email[i+1:]
}

// CompanyIdentifier returns the company name, else the email domain, else "".
// An empty identifier means the contact cannot be processed.
func (c Contact) CompanyIdentifier() string {
	if c.Company != "" {
		return c.Company
	}
	return c.EmailDomain()
}

// SearchSubject is the company_query value used to build the web-search
// prompt. A known email domain is appended to a company name to disambiguate.
func (c Contact) SearchSubject() string {
	id := c.CompanyIdentifier()
	if id == "" {
		return ""
	}
	q := "company " + id
	if domain := c.EmailDomain(); domain != "" && c.Company != "" && domain != id {
		q += " (domain: " + domain + ")"
	}
	return q
}
