package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Contact is the subset of a Salesforce Contact the categorizer reads.
type Contact struct {
	ID      string      `json:"Id" salesforce:"Id"`
	Email   string      `json:"Email" salesforce:"Email"`
	Account *AccountRef `json:"Account" salesforce:"Account"`
}

// AccountRef is the parent Account relationship of a Contact.
type AccountRef struct {
	Name string `json:"Name" salesforce:"Name"`
}

// AccountName returns the parent Account's name, or "".
func (c Contact) AccountName() string {
	if c.Account == nil {
		return ""
	}
	return c.Account.Name
}

// CampaignMember links a Contact to a Campaign.
type CampaignMember struct {
	ContactID string `json:"ContactId" salesforce:"ContactId"`
}

// FindContactByID queries Salesforce for a Contact by its ID.
// Returns nil if no contact is found.
func FindContactByID(ctx context.Context, c Client, id string) (*Contact, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Email, Account.Name FROM Contact WHERE Id = '%s' LIMIT 1",
		escapeSoql(id),
	)

	var contacts []Contact
	if err := c.Query(ctx, soql, &contacts); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find contact by id %s", id))
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

// CampaignContactIDs returns the Contact IDs that are members of the
// campaign, oldest membership first, capped at limit rows.
func CampaignContactIDs(ctx context.Context, c Client, campaignID string, limit int) ([]string, error) {
	soql := fmt.Sprintf(
		"SELECT ContactId FROM CampaignMember WHERE CampaignId = '%s' AND ContactId != null ORDER BY CreatedDate ASC LIMIT %d",
		escapeSoql(campaignID),
		limit,
	)

	var members []CampaignMember
	if err := c.Query(ctx, soql, &members); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: campaign members %s", campaignID))
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m.ContactID != "" {
			ids = append(ids, m.ContactID)
		}
	}
	return ids, nil
}

// UpdateContact updates a Contact record with the given fields.
func UpdateContact(ctx context.Context, c Client, contactID string, fields map[string]any) error {
	if contactID == "" {
		return eris.New("sf: contact id is required")
	}
	if len(fields) == 0 {
		return eris.New("sf: no fields to update")
	}
	if err := c.UpdateOne(ctx, "Contact", contactID, fields); err != nil {
		return eris.Wrap(err, fmt.Sprintf("sf: update contact %s", contactID))
	}
	return nil
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
