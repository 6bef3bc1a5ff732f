package domain

import "time"

// timestampLayout is the wire format for creation instants, matching the
// millisecond UTC form stored in existing user documents.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp renders t in the creation-instant format used by user records.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// UserProfile is the public identity snapshot for a principal. Once
// embedded into a token it is immutable; the authoritative copy lives in
// the credential store.
type UserProfile struct {
	ID          string   `json:"_id" bson:"_id"`
	CreatedAt   string   `json:"create_at" bson:"create_at"`
	Name        string   `json:"name" bson:"name"`
	Phone       string   `json:"phone" bson:"phone"`
	Roles       []string `json:"roles" bson:"roles"`
	Permissions []string `json:"permissions" bson:"permissions"`
}

// CredentialRecord is the stored record for a principal: the profile
// attributes plus the one-way hash of the login secret. The auth core
// reads these records but never mutates them.
type CredentialRecord struct {
	ID           string
	Name         string
	Phone        string
	PasswordHash string
	CreatedAt    string
	Roles        []string
	Permissions  []string
}

// Profile returns the public snapshot of the record.
func (r *CredentialRecord) Profile() UserProfile {
	return UserProfile{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Name:        r.Name,
		Phone:       r.Phone,
		Roles:       r.Roles,
		Permissions: r.Permissions,
	}
}
