package models

import "fmt"

// Role is the portal a session belongs to
type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleExhibitor Role = "exhibitor"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleOrganizer || r == RoleExhibitor
}

// AuthMethod tells how a session was established with the auth provider
type AuthMethod string

const (
	// AuthMethodEmail covers email/password and OAuth sign-ins, all keyed by the provider user id
	AuthMethodEmail AuthMethod = "email"
	// AuthMethodLine covers sessions established through the LINE messenger login
	AuthMethodLine AuthMethod = "line"
)

// Identity is the authenticated principal of a request. It is one of
// LinkedAccount or ExternalAccount; each variant maps to its own lookup
// column and the two keyspaces are never mixed.
type Identity interface {
	// Key is the provider-issued identifier for this variant
	Key() string
	// Method is the auth method that produced this identity
	Method() AuthMethod
	isIdentity()
}

// LinkedAccount is a principal issued by the primary auth provider (user_id column)
type LinkedAccount struct {
	UserID string
}

func (a LinkedAccount) Key() string        { return a.UserID }
func (a LinkedAccount) Method() AuthMethod { return AuthMethodEmail }
func (a LinkedAccount) isIdentity()        {}
func (a LinkedAccount) String() string     { return "linked:" + a.UserID }

// ExternalAccount is a principal issued by the external messenger provider (line_user_id column)
type ExternalAccount struct {
	ExternalUserID string
}

func (a ExternalAccount) Key() string        { return a.ExternalUserID }
func (a ExternalAccount) Method() AuthMethod { return AuthMethodLine }
func (a ExternalAccount) isIdentity()        {}
func (a ExternalAccount) String() string     { return "external:" + a.ExternalUserID }

// NewIdentity builds the identity variant for an auth method and provider key
func NewIdentity(method AuthMethod, key string) (Identity, error) {
	if key == "" {
		return nil, fmt.Errorf("identity key is empty")
	}
	switch method {
	case AuthMethodEmail:
		return LinkedAccount{UserID: key}, nil
	case AuthMethodLine:
		return ExternalAccount{ExternalUserID: key}, nil
	default:
		return nil, fmt.Errorf("unknown auth method %q", method)
	}
}

// AccountKeys are the two linkage columns shared by exhibitors and organizers
type AccountKeys struct {
	UserID     *string `json:"userId,omitempty"`
	LineUserID *string `json:"lineUserId,omitempty"`
}

// RecipientKey is the id notifications are addressed to. The linked
// account wins when both columns are set.
func (k AccountKeys) RecipientKey() string {
	if k.UserID != nil && *k.UserID != "" {
		return *k.UserID
	}
	if k.LineUserID != nil && *k.LineUserID != "" {
		return *k.LineUserID
	}
	return ""
}

// KeysFor returns the linkage columns populated for a new row owned by identity
func KeysFor(identity Identity) AccountKeys {
	key := identity.Key()
	switch identity.(type) {
	case ExternalAccount:
		return AccountKeys{LineUserID: &key}
	default:
		return AccountKeys{UserID: &key}
	}
}
