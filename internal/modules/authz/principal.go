package authz

import "github.com/google/uuid"

// Freelancer is the authenticated owner-side principal, resolved from a
// session JWT.
type Freelancer struct {
	ID    uuid.UUID
	Email string
}

// Client is the token-bearing portal-side principal. It can only see
// projects hanging off its own client row; it never reaches portal or
// client-level operations.
type Client struct {
	ID       uuid.UUID
	PortalID uuid.UUID
}
