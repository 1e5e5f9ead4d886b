package model

// Principal is the verified identity derived from a bearer token.
type Principal struct {
	// Email is the verified email claim. Authorization checks compare
	// this against owner emails and query filters.
	Email string
	// Subject is the identity provider's stable user id.
	Subject string
}
