package domain

// Auth methods reported on a Principal.
const (
	AuthMethodToken = "token"
	AuthMethodOIDC  = "oidc"
)

// Principal is the authenticated caller of the HTTP API.
type Principal struct {
	Subject string
	Email   string
	Method  string
}
