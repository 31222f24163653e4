package domain

// Auth methods recorded on a Principal.
const (
	AuthAPIKey = "apiKey"
	AuthOIDC   = "oidc"
)

// Principal identifies the authenticated caller of the API.
type Principal struct {
	Subject string `json:"subject"`
	Email   string `json:"email,omitempty"`
	Method  string `json:"method"`
}
