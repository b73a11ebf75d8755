package ports

// CredentialSource provides the news provider API key.
type CredentialSource interface {
	APIKey() (string, error)
}
