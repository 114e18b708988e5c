package auth

// Config holds the token verification settings.
type Config struct {
	SigningKey string `env:"JWT_SIGNING_KEY,required"` // SigningKey is the HMAC secret used to verify access tokens.
}
