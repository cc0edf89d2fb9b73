package data

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"time"

	"github.com/emzola/athenaeum/internal/validator"
	"github.com/google/uuid"
)

const ScopeAuthentication = "authentication"

// Token defines a bearer token issued to an admin.
type Token struct {
	Plaintext string    `json:"token"`
	Hash      []byte    `json:"-"`
	AdminID   uuid.UUID `json:"-"`
	Expiry    time.Time `json:"expiry"`
	Scope     string    `json:"-"`
}

// GenerateToken returns a token with a random plaintext and its SHA-256 hash.
func GenerateToken(adminID uuid.UUID, ttl time.Duration, scope string) (*Token, error) {
	token := &Token{
		AdminID: adminID,
		Expiry:  time.Now().Add(ttl),
		Scope:   scope,
	}
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}
	token.Plaintext = base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	token.Hash = TokenHash(token.Plaintext)
	return token, nil
}

func TokenHash(plaintext string) []byte {
	hash := sha256.Sum256([]byte(plaintext))
	return hash[:]
}

func ValidateTokenPlaintext(v *validator.Validator, tokenPlaintext string) {
	v.Check(tokenPlaintext != "", "token", "must be provided")
	v.Check(len(tokenPlaintext) == 26, "token", "must be 26 bytes long")
}
