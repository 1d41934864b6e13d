package customers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ukydev/workshop-walkin/internal/models"
)

// generateCredentials builds a username from the customer name plus a short
// random suffix, and a random URL-safe password. The pair is unrelated to
// anything the customer chose; it only exists so the account can be handed
// over at the counter.
func generateCredentials(name string) (models.Credentials, error) {
	base := usernameBase(name)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	secret := make([]byte, 12)
	if _, err := rand.Read(secret); err != nil {
		return models.Credentials{}, fmt.Errorf("generate password: %w", err)
	}

	return models.Credentials{
		Username: base + "." + suffix,
		Password: base64.RawURLEncoding.EncodeToString(secret),
	}, nil
}

// usernameBase lowercases the name and keeps only letters, digits and dots.
func usernameBase(name string) string {
	joined := strings.ToLower(strings.Join(strings.Fields(name), "."))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			return r
		default:
			return -1
		}
	}, joined)
	if cleaned == "" {
		return "customer"
	}
	return cleaned
}
