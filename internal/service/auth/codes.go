package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	otpLength          = 6
	referralCodeLength = 6
)

func randomDigits(n int) (string, error) {
	var b strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteString(d.String())
	}
	return b.String(), nil
}

// usernameFor derives a username from the email local part plus a short random suffix.
func usernameFor(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.ToLower(local)
	return fmt.Sprintf("%s_%s", local, strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
