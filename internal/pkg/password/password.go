package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor for new hashes
const DefaultCost = 12

// Cost is the work factor Hash uses; tests lower it
var Cost = DefaultCost

// ErrEmpty is returned when hashing an empty password
var ErrEmpty = errors.New("password is empty")

// Hash returns the bcrypt hash of plain
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NeedsRehash reports whether hash was made with a work factor other than Cost
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost != Cost
}
