package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash of the plain-text password at the
// given cost.  The cost comes from configuration so deployments can
// trade hashing time against hardware; bcrypt embeds it in the hash, so
// raising the setting later only affects newly stored passwords.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the plain-text password matches the
// stored bcrypt hash.  The comparison runs in constant time inside
// bcrypt, and any error (malformed hash included) reads as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
