// Package password hashes and checks account passwords with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	dErrors "linkboard/pkg/domain-errors"
)

// Bcrypt implements the password hasher used by login.
type Bcrypt struct {
	cost      int
	dummyHash []byte
}

// New returns a bcrypt hasher. A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func New(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Same cost as real hashes so VerifyDummy takes as long as a real check.
	dummy, err := bcrypt.GenerateFromPassword([]byte("linkboard-dummy-password"), cost)
	if err != nil {
		panic(err)
	}
	return &Bcrypt{cost: cost, dummyHash: dummy}
}

// Hash returns the bcrypt digest of plaintext.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash password")
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches digest. Malformed digests never match.
func (b *Bcrypt) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyDummy burns one comparison for an unknown account.
func (b *Bcrypt) VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(b.dummyHash, []byte(plaintext))
}
