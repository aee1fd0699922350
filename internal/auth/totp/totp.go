// Package totp verifies RFC 6238 time-based one-time passwords.
package totp

import (
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	pqtotp "github.com/pquerna/otp/totp"

	"linkboard/pkg/platform/clock"
)

const (
	defaultPeriod = 30
	defaultSkew   = 1
)

var errEmptySecret = errors.New("totp secret is empty")

// Verifier checks six-digit SHA-1 codes against a base32 shared secret.
type Verifier struct {
	clock clock.Clock
	opts  pqtotp.ValidateOpts
}

type Option func(*Verifier)

func WithClock(c clock.Clock) Option {
	return func(v *Verifier) {
		if c != nil {
			v.clock = c
		}
	}
}

// WithSkew accepts codes from this many periods either side of now.
func WithSkew(steps int) Option {
	return func(v *Verifier) {
		if steps >= 0 {
			v.opts.Skew = uint(steps)
		}
	}
}

func New(opts ...Option) *Verifier {
	v := &Verifier{
		clock: clock.System,
		opts: pqtotp.ValidateOpts{
			Period:    defaultPeriod,
			Skew:      defaultSkew,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify reports whether code is valid for secret at the clock's current time.
// Malformed secrets never verify.
func (v *Verifier) Verify(code, secret string) bool {
	secret = normalizeSecret(secret)
	if secret == "" {
		return false
	}
	ok, err := pqtotp.ValidateCustom(code, secret, v.clock.Now(), v.opts)
	return err == nil && ok
}

// Code returns the code for secret at t. Used by tooling and tests.
func (v *Verifier) Code(secret string, t time.Time) (string, error) {
	secret = normalizeSecret(secret)
	if secret == "" {
		return "", errEmptySecret
	}
	return pqtotp.GenerateCodeCustom(secret, t, v.opts)
}

// normalizeSecret accepts the grouped, lower-case form authenticator apps display.
func normalizeSecret(secret string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
}
