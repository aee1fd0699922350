package jwttoken

import (
	"crypto/ed25519"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const minHMACKeyLength = 16

// Signer pins one signing algorithm and its keys. Tokens carrying any other
// alg header, including "none", fail verification as malformed.
type Signer struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
}

// NewSigner builds a signer from configuration values. HS256/HS384/HS512 take
// the raw shared secret; EdDSA takes a PEM-encoded Ed25519 private key.
func NewSigner(alg string, key []byte) (*Signer, error) {
	switch alg {
	case jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg():
		return NewHMACSigner(jwt.GetSigningMethod(alg), key)
	case jwt.SigningMethodEdDSA.Alg():
		return NewEd25519SignerFromPEM(key)
	}
	return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
}

// NewHMACSigner returns a symmetric signer.
func NewHMACSigner(method jwt.SigningMethod, key []byte) (*Signer, error) {
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing method %s is not HMAC", method.Alg())
	}
	if len(key) < minHMACKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d bytes", minHMACKeyLength)
	}
	return &Signer{method: method, signKey: key, verifyKey: key}, nil
}

// NewEd25519Signer returns an asymmetric signer; verification uses the derived public key.
func NewEd25519Signer(private ed25519.PrivateKey) (*Signer, error) {
	if len(private) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid ed25519 private key size %d", len(private))
	}
	return &Signer{
		method:    jwt.SigningMethodEdDSA,
		signKey:   private,
		verifyKey: private.Public(),
	}, nil
}

// NewEd25519SignerFromPEM parses a PKCS#8 PEM private key.
func NewEd25519SignerFromPEM(pemBytes []byte) (*Signer, error) {
	key, err := jwt.ParseEdPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse ed25519 key: %w", err)
	}
	private, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is not an ed25519 private key")
	}
	return NewEd25519Signer(private)
}

// Alg returns the JWS algorithm name.
func (s *Signer) Alg() string {
	return s.method.Alg()
}

func (s *Signer) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(s.method, claims).SignedString(s.signKey)
}

func (s *Signer) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != s.method.Alg() {
		return nil, jwt.ErrTokenUnverifiable
	}
	return s.verifyKey, nil
}
