package callback

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignatureHeader carries the delivery token on outbound webhook requests.
const SignatureHeader = "Asymmetric-Callback-Signature"

// DeliveryClaims bind a token to one delivery and its exact body.
type DeliveryClaims struct {
	jwt.RegisteredClaims
	BodySHA256 string `json:"body_sha256"`
}

// Signer issues HS256 tokens for webhook deliveries so receivers can check
// where a callback came from.
type Signer struct {
	key    []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

func NewSigner(key []byte, issuer string) (*Signer, error) {
	if len(key) == 0 {
		return nil, errors.New("callback signer: empty key")
	}
	return &Signer{key: key, issuer: issuer, leeway: 60 * time.Second, now: time.Now}, nil
}

// Sign returns a token for the delivery id and body.
func (s *Signer) Sign(deliveryID string, body []byte) (string, error) {
	now := s.now()
	claims := DeliveryClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       deliveryID,
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
		BodySHA256: bodyDigest(body),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Verify checks a token against body. Receivers sharing the key can use it.
func (s *Signer) Verify(raw string, body []byte) (*DeliveryClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(s.leeway),
	)

	var claims DeliveryClaims
	tok, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil || !tok.Valid {
		return nil, errors.New("invalid delivery signature")
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, errors.New("bad issuer")
	}
	if claims.BodySHA256 != bodyDigest(body) {
		return nil, errors.New("body digest mismatch")
	}
	return &claims, nil
}

func bodyDigest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
