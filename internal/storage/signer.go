package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultSignedURLTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired object token")

type objectClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// Signer issues time-boxed links to stored objects.
// The link carries an HS256 token naming the object key and its expiry.
type Signer struct {
	secretKey []byte
	baseURL   string
	store     objectStat
	now       func() time.Time
}

type objectStat interface {
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
}

func NewSigner(secretKey, publicBaseURL string, store objectStat) (*Signer, error) {
	if secretKey == "" {
		return nil, errors.New("signing secret cannot be empty")
	}
	if _, err := url.Parse(publicBaseURL); err != nil {
		return nil, fmt.Errorf("parse public base url: %w", err)
	}
	return &Signer{
		secretKey: []byte(secretKey),
		baseURL:   strings.TrimSuffix(publicBaseURL, "/"),
		store:     store,
		now:       time.Now,
	}, nil
}

// SignedURL returns a link valid for ttl. The object must exist.
func (s *Signer) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := s.store.Stat(ctx, key); err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}

	token, err := s.Token(key, ttl)
	if err != nil {
		return "", err
	}

	return s.baseURL + "/storage/object/" + token, nil
}

func (s *Signer) Token(key string, ttl time.Duration) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}

	now := s.now()
	claims := &objectClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify returns the object key carried by a valid token.
func (s *Signer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&objectClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secretKey, nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*objectClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if err := ValidateKey(claims.Key); err != nil {
		return "", ErrInvalidToken
	}

	return claims.Key, nil
}
