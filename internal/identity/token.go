// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// Default token lifetimes.
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// DefaultSigningAlgorithm is used when TokenConfig leaves Algorithm empty.
const DefaultSigningAlgorithm = "HS256"

// TokenConfig holds the signing parameters for issued tokens. Access and
// refresh tokens are signed with independent secrets; the two signing
// contexts must never share key material.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	// Algorithm names an HMAC signing method (HS256, HS384, HS512).
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims is the claim set carried by every issued token: the user's email
// and ID plus the absolute expiry.
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs access and refresh tokens. It only issues tokens;
// there is deliberately no verify or decode counterpart in this layer.
type TokenIssuer struct {
	method        jwt.SigningMethod
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenIssuer creates a TokenIssuer from the given config.
// Missing or shared secrets and non-HMAC algorithms are rejected.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if cfg.AccessSecret == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("access secret is required")
	}
	if cfg.RefreshSecret == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("refresh secret is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			Errorf("access and refresh secrets must differ")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = DefaultSigningAlgorithm
	}
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			With("algorithm", alg).
			Errorf("unknown signing algorithm %q", alg)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			With("algorithm", alg).
			Errorf("signing algorithm %q is not an HMAC method", alg)
	}

	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return &TokenIssuer{
		method:        method,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// IssueAccessToken signs a short-lived token carrying the user's identity claims.
func (i *TokenIssuer) IssueAccessToken(user *User) (string, error) {
	token, err := i.sign(user, i.accessSecret, i.accessTTL)
	if err != nil {
		return "", err
	}
	RecordTokenIssued("access")
	return token, nil
}

// IssueRefreshToken signs a longer-lived token with the refresh secret.
// The claim shape matches access tokens; only the lifetime and the signing
// context differ.
func (i *TokenIssuer) IssueRefreshToken(user *User) (string, error) {
	token, err := i.sign(user, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return "", err
	}
	RecordTokenIssued("refresh")
	return token, nil
}

func (i *TokenIssuer) sign(user *User, secret []byte, ttl time.Duration) (string, error) {
	if user == nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Errorf("user is required")
	}

	claims := Claims{
		Email:  user.Email,
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(i.now().Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").
			With("operation", "sign token").
			Wrap(err)
	}
	return signed, nil
}
