// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestParseID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		input   string
		want    uuid.UUID
		wantErr bool
	}{
		{"canonical", id.String(), id, false},
		{"upper case", strings.ToUpper(id.String()), id, false},
		{"surrounding space", "  " + id.String() + " ", id, false},
		{"empty", "", uuid.Nil, true},
		{"nil uuid", uuid.Nil.String(), uuid.Nil, true},
		{"garbage", "not-a-uuid", uuid.Nil, true},
		{"number", "42", uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseID() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewID(t *testing.T) {
	if NewID() == NewID() {
		t.Error("NewID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("HashPassword() returned the plain password")
	}

	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Errorf("CheckPassword() with correct password error = %v", err)
	}
	if err := CheckPassword(hash, "hunter23"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password error = %v, want %v", err, ErrInvalidCredentials)
	}
	if err := CheckPassword("not-a-hash", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with malformed hash error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestToken_RoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := IssueToken(userID, "secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	got, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if got != userID {
		t.Errorf("ParseToken() = %s, want %s", got, userID)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	userID := uuid.New()
	valid, _ := IssueToken(userID, "secret", time.Hour)
	expired, _ := IssueToken(userID, "secret", -time.Minute)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{"wrong secret", valid, "other", ErrInvalidToken},
		{"expired", expired, "secret", ErrExpiredToken},
		{"alg none", unsigned, "secret", ErrInvalidToken},
		{"foreign issuer", foreign, "secret", ErrInvalidToken},
		{"subject not an id", badSubject, "secret", ErrInvalidToken},
		{"garbage", "a.b.c", "secret", ErrInvalidToken},
		{"empty", "", "secret", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestKeys_Issue(t *testing.T) {
	keys := Keys{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
	userID := uuid.New()

	tokens, err := keys.Issue(userID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := ParseToken(tokens.Access, keys.AccessSecret); err != nil {
		t.Errorf("access token rejected: %v", err)
	}
	if _, err := ParseToken(tokens.Refresh, keys.RefreshSecret); err != nil {
		t.Errorf("refresh token rejected: %v", err)
	}

	// A refresh token must not pass as an access token.
	if _, err := ParseToken(tokens.Refresh, keys.AccessSecret); err == nil {
		t.Error("refresh token accepted with the access secret")
	}
}
