// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, password hashing and session tokens.

# Identifiers

Every record id is a UUID. ParseID is the single place where text coming
from a path, a body or a token becomes a uuid.UUID:

	eventID, err := auth.ParseID(r.PathValue("id"))

Comparisons elsewhere are plain == on uuid.UUID, so the same user can never
appear under two spellings.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate) // ErrInvalidCredentials on mismatch

# Tokens

Access and refresh tokens are HS256 JWTs signed with different secrets. The
subject is the user id:

	keys := auth.Keys{AccessSecret: a, RefreshSecret: r, AccessTTL: time.Hour, RefreshTTL: 7 * 24 * time.Hour}
	tokens, err := keys.Issue(userID)
	userID, err := auth.ParseToken(tokens.Access, a)

ParseToken only accepts HS256, requires an expiry and the service issuer,
and returns ErrExpiredToken or ErrInvalidToken on failure.
*/
package auth
