// Package crypto wraps the password and token primitives used by the
// authentication layer.
//
// Passwords are bcrypt hashes computed over the lowercase hex MD5 of the
// plaintext. Game clients send the MD5 on the wire, so hashing the digest
// keeps one credential format across the website and the client.
package crypto

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordMD5 returns the lowercase hex MD5 digest of a plaintext password.
func PasswordMD5(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// HashPassword returns the bcrypt hash of the password's MD5 digest.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(PasswordMD5(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(PasswordMD5(password))) == nil
}

// CheckPasswordMD5 verifies an already-digested password against a stored
// hash. Used by the legacy client paths that never see the plaintext.
func CheckPasswordMD5(hash, passwordMD5 string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passwordMD5)) == nil
}

// NewToken returns a fresh 32-character hex session token.
func NewToken() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(raw[:]), nil
}

// HashToken returns the hex SHA-256 of a token. Only the hash is ever
// persisted, so a leaked session store cannot be replayed.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
