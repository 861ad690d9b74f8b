package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2 parameters (RFC 9106 recommendations)
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32 // 256 bits for AES-256

	saltLength = 32
)

// Encryptor encrypts caller identifiers before they reach the run log.
// The key is derived from a passphrase with Argon2id; the payload format
// is salt + nonce + ciphertext, base64-encoded. An empty passphrase
// disables encryption, which is acceptable for local development only.
type Encryptor struct {
	passphrase string
}

// NewEncryptor creates an Encryptor. Pass an empty passphrase to store
// identifiers as-is.
func NewEncryptor(passphrase string) *Encryptor {
	return &Encryptor{passphrase: passphrase}
}

// Enabled reports whether a passphrase is configured.
func (e *Encryptor) Enabled() bool {
	return e.passphrase != ""
}

// EncryptString encrypts a value for storage. Disabled encryptors and
// empty values pass through unchanged.
func (e *Encryptor) EncryptString(plaintext string) (string, error) {
	if !e.Enabled() || plaintext == "" {
		return plaintext, nil
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := e.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	payload := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// DecryptString reverses EncryptString.
func (e *Encryptor) DecryptString(stored string) (string, error) {
	if !e.Enabled() || stored == "" {
		return stored, nil
	}

	payload, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("failed to decode stored value: %w", err)
	}
	if len(payload) < saltLength {
		return "", fmt.Errorf("stored value too short")
	}

	salt := payload[:saltLength]
	gcm, err := e.aead(salt)
	if err != nil {
		return "", err
	}

	rest := payload[saltLength:]
	if len(rest) < gcm.NonceSize() {
		return "", fmt.Errorf("stored value too short")
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

func (e *Encryptor) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(e.passphrase), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
