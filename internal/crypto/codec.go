// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ashen Wijesinghe

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/ashenlk/tenant-keeper/models"
)

// fingerprintPurpose domain-separates the fingerprint key from the cipher
// key so the two values differ even though both derive from the same secret.
const fingerprintPurpose = "tenant-keeper/fingerprint"

// ErrEmptySecret is returned by [NewPiiCodec] when no deployment secret is
// supplied. An empty secret would still derive a valid-looking key, so it is
// rejected outright.
var ErrEmptySecret = errors.New("encryption secret must not be empty")

// piiCodec is the private implementation of [PiiCodec]. It holds an
// AES-256-GCM AEAD built from the derived cipher key and the raw fingerprint
// key for HMAC-SHA256. Both are immutable after construction.
type piiCodec struct {
	aead           cipher.AEAD
	fingerprintKey []byte
}

// NewPiiCodec derives the process-wide key material from the deployment
// secret and salt using Argon2id with the parameters recommended by OWASP
// (2024): 1 iteration, 64 MiB memory, 4 threads, 256-bit output.
//
// Two independent keys are derived:
//   - the cipher key, used for AES-256-GCM encryption of field values;
//   - the fingerprint key, used for keyed HMAC-SHA256 fingerprints; its salt
//     is extended with [fingerprintPurpose] for domain separation.
//
// The keys exist only in process memory. Returns an error if the secret is
// empty or the AEAD cannot be constructed.
func NewPiiCodec(secret, salt string) (PiiCodec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	cipherKey := argon2.IDKey([]byte(secret), []byte(salt), 1, 64*1024, 4, 32)
	fingerprintKey := argon2.IDKey([]byte(secret), []byte(salt+fingerprintPurpose), 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &piiCodec{
		aead:           aead,
		fingerprintKey: fingerprintKey,
	}, nil
}

// Protect implements [PiiCodec]. The fingerprint is computed over the
// plaintext before encryption so that identical plaintexts always collide on
// the fingerprint regardless of the random nonce in the ciphertext.
func (c *piiCodec) Protect(plaintext string) (models.EncryptedField, error) {
	ciphertext, err := c.Encrypt(plaintext)
	if err != nil {
		return models.EncryptedField{}, err
	}

	return models.EncryptedField{
		Ciphertext:  ciphertext,
		Fingerprint: c.Fingerprint(plaintext),
	}, nil
}

// Encrypt implements [PiiCodec]. It encrypts plaintext with AES-256-GCM and
// returns a Base64 (standard encoding) string of the blob:
// nonce (12 bytes) ‖ ciphertext. A random nonce is prepended so that Reveal
// can split it out. Returns an error if the random nonce read fails.
func (c *piiCodec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	blob := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Reveal implements [PiiCodec]. It Base64-decodes ciphertext, splits out the
// nonce and decrypts the remainder. Any failure — the blob is not Base64, is
// shorter than the nonce, or the authentication tag does not verify (wrong
// key or corrupted data) — returns the input unchanged with ok=false.
func (c *piiCodec) Reveal(ciphertext string) (string, bool) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return ciphertext, false
	}

	nonceSize := c.aead.NonceSize()
	if len(blob) < nonceSize {
		return ciphertext, false
	}

	nonce, sealed := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return ciphertext, false
	}

	return string(plaintext), true
}

// Fingerprint implements [PiiCodec]. It computes HMAC-SHA256 over the
// plaintext under the derived fingerprint key and returns the hex-encoded
// digest. The keyed construction prevents offline dictionary recovery of
// low-entropy values such as contact numbers from leaked fingerprints.
func (c *piiCodec) Fingerprint(plaintext string) string {
	mac := hmac.New(sha256.New, c.fingerprintKey)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}
