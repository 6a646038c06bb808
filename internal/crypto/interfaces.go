package crypto

import "github.com/ashenlk/tenant-keeper/models"

// PiiCodec protects and reveals personally-identifiable field values.
//
// Protect pairs reversible encryption with a deterministic fingerprint so the
// store can enforce uniqueness of the underlying plaintext without ever
// holding it. Reveal is the inverse of the encryption half; the fingerprint
// half is one-way by construction.
//
// Implementations hold process-wide key material that is derived once at
// startup and never mutated afterwards, so a single codec is safe for
// concurrent use.
type PiiCodec interface {
	// Protect encrypts plaintext and derives its fingerprint. The round-trip
	// law holds: Reveal of the returned ciphertext yields plaintext exactly.
	Protect(plaintext string) (models.EncryptedField, error)

	// Encrypt encrypts plaintext without deriving a fingerprint. Used for
	// confidential fields that carry no uniqueness constraint.
	Encrypt(plaintext string) (string, error)

	// Reveal decrypts ciphertext produced by Protect or Encrypt. On failure
	// (wrong key, corrupted data) it returns the input unchanged with
	// ok=false instead of an error, so a single bad record cannot abort a
	// listing; callers must treat ok=false values as undecryptable, not as
	// data.
	Reveal(ciphertext string) (plaintext string, ok bool)

	// Fingerprint derives the deterministic one-way fingerprint of
	// plaintext. Identical plaintexts always produce identical fingerprints
	// under the same key material.
	Fingerprint(plaintext string) string
}
