package models

import "time"

// EncryptedField pairs the ciphertext of a sensitive attribute with its
// deterministic fingerprint. The ciphertext is reversible with the process
// key; the fingerprint is the one-way value used for equality and uniqueness
// checks without ever comparing plaintext.
type EncryptedField struct {
	Ciphertext  string
	Fingerprint string
}

// Tenant is the storage representation of a tenant. NICNo, ContactNo and
// Address hold ciphertext; NICNoHash and ContactNoHash hold the fingerprints
// backing the uniqueness indexes. None of the encrypted columns are exposed
// through the API directly — reads go through [TenantView].
type Tenant struct {
	ID            string    `json:"-"`
	TenantID      string    `json:"tenantId"`
	FullName      string    `json:"fullName"`
	CallingName   string    `json:"callingName"`
	NICNo         string    `json:"-"`
	NICNoHash     string    `json:"-"`
	ContactNo     string    `json:"-"`
	ContactNoHash string    `json:"-"`
	Address       string    `json:"-"`
	JoinedDate    time.Time `json:"joinedDate"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TenantView is the read-path shape of a tenant with PII fields decrypted.
// DecryptionFailed is set when one or more fields could not be decrypted with
// the current key; such fields still carry the raw ciphertext and must not be
// treated as valid data.
type TenantView struct {
	TenantID         string    `json:"tenantId"`
	FullName         string    `json:"fullName"`
	CallingName      string    `json:"callingName"`
	NICNo            string    `json:"nicNo"`
	ContactNo        string    `json:"contactNo"`
	Address          string    `json:"address"`
	JoinedDate       time.Time `json:"joinedDate"`
	IsActive         bool      `json:"isActive"`
	DecryptionFailed bool      `json:"decryptionFailed,omitempty"`
}

// CreateTenantRequest is the write payload for tenant creation. NICNo,
// ContactNo and Address arrive as plaintext and are protected before they
// reach the store.
type CreateTenantRequest struct {
	FullName    string     `json:"fullName"`
	CallingName string     `json:"callingName"`
	NICNo       string     `json:"nicNo"`
	ContactNo   string     `json:"contactNo"`
	Address     string     `json:"address"`
	JoinedDate  *time.Time `json:"joinedDate,omitempty"`
}

// UpdateTenantRequest carries optional field updates for an existing tenant.
// Changing NICNo or ContactNo re-encrypts the value and replaces its
// fingerprint.
type UpdateTenantRequest struct {
	FullName    *string `json:"fullName,omitempty"`
	CallingName *string `json:"callingName,omitempty"`
	NICNo       *string `json:"nicNo,omitempty"`
	ContactNo   *string `json:"contactNo,omitempty"`
	Address     *string `json:"address,omitempty"`
}
