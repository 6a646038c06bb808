package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrMissingEncryptionSecret indicates that no PII encryption secret was
	// provided by any configuration source.
	ErrMissingEncryptionSecret = errors.New("missing encryption secret")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
