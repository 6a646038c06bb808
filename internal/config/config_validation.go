// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ashen Wijesinghe

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The encryption secret and the database DSN have no usable defaults: a
// missing secret would silently produce a key derived from an empty string,
// so both are rejected here rather than at first use.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.EncryptionSecret == "" {
		return ErrMissingEncryptionSecret
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
