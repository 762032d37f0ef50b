package config

import "errors"

var ErrMissingEncryptionKey = errors.New("KYC_ENCRYPTION_KEY must be set in production")
