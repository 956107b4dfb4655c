package common

import "strings"

const redacted = "[REDACTED]"

// Redact replaces every occurrence of the given secrets in s.
func Redact(s string, secrets ...string) string {
	for _, secret := range secrets {
		if strings.TrimSpace(secret) == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}

// RedactError returns the error text with secrets removed, or "" for a nil error.
func RedactError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}
	return Redact(err.Error(), secrets...)
}

// MaskSecret stands in for a configured secret. No part of the secret survives.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return redacted
}
