// Package otpcode generates the short numeric codes sent to users during
// registration and password recovery.
//
// Codes are random, not secret-derived: each issued code is independent and
// only meaningful against the stored record it was issued with.
package otpcode
