package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	NameMinLen        = 2
	NameMaxLen        = 50
	PasswordMinLength = 6
	// PasswordMaxBytes es el limite de entrada de bcrypt.
	PasswordMaxBytes = 72
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail espera un email ya normalizado.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func ValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= NameMinLen && n <= NameMaxLen
}

func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= PasswordMinLength && !PasswordTooLong(password)
}

// PasswordTooLong mide en bytes, no en runas.
func PasswordTooLong(password string) bool {
	return len(password) > PasswordMaxBytes
}
