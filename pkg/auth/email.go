package auth

import "net/mail"

// ValidEmail reports email is a bare address, like "someone@example.com".
//
// Display names ("Someone <someone@example.com>") are not allowed.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
