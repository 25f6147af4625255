package profile

import (
	"errors"
	"strings"
)

// ErrEmptyName is returned by Login for a blank username.
var ErrEmptyName = errors.New("profile: username is required")

// Login sets the learner identity. Progress is untouched.
func Login(p *Profile, username, email string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyName
	}
	p.Username = username
	p.Email = strings.TrimSpace(email)
	p.IsLoggedIn = true
	return nil
}

// Logout restores the guest identity and reports whether anything
// changed. Progress is untouched.
func Logout(p *Profile) bool {
	if !p.IsLoggedIn && p.Username == GuestName && p.Email == "" {
		return false
	}
	p.IsLoggedIn = false
	p.Username = GuestName
	p.Email = ""
	return true
}
