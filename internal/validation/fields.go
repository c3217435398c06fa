// Package validation holds the field rules applied to request input.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits, counted in characters.
const (
	MaxContentLength = 5000
	MaxNameLength    = 200
	MaxTags          = 20
	MaxTagLength     = 50
	MaxIDLength      = 128
)

var idRegex = regexp.MustCompile(`^[A-Za-z0-9._:@-]+$`)

// ValidateLength rejects values longer than max characters.
func ValidateLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s too long (max %d characters)", field, max)
	}
	return nil
}

// ValidateID checks a client-supplied identifier. Empty is allowed; callers
// generate one in that case.
func ValidateID(field, id string) error {
	if id == "" {
		return nil
	}
	if err := ValidateLength(field, id, MaxIDLength); err != nil {
		return err
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters", field)
	}
	return nil
}

// ValidateEmail accepts an empty string or a single bare address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if err := ValidateLength("email", email, MaxNameLength); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

// ValidateTags bounds the number and size of post tags.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTags {
		return fmt.Errorf("too many tags (max %d)", MaxTags)
	}
	for _, tag := range tags {
		if err := ValidateLength("tag", tag, MaxTagLength); err != nil {
			return err
		}
	}
	return nil
}
