package handler

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// validateSignup checks the signup payload shape and returns field-level
// error messages, empty when the payload is acceptable. Rules: a plausible
// email, a password of 8-20 characters containing at least one lowercase and
// one uppercase letter, and a name of 5-30 characters.
func validateSignup(email, password, name string) map[string][]string {
	errs := map[string][]string{}

	if email == "" {
		errs["email"] = append(errs["email"], "email is required")
	} else if strings.Count(email, "@") != 1 || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		errs["email"] = append(errs["email"], "email is invalid")
	}

	if n := utf8.RuneCountInString(password); n < 8 || n > 20 {
		errs["password"] = append(errs["password"], "password must be 8-20 characters")
	}
	var hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	if !hasLower {
		errs["password"] = append(errs["password"], "password must contain at least one lowercase letter")
	}
	if !hasUpper {
		errs["password"] = append(errs["password"], "password must contain at least one uppercase letter")
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(name)); n < 5 || n > 30 {
		errs["name"] = append(errs["name"], "name must be 5-30 characters")
	}

	return errs
}
