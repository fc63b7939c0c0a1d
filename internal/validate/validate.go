package validate

import "regexp"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const minPasswordLen = 8

// CheckMandatory validates the fields of a user about to be created. It
// returns "" when every field is acceptable, otherwise the name of the first
// failing field. Fields are checked in a fixed order: username, firstname,
// lastname, password.
func CheckMandatory(lastname, firstname, username, password string) string {
	if !namePattern.MatchString(username) {
		return "username"
	}
	if !namePattern.MatchString(firstname) {
		return "firstname"
	}
	if !namePattern.MatchString(lastname) {
		return "lastname"
	}
	if len(password) < minPasswordLen {
		return "password"
	}
	return ""
}

// CheckOptional applies the same per-field rules to an update, where any
// field may be absent. A nil field is not a failure.
func CheckOptional(lastname, firstname, username, password *string) string {
	if username != nil && !namePattern.MatchString(*username) {
		return "username"
	}
	if firstname != nil && !namePattern.MatchString(*firstname) {
		return "firstname"
	}
	if lastname != nil && !namePattern.MatchString(*lastname) {
		return "lastname"
	}
	if password != nil && len(*password) < minPasswordLen {
		return "password"
	}
	return ""
}
