package models

import "strings"

// ImageURL returns a data URL for a base64 JPEG avatar, or "" when the user
// has none.
func ImageURL(avatar string) string {
	if avatar == "" {
		return ""
	}
	return "data:image/jpeg;base64," + avatar
}

// Initials returns the upper-cased first letters of the first and last name.
func Initials(firstName, lastName string) string {
	return strings.ToUpper(firstRune(firstName) + firstRune(lastName))
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
