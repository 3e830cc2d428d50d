// Package redact masks personal data before it reaches log output.
package redact

import "strings"

// Email keeps the first two characters of the local part and the domain:
// "alice@example.com" becomes "al***@example.com".
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "***"
	}

	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Code hides a one-time code entirely, keeping only its length.
func Code(s string) string {
	return strings.Repeat("*", len(s))
}
