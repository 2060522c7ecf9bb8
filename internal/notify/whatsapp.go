package notify

import (
	"fmt"
	"net/url"
	"strings"
)

// LinkBuilder produces WhatsApp click-to-chat URLs. No network call is
// involved; a link counts as delivered the moment it is constructable.
type LinkBuilder struct {
	defaultCountryCode string
}

func NewLinkBuilder(defaultCountryCode string) *LinkBuilder {
	if defaultCountryCode == "" {
		defaultCountryCode = "1"
	}
	return &LinkBuilder{defaultCountryCode: defaultCountryCode}
}

// Build normalizes the raw phone number and URL-encodes the message into a
// wa.me URL. Numbers without a recognizable international prefix get the
// default country code.
func (b *LinkBuilder) Build(rawPhone, message string) (string, error) {
	trimmed := strings.TrimSpace(rawPhone)
	if trimmed == "" {
		return "", fmt.Errorf("empty phone number")
	}

	hasPlus := strings.HasPrefix(trimmed, "+")
	digits := keepDigits(trimmed)

	switch {
	case hasPlus:
		// already international
	case strings.HasPrefix(digits, "00"):
		digits = digits[2:]
	case len(digits) <= 10:
		digits = b.defaultCountryCode + digits
	}

	if len(digits) < 8 {
		return "", fmt.Errorf("phone number %q too short", rawPhone)
	}

	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message), nil
}

func keepDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
