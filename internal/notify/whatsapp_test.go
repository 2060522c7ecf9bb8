package notify

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLink_RoundTripMessage(t *testing.T) {
	b := NewLinkBuilder("1")
	message := "Hola Luz!\n\nTe esperamos en «Clinic» el viernes, 1 de agosto de 2025, 10:00."

	link, err := b.Build("+1 (787) 123-4567", message)
	require.NoError(t, err)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", parsed.Host)
	assert.Equal(t, "/17871234567", parsed.Path)

	decoded, err := url.QueryUnescape(strings.TrimPrefix(parsed.RawQuery, "text="))
	require.NoError(t, err)
	assert.Equal(t, message, decoded)
}

func TestBuildLink_Normalization(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		countryCd string
		wantPath  string
	}{
		{"plus prefix kept", "+17871234567", "1", "/17871234567"},
		{"punctuation stripped", "(787) 123-4567", "1", "/17871234567"},
		{"double zero prefix", "0034612345678", "1", "/34612345678"},
		{"local number gets default code", "612345678", "34", "/34612345678"},
		{"long number assumed international", "521234567890", "1", "/521234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewLinkBuilder(tt.countryCd)
			link, err := b.Build(tt.raw, "hi")
			require.NoError(t, err)

			parsed, err := url.Parse(link)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, parsed.Path)
		})
	}
}

func TestBuildLink_Invalid(t *testing.T) {
	b := NewLinkBuilder("1")

	_, err := b.Build("", "hi")
	assert.Error(t, err)

	_, err = b.Build("123", "hi")
	assert.Error(t, err)
}
