package notify

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/model"
)

func newTestRenderer(locale string) *Renderer {
	nop := zerolog.Nop()
	return NewRenderer(locale, "https://club.example.org", &nop)
}

func TestFormatEventDate_Spanish(t *testing.T) {
	r := newTestRenderer("es")
	date := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "viernes, 1 de agosto de 2025, 10:00", r.FormatEventDate(date))
}

func TestFormatEventDate_English(t *testing.T) {
	r := newTestRenderer("en")
	date := time.Date(2025, 12, 24, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, "Wednesday, December 24, 2025 at 18:30", r.FormatEventDate(date))
}

func TestFormatEventDate_Stable(t *testing.T) {
	r := newTestRenderer("es")
	date := time.Date(2026, 2, 14, 9, 5, 0, 0, time.UTC)

	first := r.FormatEventDate(date)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.FormatEventDate(date))
	}
}

func TestRender_RegistrationIncludesConfirmLinks(t *testing.T) {
	r := newTestRenderer("es")
	event := &model.Event{ID: 4, Title: "Torneo", StartTime: time.Date(2025, 9, 6, 16, 0, 0, 0, time.UTC), Location: "Cancha 2"}

	content, err := r.Render(model.NotificationRegistration, "Luz", "luz@example.com", event, "")
	require.NoError(t, err)

	assert.Contains(t, content.Subject, "Torneo")
	assert.Contains(t, content.Body, "Luz")
	assert.Contains(t, content.Body, "https://club.example.org/v1/registrations/confirm?event=4&email=luz%40example.com&confirm=yes")
	assert.Contains(t, content.Body, "confirm=no")
}

func TestRender_CustomMessageEmbedded(t *testing.T) {
	r := newTestRenderer("es")
	event := &model.Event{ID: 4, Title: "Torneo", StartTime: time.Date(2025, 9, 6, 16, 0, 0, 0, time.UTC), Location: "Cancha 2"}

	content, err := r.Render(model.NotificationCustom, "Luz", "luz@example.com", event, "Trae tu propia botella de agua.")
	require.NoError(t, err)
	assert.Contains(t, content.Body, "Trae tu propia botella de agua.")

	fallback, err := r.Render(model.NotificationCustom, "Luz", "luz@example.com", event, "")
	require.NoError(t, err)
	assert.NotEmpty(t, fallback.Body)
	assert.NotContains(t, fallback.Body, "{{")
}

func TestRender_UnknownType(t *testing.T) {
	r := newTestRenderer("es")
	event := &model.Event{ID: 4, Title: "Torneo", StartTime: time.Now(), Location: "Cancha 2"}

	_, err := r.Render("carrier-pigeon", "Luz", "luz@example.com", event, "")
	assert.Error(t, err)
}
