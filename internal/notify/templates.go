package notify

import (
	"embed"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"clubhub/internal/model"
)

//go:embed active.*.toml
var localeFS embed.FS

// Renderer turns a notification type plus recipient/event data into subject
// and body text. One renderer per process; every channel goes through the
// same date formatting so a recipient never sees two spellings of the same
// event date within a batch.
type Renderer struct {
	bundle  *i18n.Bundle
	locale  string
	baseURL string
	log     *zerolog.Logger
}

type Content struct {
	Subject string
	Body    string
}

func NewRenderer(locale, baseURL string, log *zerolog.Logger) *Renderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
		locale = "es"
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.es.toml", "active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("failed to load locale bundle")
		}
	}

	return &Renderer{
		bundle:  bundle,
		locale:  locale,
		baseURL: baseURL,
		log:     log,
	}
}

func (r *Renderer) t(key string, data map[string]any) string {
	localizer := i18n.NewLocalizer(r.bundle, r.locale)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("localize failed")
		return key
	}
	return msg
}

// FormatEventDate renders the long, localized form used in every message:
// weekday, day, month, year, hour:minute.
func (r *Renderer) FormatEventDate(t time.Time) string {
	return r.t("date.long", map[string]any{
		"Weekday": r.t("weekday."+strconv.Itoa(int(t.Weekday())), nil),
		"Day":     t.Day(),
		"Month":   r.t("month."+strconv.Itoa(int(t.Month())), nil),
		"Year":    t.Year(),
		"Time":    fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()),
	})
}

// Render builds the per-recipient content. An empty custom message falls back
// to the generic template instead of producing a blank body.
func (r *Renderer) Render(typ, displayName, email string, event *model.Event, customMessage string) (Content, error) {
	data := map[string]any{
		"Name":     displayName,
		"Event":    event.Title,
		"Date":     r.FormatEventDate(event.StartTime),
		"Location": event.Location,
	}

	var subjectKey, bodyKey string
	switch typ {
	case model.NotificationRegistration:
		subjectKey, bodyKey = "subject.registration", "notify.registration"
		data["ConfirmURL"] = r.confirmURL(event.ID, email, "yes")
		data["DeclineURL"] = r.confirmURL(event.ID, email, "no")
	case model.NotificationReminder:
		subjectKey, bodyKey = "subject.reminder", "notify.reminder"
	case model.NotificationCustom:
		subjectKey, bodyKey = "subject.custom", "notify.custom"
		if customMessage == "" {
			bodyKey = "notify.custom_fallback"
		} else {
			data["Message"] = customMessage
		}
	default:
		return Content{}, fmt.Errorf("unknown notification type %q", typ)
	}

	return Content{
		Subject: r.t(subjectKey, data),
		Body:    r.t(bodyKey, data),
	}, nil
}

// ConfirmationPage renders the server-side HTML body shown after a recipient
// follows a confirm/decline link.
func (r *Renderer) ConfirmationPage(displayName, eventTitle string, confirmed bool) string {
	key := "confirm.page_confirmed"
	if !confirmed {
		key = "confirm.page_declined"
	}
	text := r.t(key, map[string]any{"Name": displayName, "Event": eventTitle})
	return "<!DOCTYPE html><html><body><h2>" + text + "</h2></body></html>"
}

// The emailed link carries the recipient's email and the yes/no answer as
// plain query parameters; hitting it flips the registration's confirmation
// state and returns the HTML page above.
func (r *Renderer) confirmURL(eventID int, email, answer string) string {
	return fmt.Sprintf("%s/v1/registrations/confirm?event=%d&email=%s&confirm=%s",
		r.baseURL, eventID, url.QueryEscape(email), answer)
}
