package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/model"
)

func TestFanOut_AggregatesPartialFailures(t *testing.T) {
	const n, k = 6, 2

	store := &stubStore{event: clinicEvent()}
	mailer := &stubMailer{failFor: map[string]bool{}}
	sender := testSender(store, mailer)

	recipients := make([]Recipient, 0, n)
	for i := 0; i < n; i++ {
		email := fmt.Sprintf("r%d_%s", i, gofakeit.Email())
		// Recipients without phones: overall success rides on the email channel.
		recipients = append(recipients, Recipient{
			RegistrationID: i + 1,
			FullName:       gofakeit.Name(),
			Email:          email,
		})
		if i < k {
			mailer.failFor[email] = true
		}
	}

	report, err := sender.FanOut(context.Background(), model.NotificationReminder, recipients, 1, "")
	require.NoError(t, err)

	assert.Equal(t, n, report.Total)
	assert.Equal(t, n-k, report.Successful)
	assert.Equal(t, k, report.Failed)
	require.Len(t, report.Details, n)
	// Exactly one record per recipient, in input order.
	require.Len(t, store.records, n)
	for i, rec := range store.records {
		assert.Equal(t, recipients[i].Email, rec.Email)
	}
	for i, detail := range report.Details {
		assert.Equal(t, recipients[i].Email, detail.Email)
		assert.Equal(t, i >= k, detail.Success)
	}
}

func TestFanOut_MissingEventFailsFast(t *testing.T) {
	store := &stubStore{event: clinicEvent()}
	sender := testSender(store, &stubMailer{})

	_, err := sender.FanOut(context.Background(), model.NotificationReminder,
		[]Recipient{{FullName: "Ana", Email: "ana@example.com"}}, 99, "")
	require.Error(t, err)
	assert.Empty(t, store.records, "no partial sends against a missing event")
}

func TestFanOut_RecipientErrorDoesNotStopSiblings(t *testing.T) {
	store := &stubStore{event: clinicEvent()}
	sender := testSender(store, &stubMailer{})

	recipients := []Recipient{
		{FullName: "Ana", Email: "ana@example.com"},
		{FullName: "Bad", Email: "bad@example.com", Phone: "12"},
		{FullName: "Eva", Email: "eva@example.com"},
	}

	report, err := sender.FanOut(context.Background(), model.NotificationReminder, recipients, 1, "")
	require.NoError(t, err)

	// The malformed phone only kills its WhatsApp link; email still goes out.
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Successful)
	assert.Empty(t, report.Details[1].WhatsAppLink)
	require.Len(t, store.records, 3)
}

func TestFanOut_UnknownType(t *testing.T) {
	store := &stubStore{event: clinicEvent()}
	sender := testSender(store, &stubMailer{})

	_, err := sender.FanOut(context.Background(), "pigeon",
		[]Recipient{{FullName: "Ana", Email: "ana@example.com"}}, 1, "")
	assert.Error(t, err)
}
