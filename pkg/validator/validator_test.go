package validator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventForm struct {
	Title     string    `validate:"required"`
	StartTime time.Time `validate:"future"`
	Capacity  int       `validate:"positive"`
	Phone     string    `validate:"phone"`
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	ok := eventForm{
		Title:     "Clinic",
		StartTime: time.Now().Add(24 * time.Hour),
		Capacity:  20,
		Phone:     "+1 (787) 123-4567",
	}
	require.NoError(t, Validate(ctx, ok))

	missingTitle := ok
	missingTitle.Title = ""
	err := Validate(ctx, missingTitle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrFieldRequired)

	past := ok
	past.StartTime = time.Now().Add(-time.Hour)
	err = Validate(ctx, past)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")

	zeroCap := ok
	zeroCap.Capacity = 0
	assert.Error(t, Validate(ctx, zeroCap))

	badPhone := ok
	badPhone.Phone = "not-a-phone"
	err = Validate(ctx, badPhone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrInvalidFormat)
}

func TestValidate_EmptyPhoneAllowed(t *testing.T) {
	form := eventForm{
		Title:     "Clinic",
		StartTime: time.Now().Add(time.Hour),
		Capacity:  1,
	}
	assert.NoError(t, Validate(context.Background(), form))
}
