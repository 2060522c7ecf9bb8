package dto

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/pkg/validator"
)

func TestCreateRegistrationRequest_PhoneValidated(t *testing.T) {
	ctx := context.Background()
	req := CreateRegistrationRequest{
		FullName:      "Ana Rivera",
		Email:         "ana@example.com",
		Phone:         "+1 (787) 123-4567",
		AttendeeCount: 1,
	}
	require.NoError(t, validator.Validate(ctx, req))

	req.Phone = "call me maybe"
	err := validator.Validate(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), validator.ErrInvalidFormat)

	// Phone stays optional.
	req.Phone = ""
	assert.NoError(t, validator.Validate(ctx, req))
}

func TestCreateMemberRequest_PhoneValidated(t *testing.T) {
	ctx := context.Background()
	req := CreateMemberRequest{
		FullName: "Luis Ortega",
		Phone:    "12345",
	}
	require.Error(t, validator.Validate(ctx, req))

	req.Phone = "787-123-4567"
	assert.NoError(t, validator.Validate(ctx, req))
}

func TestEventRequests_CapacityMustBePositive(t *testing.T) {
	ctx := context.Background()
	create := CreateEventRequest{
		Title:     "Clinic",
		StartTime: time.Now().Add(24 * time.Hour),
		Capacity:  0,
	}
	err := validator.Validate(ctx, create)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")

	update := UpdateEventRequest{
		Title:     "Clinic",
		StartTime: time.Now().Add(24 * time.Hour),
		Capacity:  -3,
	}
	assert.Error(t, validator.Validate(ctx, update))
}
