package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	EventNotFound         = "EVENT_NOT_FOUND"
	TeamNotFound          = "TEAM_NOT_FOUND"
	RegistrationNotFound  = "REGISTRATION_NOT_FOUND"
	RegistrationDuplicate = "REGISTRATION_DUPLICATE"
	EventFull             = "EVENT_FULL"
)

type CreateEventRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time" validate:"required,future"`
	Location        string    `json:"location"`
	Capacity        int       `json:"capacity" validate:"positive"`
	PaymentRequired bool      `json:"payment_required"`
	Price           float64   `json:"price" validate:"gte=0"`
	PaymentLink     string    `json:"payment_link"`
	PublicSlug      string    `json:"public_slug"`
	IsPublic        bool      `json:"is_public"`
}

type UpdateEventRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	Location        string    `json:"location"`
	Capacity        int       `json:"capacity" validate:"positive"`
	PaymentRequired bool      `json:"payment_required"`
	Price           float64   `json:"price" validate:"gte=0"`
	PaymentLink     string    `json:"payment_link"`
	PublicSlug      string    `json:"public_slug"`
	IsPublic        bool      `json:"is_public"`
}

type CreateRegistrationRequest struct {
	FullName      string `json:"full_name" validate:"required,min=3,max=255"`
	GuardianName  string `json:"guardian_name" validate:"max=255"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"phone"`
	AttendeeCount int    `json:"attendee_count" validate:"gte=0,lte=20"`
}

type RegistrationResponse struct {
	ID                 int64     `json:"id"`
	EventID            int64     `json:"event_id"`
	FullName           string    `json:"full_name"`
	GuardianName       string    `json:"guardian_name,omitempty"`
	Email              string    `json:"email"`
	AttendeeCount      int       `json:"attendee_count"`
	ConfirmationStatus string    `json:"confirmation_status"`
	PaymentStatus      string    `json:"payment_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type EventResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time"`
	Location        string    `json:"location"`
	Capacity        int       `json:"capacity"`
	PaymentRequired bool      `json:"payment_required"`
	Price           float64   `json:"price,omitempty"`
	PaymentLink     string    `json:"payment_link,omitempty"`
	PublicSlug      string    `json:"public_slug,omitempty"`
	IsPublic        bool      `json:"is_public"`
	CreatedAt       time.Time `json:"created_at"`
}

type EventInfoResponse struct {
	ID              int64                  `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	StartTime       time.Time              `json:"start_time"`
	Location        string                 `json:"location"`
	Capacity        int                    `json:"capacity"`
	AvailableSeats  int                    `json:"available_seats"`
	PaymentRequired bool                   `json:"payment_required"`
	Price           float64                `json:"price,omitempty"`
	PaymentLink     string                 `json:"payment_link,omitempty"`
	PublicSlug      string                 `json:"public_slug,omitempty"`
	IsPublic        bool                   `json:"is_public"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Registrations   []RegistrationResponse `json:"registrations,omitempty"`
}

// NotifyRequest triggers a fan-out over an event's registrations. A positive
// DelayMinutes schedules the send through the delayed exchange instead of
// dispatching inline.
type NotifyRequest struct {
	Type         string `json:"type" validate:"required"`
	Message      string `json:"message"`
	DelayMinutes int    `json:"delay_minutes" validate:"gte=0"`
}

// ReminderMessage is the payload published to the delayed exchange.
type ReminderMessage struct {
	EventID int       `json:"event_id"`
	Type    string    `json:"type"`
	Message string    `json:"message,omitempty"`
	SendAt  time.Time `json:"send_at"`
}

type CreateTeamRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Category string `json:"category"`
}

type CreateMemberRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"phone"`
	Role     string `json:"role"`
}

type CreateSponsorRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=255"`
	ContactEmail string  `json:"contact_email" validate:"omitempty,email"`
	Tier         string  `json:"tier"`
	Amount       float64 `json:"amount" validate:"gte=0"`
}

type CreateWallMessageRequest struct {
	Author string `json:"author" validate:"required,min=2,max=255"`
	Body   string `json:"body" validate:"required,min=1"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	InternalServerErrorWithDesc(c, InternalError)
}

func InternalServerErrorWithDesc(c *ginext.Context, desc string) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: desc,
		},
	})
}

func FieldBadFormatError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldBadFormat, "Field '"+fieldName+"' has bad format")
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func EventNotFoundError(c *ginext.Context) {
	BadResponseError(c, EventNotFound, "Event not found")
}

func TeamNotFoundError(c *ginext.Context) {
	BadResponseError(c, TeamNotFound, "Team not found")
}

func RegistrationNotFoundError(c *ginext.Context) {
	BadResponseError(c, RegistrationNotFound, "Registration not found")
}

func RegistrationDuplicateError(c *ginext.Context) {
	BadResponseError(c, RegistrationDuplicate, "You have already registered for this event")
}

func EventFullError(c *ginext.Context) {
	BadResponseError(c, EventFull, "Event has no seats left")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
