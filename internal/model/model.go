package model

import (
	"time"

	"github.com/google/uuid"
)

// Confirmation state of a registration. Payment state is tracked separately
// and never overloads this field.
const (
	ConfirmationPending   = "pending"
	ConfirmationConfirmed = "confirmed"
	ConfirmationDeclined  = "declined"
)

const (
	PaymentPending  = "pending"
	PaymentReceived = "received"
	PaymentFailed   = "failed"
)

const (
	NotificationRegistration = "registration"
	NotificationReminder     = "reminder"
	NotificationCustom       = "custom"
)

const (
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

type Event struct {
	ID              int       `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description,omitempty" json:"description,omitempty"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	Location        string    `db:"location,omitempty" json:"location,omitempty"`
	Capacity        int       `db:"capacity" json:"capacity"`
	PaymentRequired bool      `db:"payment_required" json:"payment_required"`
	Price           float64   `db:"price" json:"price,omitempty"`
	PaymentLink     string    `db:"payment_link,omitempty" json:"payment_link,omitempty"`
	PublicSlug      string    `db:"public_slug,omitempty" json:"public_slug,omitempty"`
	IsPublic        bool      `db:"is_public" json:"is_public"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type Registration struct {
	ID                 int       `db:"id" json:"id"`
	EventID            int       `db:"event_id" json:"event_id"`
	FullName           string    `db:"full_name" json:"full_name"`
	GuardianName       string    `db:"guardian_name,omitempty" json:"guardian_name,omitempty"`
	Email              string    `db:"email" json:"email"`
	Phone              string    `db:"phone,omitempty" json:"phone,omitempty"`
	AttendeeCount      int       `db:"attendee_count" json:"attendee_count"`
	ConfirmationStatus string    `db:"confirmation_status" json:"confirmation_status"`
	PaymentStatus      string    `db:"payment_status" json:"payment_status"`
	PaymentReference   string    `db:"payment_reference,omitempty" json:"payment_reference,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName is the human-facing name used in every rendered message:
// the guardian when one is on file, the participant otherwise.
func (r *Registration) DisplayName() string {
	if r.GuardianName != "" {
		return r.GuardianName
	}
	return r.FullName
}

type NotificationRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	Phone     string    `db:"phone,omitempty" json:"phone,omitempty"`
	Email     string    `db:"email" json:"email"`
	Message   string    `db:"message" json:"message"`
	EventID   int       `db:"event_id" json:"event_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type EmailLog struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Recipient         string    `db:"recipient" json:"recipient"`
	Subject           string    `db:"subject" json:"subject"`
	EventID           int       `db:"event_id" json:"event_id"`
	RegistrationID    int       `db:"registration_id,omitempty" json:"registration_id,omitempty"`
	ProviderMessageID string    `db:"provider_message_id,omitempty" json:"provider_message_id,omitempty"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type Team struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category,omitempty" json:"category,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Member struct {
	ID        int       `db:"id" json:"id"`
	TeamID    int       `db:"team_id" json:"team_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email,omitempty" json:"email,omitempty"`
	Phone     string    `db:"phone,omitempty" json:"phone,omitempty"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Sponsor struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	ContactEmail string    `db:"contact_email,omitempty" json:"contact_email,omitempty"`
	Tier         string    `db:"tier,omitempty" json:"tier,omitempty"`
	Amount       float64   `db:"amount" json:"amount"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type WallMessage struct {
	ID        int       `db:"id" json:"id"`
	TeamID    int       `db:"team_id" json:"team_id"`
	Author    string    `db:"author" json:"author"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
