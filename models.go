package session

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// UserStatus is the profile lifecycle flag
type UserStatus = string

const (
	// UserStatusActive is the default status for new profiles
	UserStatusActive UserStatus = "ativo"
	// UserStatusInactive marks profiles deactivated by an admin
	UserStatusInactive UserStatus = "inativo"
)

// DefaultPhoneRegion is the region used to parse national phone numbers.
var DefaultPhoneRegion = "BR"

// UserProfile is this application's persisted record of a principal. Identity
// fields (id, email) are sourced from the provider and win on merge; profile
// fields (role, phone, location) are owned by the store.
type UserProfile struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            string         `bun:"id,pk" json:"id,omitempty"`
	Email         string         `bun:"email,notnull" json:"email,omitempty"`
	Name          string         `bun:"name" json:"name,omitempty"`
	Phone         string         `bun:"phone_number" json:"phone_number,omitempty"`
	Location      string         `bun:"location" json:"location,omitempty"`
	Role          Role           `bun:"user_role,notnull" json:"user_role,omitempty"`
	Status        UserStatus     `bun:"status,notnull" json:"status,omitempty"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EnsureStatus defaults an empty status to active.
func (u *UserProfile) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// EnsureRole defaults an empty role to the lowest privilege.
func (u *UserProfile) EnsureRole() {
	if u.Role == "" {
		u.Role = RoleAttendee
	}
}

// SetPhone normalizes and stores the phone number in E.164 format. An empty
// string clears the field.
func (u *UserProfile) SetPhone(raw string) error {
	if raw == "" {
		u.Phone = ""
		return nil
	}

	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid phone number").
			WithMetadata(map[string]any{"phone": raw})
	}

	if !phonenumbers.IsValidNumber(num) {
		return errors.New("invalid phone number", errors.CategoryValidation).
			WithMetadata(map[string]any{"phone": raw})
	}

	u.Phone = phonenumbers.Format(num, phonenumbers.E164)
	return nil
}

// AddMetadata will append information to a metadata attribute
func (u *UserProfile) AddMetadata(key string, val any) *UserProfile {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}

// EventStatus is the event lifecycle flag
type EventStatus = string

const (
	// EventStatusDraft is the initial status for new events
	EventStatusDraft EventStatus = "draft"
	// EventStatusPublished makes the event visible to attendees
	EventStatusPublished EventStatus = "published"
	// EventStatusCancelled is terminal
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is an event managed through the admin dashboard.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:evt"`
	ID            uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string      `bun:"title,notnull" json:"title,omitempty"`
	Description   string      `bun:"description" json:"description,omitempty"`
	Location      string      `bun:"location" json:"location,omitempty"`
	StartsAt      *time.Time  `bun:"starts_at,nullzero" json:"starts_at,omitempty"`
	EndsAt        *time.Time  `bun:"ends_at,nullzero" json:"ends_at,omitempty"`
	Capacity      int         `bun:"capacity" json:"capacity,omitempty"`
	Status        EventStatus `bun:"status,notnull" json:"status,omitempty"`
	OrganizerID   string      `bun:"organizer_id,notnull" json:"organizer_id,omitempty"`
	Organizer     *UserProfile `bun:"rel:belongs-to,join:organizer_id=id" json:"organizer,omitempty"`
	CreatedAt     *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time  `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus defaults an empty status to draft.
func (e *Event) EnsureStatus() {
	if e.Status == "" {
		e.Status = EventStatusDraft
	}
}
