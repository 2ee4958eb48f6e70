package clients

import (
	"time"

	"github.com/google/uuid"
)

// Client statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

var validStatuses = map[string]bool{
	StatusActive:   true,
	StatusInactive: true,
	StatusPending:  true,
}

// Client maps to the clients table. Every animal, appointment, record and
// invoice in the system hangs off a client directly or through an animal.
type Client struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Email     *string    `db:"email" json:"email,omitempty"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Address   *string    `db:"address" json:"address,omitempty"`
	Status    string     `db:"status" json:"status"`
	JoinDate  *time.Time `db:"join_date" json:"join_date,omitempty"`
	VersionID int        `db:"version_id" json:"version_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName returns "First Last" for display and snapshot fields.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
