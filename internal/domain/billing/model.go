package billing

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusOverdue:   true,
	StatusCancelled: true,
}

// Invoice maps to the invoices table. The client reference is denormalized
// alongside the animal so client-level billing queries skip a join.
type Invoice struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	AnimalID      uuid.UUID      `db:"animal_id" json:"animal_id"`
	ClientID      uuid.UUID      `db:"client_id" json:"client_id"`
	AppointmentID *uuid.UUID     `db:"appointment_id" json:"appointment_id,omitempty"`
	InvoiceNumber string         `db:"invoice_number" json:"invoice_number"`
	InvoiceDate   time.Time      `db:"invoice_date" json:"invoice_date"`
	DueDate       *time.Time     `db:"due_date" json:"due_date,omitempty"`
	TotalAmount   float64        `db:"total_amount" json:"total_amount"`
	PaidAmount    float64        `db:"paid_amount" json:"paid_amount"`
	Status        string         `db:"status" json:"status"`
	PaymentMethod *string        `db:"payment_method" json:"payment_method,omitempty"`
	Notes         *string        `db:"notes" json:"notes,omitempty"`
	Items         []*InvoiceItem `db:"-" json:"items,omitempty"`
	VersionID     int            `db:"version_id" json:"version_id"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// InvoiceItem maps to the invoice_items table. TotalPrice is the stored
// amount; LineTotal is recomputed from quantity and unit price on reads so
// drifted rows are visible without being rewritten.
type InvoiceItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	InvoiceID   uuid.UUID `db:"invoice_id" json:"invoice_id"`
	ServiceName string    `db:"service_name" json:"service_name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Quantity    int       `db:"quantity" json:"quantity"`
	UnitPrice   float64   `db:"unit_price" json:"unit_price"`
	TotalPrice  float64   `db:"total_price" json:"total_price"`
	LineTotal   float64   `db:"-" json:"line_total"`
}

// ComputeLineTotal fills LineTotal from the quantity and unit price.
func (i *InvoiceItem) ComputeLineTotal() {
	i.LineTotal = float64(i.Quantity) * i.UnitPrice
}
