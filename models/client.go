// File: models/client.go
package models

import "time"

const (
	ClientSourceManual = "manual"
	ClientSourceImport = "import"
)

// ExternalClient is a client known to an instructor outside platform bookings
// (entered by hand or imported from CSV).
type ExternalClient struct {
	ID           string    `bson:"id" json:"id" firestore:"-"`
	InstructorID string    `bson:"instructor_id" json:"instructor_id" firestore:"instructor_id"`
	FirstName    string    `bson:"firstName" json:"firstName" firestore:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName" firestore:"lastName"`
	Email        string    `bson:"email" json:"email" firestore:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty" firestore:"phone,omitempty"`
	TotalSales   float64   `bson:"totalSales" json:"totalSales" firestore:"totalSales"`
	Source       string    `bson:"source" json:"source" firestore:"source"` // "manual" or "import"
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

// NewClientInput is the payload of the add-client form.
type NewClientInput struct {
	FirstName  string  `json:"firstName" binding:"max=100"`
	LastName   string  `json:"lastName" binding:"max=100"`
	Email      string  `json:"email" binding:"omitempty,email"`
	Phone      string  `json:"phone" binding:"max=40"`
	TotalSales float64 `json:"totalSales" binding:"gte=0"`
}
