// File: models/booking.go
package models

// Booking is a reservation made through the platform. Documents are read as stored;
// older bookings may carry the student's contact fields directly on the document.
type Booking struct {
	ID           string      `bson:"id" json:"id" firestore:"-"`
	InstructorID string      `bson:"instructor_id" json:"instructor_id" firestore:"instructor_id"`
	StudentID    string      `bson:"student_id" json:"student_id" firestore:"student_id"`
	ClassID      string      `bson:"class_id" json:"class_id" firestore:"class_id"`
	Price        interface{} `bson:"price" json:"price" firestore:"price"` // number or currency string, e.g. "$1,234.56"
	StartTime    string      `bson:"startTime" json:"startTime" firestore:"startTime"`
	Status       string      `bson:"status" json:"status" firestore:"status"`
	GroupEmails  []string    `bson:"groupEmails,omitempty" json:"groupEmails,omitempty" firestore:"groupEmails,omitempty"`

	// Legacy denormalized contact fields.
	StudentName  string `bson:"student_name,omitempty" json:"student_name,omitempty" firestore:"student_name,omitempty"`
	FirstName    string `bson:"firstName,omitempty" json:"firstName,omitempty" firestore:"firstName,omitempty"`
	LastName     string `bson:"lastName,omitempty" json:"lastName,omitempty" firestore:"lastName,omitempty"`
	Email        string `bson:"email,omitempty" json:"email,omitempty" firestore:"email,omitempty"`
	StudentEmail string `bson:"studentEmail,omitempty" json:"studentEmail,omitempty" firestore:"studentEmail,omitempty"`

	// Filled at read time, never persisted.
	StudentDetails StudentDetails `bson:"-" json:"studentDetails" firestore:"-"`
	ClassDetails   ClassDetails   `bson:"-" json:"classDetails" firestore:"-"`
}

// StudentDetails is the denormalized student profile attached to a booking.
type StudentDetails struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// ClassDetails is the denormalized class document attached to a booking.
type ClassDetails struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"Name,omitempty"`
	Address  string `json:"Address,omitempty"`
	Category string `json:"category,omitempty"`
}

func (d ClassDetails) IsZero() bool {
	return d == ClassDetails{}
}
