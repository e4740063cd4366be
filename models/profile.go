// File: models/profile.go
package models

// StudentProfile is the subset of a user document needed to describe a student.
type StudentProfile struct {
	ID          string `bson:"id" json:"id" firestore:"-"`
	FirstName   string `bson:"firstName" json:"firstName" firestore:"firstName"`
	LastName    string `bson:"lastName" json:"lastName" firestore:"lastName"`
	Email       string `bson:"email" json:"email" firestore:"email"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber" firestore:"phoneNumber"`
}

func (p StudentProfile) Details() StudentDetails {
	return StudentDetails{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
	}
}

// Class is a class listing owned by an instructor.
type Class struct {
	ID           string `bson:"id" json:"id" firestore:"-"`
	InstructorID string `bson:"instructor_id" json:"instructor_id" firestore:"instructor_id"`
	Name         string `bson:"Name" json:"Name" firestore:"Name"`
	Address      string `bson:"Address" json:"Address" firestore:"Address"`
	Category     string `bson:"category" json:"category" firestore:"category"`
}

func (c Class) Details() ClassDetails {
	return ClassDetails{
		ID:       c.ID,
		Name:     c.Name,
		Address:  c.Address,
		Category: c.Category,
	}
}
