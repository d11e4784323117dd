package models

import "time"

// RoleStudent marks student documents in the shared users collection so
// roster queries never sweep in teacher documents.
const RoleStudent = "student"

// StudentRecord is the persistent student document. HasAccount and
// AuthIdentityID form a single logical field: HasAccount is true exactly
// when AuthIdentityID is non-empty, and the two are always written together.
// The identity provider owns the referenced account; this record only
// remembers it.
type StudentRecord struct {
	ID             string    `json:"id"`
	ClassID        string    `json:"classId"`
	StudentNo      string    `json:"studentNo"`
	Name           string    `json:"name"`
	Gender         string    `json:"gender"`
	Program        string    `json:"program"`
	Year           string    `json:"year"`
	Section        string    `json:"section"`
	EmailAddress   string    `json:"emailAddress"`
	ContactNo      string    `json:"contactNo"`
	Role           string    `json:"role"`
	HasAccount     bool      `json:"hasAccount"`
	AuthIdentityID string    `json:"authIdentityId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
