package models

import "time"

// TeacherRecord is the persistent teacher document created alongside a
// teacher identity.
type TeacherRecord struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	AuthIdentityID string    `json:"authIdentityId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RoleTeacher marks teacher documents in the users collection.
const RoleTeacher = "teacher"
