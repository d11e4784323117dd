package models

import "time"

// ClassRecord is the persistent class document. StudentCount is written at
// creation time and is advisory only; listings recompute it from a live
// count because class and student writes are not atomic.
type ClassRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Subject      string    `json:"subject"`
	StudentCount int       `json:"studentCount"`
	TeacherID    string    `json:"teacherId"`
	TeacherName  string    `json:"teacherName"`
	TeacherEmail string    `json:"teacherEmail"`
	FileName     string    `json:"fileName"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
