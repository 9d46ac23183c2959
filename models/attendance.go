package models

import "time"

// AttendanceStatus is the per-lesson presence value.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent:
		return true
	default:
		return false
	}
}

// Attendance is one per-lesson-date mark for a student. At most one row per
// (student_id, lesson_date); re-imports overwrite the status.
type Attendance struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	StudentID  uint             `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_student_date"`
	LessonDate string           `json:"lesson_date" gorm:"size:10;not null;uniqueIndex:idx_attendance_student_date"` // YYYY-MM-DD
	Status     AttendanceStatus `json:"status" gorm:"size:10;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
