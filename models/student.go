package models

import "time"

type Student struct {
	ID           uint      `gorm:"primaryKey"           json:"id"`
	Name         string    `gorm:"size:100;not null"    json:"name"`
	Age          int       `gorm:"not null"             json:"age"`
	AbsenceCount int       `gorm:"not null;default:0"   json:"absence_count"`
	Grades       []Grade   `gorm:"foreignKey:StudentID" json:"subjects"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentSummary is the listing shape: scalar fields only, no grade rows.
type StudentSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}
