package models

// Grade is one (subject, score) entry owned by a student. Subject names are
// free text, not an enumeration; duplicates within one student are allowed.
type Grade struct {
	ID        uint    `gorm:"primaryKey"        json:"-"`
	StudentID uint    `gorm:"index;not null"    json:"-"`
	Subject   string  `gorm:"size:100;not null" json:"name"`
	Score     float64 `gorm:"not null"          json:"score"`
}
