package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ttestive/projeto-final-web/models"
)

// AttendanceStore persists per-lesson-date marks. Imports are idempotent:
// a (student, date) collision overwrites the stored status.
type AttendanceStore interface {
	UpsertMarks(marks []models.Attendance) (int, error)
	List(studentID uint, start, end string) ([]models.Attendance, error)
}

type gormAttendanceStore struct {
	db *gorm.DB
}

func NewAttendanceStore(db *gorm.DB) AttendanceStore { return &gormAttendanceStore{db: db} }

// UpsertMarks bulk inserts all marks in one statement; on a
// (student_id, lesson_date) conflict the new status wins. ErrConflict for a
// duplicate-key failure the upsert clause did not absorb.
func (a *gormAttendanceStore) UpsertMarks(marks []models.Attendance) (int, error) {
	// Postgres rejects a multi-row ON CONFLICT DO UPDATE that touches the
	// same (student, date) twice, so intra-batch repeats collapse to the
	// last occurrence first.
	marks = dedupeMarks(marks)
	err := a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&marks).Error
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	return len(marks), nil
}

// dedupeMarks keeps the last mark per (student_id, lesson_date) pair,
// preserving first-seen order.
func dedupeMarks(marks []models.Attendance) []models.Attendance {
	type pair struct {
		studentID uint
		date      string
	}
	index := map[pair]int{}
	out := make([]models.Attendance, 0, len(marks))
	for _, m := range marks {
		k := pair{m.StudentID, m.LessonDate}
		if i, ok := index[k]; ok {
			out[i] = m
			continue
		}
		index[k] = len(out)
		out = append(out, m)
	}
	return out
}

// List returns marks ordered by lesson date; all filters are optional.
func (a *gormAttendanceStore) List(studentID uint, start, end string) ([]models.Attendance, error) {
	tx := a.db.Model(&models.Attendance{})
	if studentID != 0 {
		tx = tx.Where("student_id = ?", studentID)
	}
	if start != "" {
		tx = tx.Where("lesson_date >= ?", start)
	}
	if end != "" {
		tx = tx.Where("lesson_date <= ?", end)
	}
	rows := []models.Attendance{}
	if err := tx.Order("lesson_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
