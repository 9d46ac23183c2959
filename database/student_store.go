package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ttestive/projeto-final-web/models"
)

// StudentStore is the transactional read/write path for students and their
// grade rows. Every write runs in one transaction: partial failure rolls the
// whole operation back.
type StudentStore interface {
	CreateWithGrades(st *models.Student) error
	ReplaceWithGrades(st *models.Student) error
	DeleteWithGrades(id uint) error
	GetWithGrades(id uint) (*models.Student, error)
	ListSummaries() ([]models.StudentSummary, error)
	BulkImport(students []models.Student) (int, error)
}

type gormStudentStore struct {
	db *gorm.DB
}

func NewStudentStore(db *gorm.DB) StudentStore { return &gormStudentStore{db: db} }

// CreateWithGrades inserts the student row, then its grade rows, atomically.
// On return st carries the generated id.
func (s *gormStudentStore) CreateWithGrades(st *models.Student) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return insertStudent(tx, st)
	})
}

// ReplaceWithGrades overwrites the scalar fields and replaces the whole grade
// set. ErrNotFound when no student row matches st.ID.
func (s *gormStudentStore) ReplaceWithGrades(st *models.Student) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Student{}).Where("id = ?", st.ID).Updates(map[string]any{
			"name":          st.Name,
			"age":           st.Age,
			"absence_count": st.AbsenceCount,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("student_id = ?", st.ID).Delete(&models.Grade{}).Error; err != nil {
			return err
		}
		for i := range st.Grades {
			st.Grades[i].ID = 0
			st.Grades[i].StudentID = st.ID
		}
		if len(st.Grades) > 0 {
			if err := tx.Create(&st.Grades).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteWithGrades removes the grade rows first, then the student row.
// ErrNotFound (and rollback) when the student row did not exist.
func (s *gormStudentStore) DeleteWithGrades(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.Grade{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Student{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GetWithGrades loads one student with its grades in insertion order.
func (s *gormStudentStore) GetWithGrades(id uint) (*models.Student, error) {
	var st models.Student
	err := s.db.
		Preload("Grades", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&st, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if st.Grades == nil {
		st.Grades = []models.Grade{}
	}
	return &st, nil
}

func (s *gormStudentStore) ListSummaries() ([]models.StudentSummary, error) {
	out := []models.StudentSummary{}
	err := s.db.Model(&models.Student{}).
		Select("id, name, age").
		Order("id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkImport inserts all pre-validated students and their grade sets in one
// transaction. Validation skips happen before this call; any failure here
// rolls the whole batch back.
func (s *gormStudentStore) BulkImport(students []models.Student) (int, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range students {
			if err := insertStudent(tx, &students[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(students), nil
}

func insertStudent(tx *gorm.DB, st *models.Student) error {
	grades := st.Grades
	st.Grades = nil
	if err := tx.Create(st).Error; err != nil {
		return err
	}
	for i := range grades {
		grades[i].StudentID = st.ID
	}
	if len(grades) > 0 {
		if err := tx.Create(&grades).Error; err != nil {
			return err
		}
	}
	st.Grades = grades
	return nil
}
