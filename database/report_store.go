package database

import (
	"math"

	"gorm.io/gorm"

	"github.com/ttestive/projeto-final-web/models"
)

// ReportStore serves the read-only aggregation queries behind the dashboards.
type ReportStore interface {
	TopStudentsPerSubject() ([]models.SubjectTopStudents, error)
	TopSubjectsByAverage(limit int) ([]models.SubjectAverage, error)
}

type gormReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) ReportStore { return &gormReportStore{db: db} }

type topRow struct {
	Subject string
	Name    string
	Score   float64
}

const topStudentsQuery = `
WITH ranked AS (
    SELECT g.subject,
           s.name,
           g.score,
           ROW_NUMBER() OVER (PARTITION BY g.subject ORDER BY g.score DESC, s.name ASC) AS rn
    FROM grades g
    JOIN students s ON s.id = g.student_id
)
SELECT subject, name, score
FROM ranked
WHERE rn <= 3
ORDER BY subject ASC, score DESC, name ASC`

// TopStudentsPerSubject returns up to 3 (name, score) entries per distinct
// subject, subjects ordered by name, entries by score desc then name asc.
func (r *gormReportStore) TopStudentsPerSubject() ([]models.SubjectTopStudents, error) {
	var rows []topRow
	if err := r.db.Raw(topStudentsQuery).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return groupTopRows(rows), nil
}

// groupTopRows folds the flat ranked rows into per-subject groups, keeping
// the query's ordering.
func groupTopRows(rows []topRow) []models.SubjectTopStudents {
	out := []models.SubjectTopStudents{}
	for _, row := range rows {
		if len(out) == 0 || out[len(out)-1].Subject != row.Subject {
			out = append(out, models.SubjectTopStudents{
				Subject:     row.Subject,
				TopStudents: []models.TopStudent{},
			})
		}
		g := &out[len(out)-1]
		g.TopStudents = append(g.TopStudents, models.TopStudent{Name: row.Name, Score: row.Score})
	}
	return out
}

// TopSubjectsByAverage ranks subjects by mean score, highest first.
func (r *gormReportStore) TopSubjectsByAverage(limit int) ([]models.SubjectAverage, error) {
	rows := []models.SubjectAverage{}
	err := r.db.Model(&models.Grade{}).
		Select("subject, AVG(score) AS average_score").
		Group("subject").
		Order("average_score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].AverageScore = roundScore(rows[i].AverageScore)
	}
	return rows, nil
}

// roundScore rounds to one decimal place for presentation; a non-numeric
// mean presents as 0.
func roundScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}
