package handlers

import (
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ttestive/projeto-final-web/database"
	"github.com/ttestive/projeto-final-web/models"
)

type ImportHandler struct {
	store database.StudentStore
}

func NewImportHandler(store database.StudentStore) *ImportHandler {
	return &ImportHandler{store: store}
}

// Column synonyms accepted for the scalar fields. Spreadsheet headers are
// caller-defined; lookup is lower-cased and trimmed first.
var (
	nameColumns    = []string{"name", "student name", "nome", "nome do aluno"}
	ageColumns     = []string{"age", "idade"}
	absenceColumns = []string{"absence_count", "absences", "faltas"}

	// reservedColumns are never treated as subject columns.
	reservedColumns = map[string]bool{
		"id":            true,
		"student_id":    true,
		"aluno_id":      true,
		"id_aluno":      true,
		"id_do_aluno":   true,
		"name":          true,
		"student name":  true,
		"nome":          true,
		"nome do aluno": true,
		"age":           true,
		"idade":         true,
		"absence_count": true,
		"absences":      true,
		"faltas":        true,
		"subjects":      true,
	}
)

type importRequest struct {
	Students []map[string]any `json:"students"`
}

// POST /students/import
func (h *ImportHandler) Students(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	students := reconcileStudentRows(req.Students)
	if len(students) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "EMPTY_BATCH"})
	}
	n, err := h.store.BulkImport(students)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"imported_count": n})
}

// reconcileStudentRows turns loosely-shaped spreadsheet rows into insertable
// students. A row without a usable name or age is skipped with a warning;
// skips never fail the batch.
func reconcileStudentRows(rows []map[string]any) []models.Student {
	students := make([]models.Student, 0, len(rows))
	for i, row := range rows {
		normalized := map[string]any{}
		headers := map[string]string{} // normalized key -> original header text
		for k, v := range row {
			nk := strings.ToLower(strings.TrimSpace(k))
			normalized[nk] = v
			headers[nk] = strings.TrimSpace(k)
		}

		name := firstCell(normalized, nameColumns)
		age, ageOK := firstIntCell(normalized, ageColumns)
		if name == "" || !ageOK || age <= 0 {
			log.Printf("import: skipping row %d: missing or invalid name/age", i)
			continue
		}
		absences, ok := firstIntCell(normalized, absenceColumns)
		if !ok || absences < 0 {
			absences = 0
		}

		students = append(students, models.Student{
			Name:         name,
			Age:          age,
			AbsenceCount: absences,
			Grades:       rowGrades(normalized, headers, name),
		})
	}
	return students
}

// rowGrades extracts the grade set of one row. An explicit "subjects" list
// wins; otherwise every non-reserved column with a non-empty cell is a
// subject, named by its original header text. A cell whose score does not
// parse skips that grade only.
func rowGrades(normalized map[string]any, headers map[string]string, studentName string) []models.Grade {
	if raw, ok := normalized["subjects"]; ok {
		return explicitGrades(raw, studentName)
	}

	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		if !reservedColumns[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys) // map iteration order is random; keep grade order stable

	grades := make([]models.Grade, 0, len(keys))
	for _, k := range keys {
		cell := strings.TrimSpace(stringify(normalized[k]))
		if cell == "" {
			continue
		}
		score, err := parseScore(cell)
		if err != nil {
			log.Printf("import: skipping subject %q for %s: bad score %q", headers[k], studentName, cell)
			continue
		}
		grades = append(grades, models.Grade{Subject: headers[k], Score: score})
	}
	return grades
}

func explicitGrades(raw any, studentName string) []models.Grade {
	list, ok := raw.([]any)
	if !ok {
		log.Printf("import: skipping subjects for %s: not a list", studentName)
		return nil
	}
	grades := make([]models.Grade, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(stringify(m["name"]))
		score, err := parseScore(stringify(m["score"]))
		if name == "" || err != nil {
			log.Printf("import: skipping subject %q for %s: invalid entry", name, studentName)
			continue
		}
		grades = append(grades, models.Grade{Subject: name, Score: score})
	}
	return grades
}

func firstCell(row map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			if s := strings.TrimSpace(stringify(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstIntCell(row map[string]any, keys []string) (int, bool) {
	s := firstCell(row, keys)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
