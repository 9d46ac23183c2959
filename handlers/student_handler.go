package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ttestive/projeto-final-web/database"
	"github.com/ttestive/projeto-final-web/models"
)

type StudentHandler struct {
	store database.StudentStore
}

func NewStudentHandler(store database.StudentStore) *StudentHandler {
	return &StudentHandler{store: store}
}

type subjectPayload struct {
	Name  string    `json:"name"`
	Score scoreText `json:"score"`
}

type studentPayload struct {
	Name         string           `json:"name" validate:"required"`
	Age          looseInt         `json:"age" validate:"required,gt=0"`
	AbsenceCount *looseInt        `json:"absence_count" validate:"omitempty,gte=0"`
	Subjects     []subjectPayload `json:"subjects"`
}

func (p *studentPayload) normalize() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	for i := range p.Subjects {
		p.Subjects[i].Name = strings.TrimSpace(p.Subjects[i].Name)
	}
}

// toModel validates the payload and builds the row to write. fields is
// non-nil on any violation; nothing reaches the store in that case.
func (p *studentPayload) toModel() (*models.Student, map[string]string) {
	fields := map[string]string{}
	if err := validate.Struct(p); err != nil {
		for k, v := range validationFields(err) {
			fields[k] = v
		}
	}
	if p.Subjects == nil {
		fields["subjects"] = "subjects must be a list"
	}
	grades := make([]models.Grade, 0, len(p.Subjects))
	for i, sub := range p.Subjects {
		if sub.Name == "" {
			fields[fmt.Sprintf("subjects[%d].name", i)] = "subject name is required"
			continue
		}
		score, err := parseScore(string(sub.Score))
		if err != nil {
			fields[fmt.Sprintf("subjects[%d].score", i)] = "score must be a decimal number"
			continue
		}
		grades = append(grades, models.Grade{Subject: sub.Name, Score: score})
	}
	if len(fields) > 0 {
		return nil, fields
	}

	absences := 0
	if p.AbsenceCount != nil {
		absences = int(*p.AbsenceCount)
	}
	return &models.Student{
		Name:         p.Name,
		Age:          int(p.Age),
		AbsenceCount: absences,
		Grades:       grades,
	}, nil
}

func studentID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// POST /students
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	st, fields := p.toModel()
	if fields != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}
	if err := h.store.CreateWithGrades(st); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": st.ID})
}

// PUT /students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id, ok := studentID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	st, fields := p.toModel()
	if fields != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}
	st.ID = id
	if err := h.store.ReplaceWithGrades(st); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{})
}

// DELETE /students/:id
func (h *StudentHandler) Delete(c echo.Context) error {
	id, ok := studentID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := h.store.DeleteWithGrades(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	id, ok := studentID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	st, err := h.store.GetWithGrades(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, st)
}

// GET /students
func (h *StudentHandler) List(c echo.Context) error {
	items, err := h.store.ListSummaries()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, items)
}
