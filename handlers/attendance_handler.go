package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ttestive/projeto-final-web/database"
	"github.com/ttestive/projeto-final-web/models"
)

type AttendanceHandler struct {
	store database.AttendanceStore
}

func NewAttendanceHandler(store database.AttendanceStore) *AttendanceHandler {
	return &AttendanceHandler{store: store}
}

type attendanceMark struct {
	StudentID  uint                    `json:"student_id" validate:"required"`
	LessonDate string                  `json:"lesson_date" validate:"required,datetime=2006-01-02"`
	Status     models.AttendanceStatus `json:"status"`
}

type attendanceImportRequest struct {
	Marks []attendanceMark `json:"marks"`
}

// POST /attendance/import
// Re-importing the same (student, date) pair overwrites the stored status,
// so submitting the same file twice leaves the same end state.
func (h *AttendanceHandler) Import(c echo.Context) error {
	var req attendanceImportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if len(req.Marks) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "EMPTY_BATCH"})
	}

	fields := map[string]string{}
	marks := make([]models.Attendance, 0, len(req.Marks))
	for i, m := range req.Marks {
		if err := validate.Struct(m); err != nil {
			fields[fmt.Sprintf("marks[%d]", i)] = "student_id and lesson_date (YYYY-MM-DD) are required"
			continue
		}
		if !m.Status.Valid() {
			fields[fmt.Sprintf("marks[%d].status", i)] = "status must be present or absent"
			continue
		}
		marks = append(marks, models.Attendance{
			StudentID:  m.StudentID,
			LessonDate: m.LessonDate,
			Status:     m.Status,
		})
	}
	if len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}

	n, err := h.store.UpsertMarks(marks)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "CONFLICT"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"imported_count": n})
}

// GET /attendance?student_id=&start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *AttendanceHandler) List(c echo.Context) error {
	n := atoiOr(strings.TrimSpace(c.QueryParam("student_id")), 0)
	if n < 0 {
		n = 0
	}
	studentID := uint(n)
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))

	rows, err := h.store.List(studentID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}
