package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ttestive/projeto-final-web/database"
)

type ReportHandler struct {
	store database.ReportStore
}

func NewReportHandler(store database.ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// GET /reports/top-students
func (h *ReportHandler) TopStudents(c echo.Context) error {
	out, err := h.store.TopStudentsPerSubject()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /reports/top-subjects?limit=5
func (h *ReportHandler) TopSubjects(c echo.Context) error {
	limit := atoiOr(strings.TrimSpace(c.QueryParam("limit")), 5)
	if limit < 1 {
		limit = 1
	} else if limit > 50 {
		limit = 50
	}
	out, err := h.store.TopSubjectsByAverage(limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, out)
}
