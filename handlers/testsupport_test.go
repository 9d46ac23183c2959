package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ttestive/projeto-final-web/database"
	"github.com/ttestive/projeto-final-web/models"
)

func newRequest(e *echo.Echo, method, path string, data ...[]byte) (echo.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	return ctx, rec
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal() failed: %v", err)
	}
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode() failed: %v (body: %s)", err, rec.Body.String())
	}
}

// memStudentStore is an in-memory StudentStore for handler tests.
type memStudentStore struct {
	nextID   uint
	students map[uint]*models.Student
	failWith error
}

var _ database.StudentStore = (*memStudentStore)(nil)

func newMemStudentStore() *memStudentStore {
	return &memStudentStore{nextID: 1, students: map[uint]*models.Student{}}
}

func (m *memStudentStore) CreateWithGrades(st *models.Student) error {
	if m.failWith != nil {
		return m.failWith
	}
	st.ID = m.nextID
	m.nextID++
	cp := *st
	cp.Grades = append([]models.Grade{}, st.Grades...)
	m.students[st.ID] = &cp
	return nil
}

func (m *memStudentStore) ReplaceWithGrades(st *models.Student) error {
	if m.failWith != nil {
		return m.failWith
	}
	cur, ok := m.students[st.ID]
	if !ok {
		return database.ErrNotFound
	}
	cur.Name = st.Name
	cur.Age = st.Age
	cur.AbsenceCount = st.AbsenceCount
	cur.Grades = append([]models.Grade{}, st.Grades...)
	return nil
}

func (m *memStudentStore) DeleteWithGrades(id uint) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.students[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *memStudentStore) GetWithGrades(id uint) (*models.Student, error) {
	st, ok := m.students[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *st
	cp.Grades = append([]models.Grade{}, st.Grades...)
	return &cp, nil
}

func (m *memStudentStore) ListSummaries() ([]models.StudentSummary, error) {
	ids := make([]uint, 0, len(m.students))
	for id := range m.students {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.StudentSummary, 0, len(ids))
	for _, id := range ids {
		st := m.students[id]
		out = append(out, models.StudentSummary{ID: st.ID, Name: st.Name, Age: st.Age})
	}
	return out, nil
}

func (m *memStudentStore) BulkImport(students []models.Student) (int, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	for i := range students {
		if err := m.CreateWithGrades(&students[i]); err != nil {
			return 0, err
		}
	}
	return len(students), nil
}

// memAttendanceStore keys marks by (student, date) so re-imports overwrite,
// mirroring the upsert rule.
type memAttendanceStore struct {
	marks    map[string]models.AttendanceStatus
	failWith error
}

var _ database.AttendanceStore = (*memAttendanceStore)(nil)

func newMemAttendanceStore() *memAttendanceStore {
	return &memAttendanceStore{marks: map[string]models.AttendanceStatus{}}
}

func markKey(studentID uint, date string) string {
	return fmt.Sprintf("%d|%s", studentID, date)
}

func (m *memAttendanceStore) UpsertMarks(marks []models.Attendance) (int, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	// count distinct pairs, like the real store after its intra-batch dedupe
	seen := map[string]bool{}
	for _, mk := range marks {
		k := markKey(mk.StudentID, mk.LessonDate)
		m.marks[k] = mk.Status
		seen[k] = true
	}
	return len(seen), nil
}

func (m *memAttendanceStore) List(studentID uint, start, end string) ([]models.Attendance, error) {
	out := []models.Attendance{}
	for k, status := range m.marks {
		var id uint
		var date string
		fmt.Sscanf(k, "%d|%s", &id, &date)
		if studentID != 0 && id != studentID {
			continue
		}
		if start != "" && date < start {
			continue
		}
		if end != "" && date > end {
			continue
		}
		out = append(out, models.Attendance{StudentID: id, LessonDate: date, Status: status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonDate < out[j].LessonDate })
	return out, nil
}

// memReportStore returns canned aggregation results.
type memReportStore struct {
	top   []models.SubjectTopStudents
	avg   []models.SubjectAverage
	limit int
}

var _ database.ReportStore = (*memReportStore)(nil)

func (m *memReportStore) TopStudentsPerSubject() ([]models.SubjectTopStudents, error) {
	return m.top, nil
}

func (m *memReportStore) TopSubjectsByAverage(limit int) ([]models.SubjectAverage, error) {
	m.limit = limit
	if limit < len(m.avg) {
		return m.avg[:limit], nil
	}
	return m.avg, nil
}
