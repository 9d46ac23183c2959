package models

// TopStudent is one ranked (student name, score) entry within a subject.
type TopStudent struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SubjectTopStudents groups the up-to-3 best scores of one subject.
type SubjectTopStudents struct {
	Subject     string       `json:"subject"`
	TopStudents []TopStudent `json:"top_students"`
}

// SubjectAverage is the mean score of one subject, rounded to one decimal.
type SubjectAverage struct {
	Subject      string  `json:"subject"`
	AverageScore float64 `json:"average_score"`
}
