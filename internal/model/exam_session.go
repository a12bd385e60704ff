package model

import "time"

// ExamSession represents a student's single time-boxed exam attempt.
// Once inactive it is terminal; a new attempt is a new row.
type ExamSession struct {
	ID              int        `json:"id"`
	StudentID       int        `json:"student_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Deadline returns the wall-clock cutoff for this session. Expiry is
// always computed from started_at, never from a server-side timer.
func (s *ExamSession) Deadline() time.Time {
	return s.StartedAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// ExamInstructions is the static pre-exam briefing shown to students.
type ExamInstructions struct {
	DurationMinutes int      `json:"duration_minutes"`
	Instructions    []string `json:"instructions"`
}
