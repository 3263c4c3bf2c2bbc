package models

// Exam is the typed view of an exam document.
type Exam struct {
	Title           string           `json:"title" validate:"required,min=1,max=200"`
	Description     string           `json:"description,omitempty" validate:"max=2000"`
	DurationMinutes *int             `json:"durationMinutes,omitempty" validate:"omitempty,min=1"`
	TotalMarks      *float64         `json:"totalMarks,omitempty" validate:"omitempty,min=0"`
	Questions       []map[string]any `json:"questions,omitempty"`
}
