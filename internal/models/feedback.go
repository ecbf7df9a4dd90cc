package models

import "time"

// FeedbackStatus enumerates review states for feedback entries.
type FeedbackStatus string

const (
	FeedbackOpen     FeedbackStatus = "open"
	FeedbackReviewed FeedbackStatus = "reviewed"
	FeedbackClosed   FeedbackStatus = "closed"
)

// Valid reports whether the status is a known feedback state.
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackOpen, FeedbackReviewed, FeedbackClosed:
		return true
	}
	return false
}

// Feedback is a free-form message submitted by staff. The submitter's
// role is captured at submission time so later role changes do not
// rewrite history.
type Feedback struct {
	ID        string         `db:"id" json:"id"`
	CreatedBy string         `db:"created_by" json:"createdBy"`
	Role      UserRole       `db:"role" json:"role"`
	Email     string         `db:"email" json:"email"`
	Message   string         `db:"message" json:"message"`
	Status    FeedbackStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`

	AuthorName *string `db:"author_name" json:"authorName,omitempty"`
}

// FeedbackFilter captures supported filters for listing feedback.
type FeedbackFilter struct {
	Status    *FeedbackStatus
	CreatedBy string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
