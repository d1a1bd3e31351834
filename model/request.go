package model

import "time"

// Status is the closed set of loan request states. The strings are part of
// the API contract and are case-sensitive.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusIssued   Status = "Issued"
	StatusRejected Status = "Rejected"
	StatusReturned Status = "Returned"
)

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusIssued, StatusRejected, StatusReturned:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusReturned
}

// LoanRequest is one user's claim on one book copy. The loan service is the
// sole writer of Status, IssueDate, DueDate, ReturnDate and Fine.
type LoanRequest struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	BookID      int64      `json:"book_id"`
	Status      Status     `json:"status"`
	RequestDate time.Time  `json:"request_date"`
	IssueDate   *time.Time `json:"issue_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	Fine        float64    `json:"fine"`

	// Joined display fields, populated by list queries.
	UserName  string `json:"user_name,omitempty"`
	BookTitle string `json:"book_title,omitempty"`

	// Computed is derived at read time and never persisted.
	Computed *Computed `json:"computed,omitempty"`
}

// Computed holds the read-only fields derived from the stored dates.
type Computed struct {
	DaysUntilDue *int    `json:"daysUntilDue,omitempty"`
	NotifySoon   bool    `json:"notifySoon"`
	IsLate       bool    `json:"isLate"`
	DaysLate     int     `json:"daysLate"`
	FineDue      float64 `json:"fineDue"`
}

// CreateRequestReq represents loan request creation payload
// swagger:model CreateRequestReq
type CreateRequestReq struct {
	BookID int64 `json:"bookId" validate:"required,gt=0"`
}

// UpdateRequestReq carries the target status for an admin transition.
type UpdateRequestReq struct {
	Status string `json:"status" validate:"required"`
}

// RequestFilter narrows the admin listing.
type RequestFilter struct {
	UserID int64
	Status Status
}
