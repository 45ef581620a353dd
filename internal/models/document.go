// Package models defines core data structures for applicants, CV documents, queries, and search results.
package models

import "time"

// Document is one searchable CV: the applicant it belongs to and the CV's plain text.
// The search engine reads Text for the duration of a search and never mutates it.
type Document struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Text string `json:"-"`
}

// Applicant is a stored applicant profile.
type Applicant struct {
	ID          int64      `json:"id" db:"applicant_id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Address     string     `json:"address,omitempty" db:"address"`
	PhoneNumber string     `json:"phone_number,omitempty" db:"phone_number"`
	Email       string     `json:"email,omitempty" db:"email"`
}

// FullName returns "first last", trimmed when either part is empty.
func (a *Applicant) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// Application links an applicant to a submitted CV file.
type Application struct {
	ID          int64     `json:"id" db:"detail_id"`
	ApplicantID int64     `json:"applicant_id" db:"applicant_id"`
	Role        string    `json:"role,omitempty" db:"application_role"`
	CVPath      string    `json:"cv_path" db:"cv_path"`
	CVText      string    `json:"-" db:"cv_text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CorpusRow is one applicant/application pair as read for searching.
type CorpusRow struct {
	ApplicantID   int64
	ApplicationID int64
	Name          string
	CVPath        string
	CVText        string
}
