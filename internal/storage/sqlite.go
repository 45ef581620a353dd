// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/resumatch/internal/models"
)

const dateLayout = "2006-01-02"

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS applicant_profile (
		applicant_id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT,
		last_name TEXT,
		date_of_birth TEXT,
		address TEXT,
		phone_number TEXT,
		email TEXT
	);

	CREATE TABLE IF NOT EXISTS application_detail (
		detail_id INTEGER PRIMARY KEY AUTOINCREMENT,
		applicant_id INTEGER NOT NULL,
		application_role TEXT,
		cv_path TEXT NOT NULL,
		cv_text TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (applicant_id) REFERENCES applicant_profile(applicant_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_application_applicant ON application_detail(applicant_id);
	CREATE INDEX IF NOT EXISTS idx_application_cv_path ON application_detail(cv_path);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateApplicant inserts an applicant and sets its ID.
func (s *SQLiteStorage) CreateApplicant(ctx context.Context, a *models.Applicant) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO applicant_profile (first_name, last_name, date_of_birth, address, phone_number, email)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.FirstName, a.LastName, formatDate(a.DateOfBirth), a.Address, a.PhoneNumber, a.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to insert applicant: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// GetApplicant returns an applicant by ID, or ErrNotFound.
func (s *SQLiteStorage) GetApplicant(ctx context.Context, id int64) (*models.Applicant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT applicant_id, first_name, last_name, date_of_birth, address, phone_number, email
		 FROM applicant_profile WHERE applicant_id = ?`, id,
	)
	a, err := scanApplicant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("applicant %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListApplicants returns applicants in ID order with offset and limit.
func (s *SQLiteStorage) ListApplicants(ctx context.Context, offset, limit int) ([]*models.Applicant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT applicant_id, first_name, last_name, date_of_birth, address, phone_number, email
		 FROM applicant_profile ORDER BY applicant_id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applicants []*models.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		applicants = append(applicants, a)
	}
	return applicants, rows.Err()
}

// DeleteApplicant removes an applicant and its applications.
func (s *SQLiteStorage) DeleteApplicant(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM application_detail WHERE applicant_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM applicant_profile WHERE applicant_id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("applicant %d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// CreateApplication inserts an application for an existing applicant and sets its ID and CreatedAt.
func (s *SQLiteStorage) CreateApplication(ctx context.Context, app *models.Application) error {
	app.CreatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO application_detail (applicant_id, application_role, cv_path, cv_text, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		app.ApplicantID, app.Role, app.CVPath, nullIfEmpty(app.CVText), app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	app.ID = id
	return nil
}

// GetCVPath returns the CV path of the applicant's first application, or ErrNotFound.
func (s *SQLiteStorage) GetCVPath(ctx context.Context, applicantID int64) (string, error) {
	var path string
	err := s.db.QueryRowContext(ctx,
		`SELECT cv_path FROM application_detail WHERE applicant_id = ? ORDER BY detail_id LIMIT 1`,
		applicantID,
	).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("cv for applicant %d: %w", applicantID, ErrNotFound)
	}
	return path, err
}

// UpdateCVText stores extracted CV text for an application.
func (s *SQLiteStorage) UpdateCVText(ctx context.Context, applicationID int64, text string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE application_detail SET cv_text = ? WHERE detail_id = ?`, text, applicationID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("application %d: %w", applicationID, ErrNotFound)
	}
	return nil
}

// ApplicationByPath returns the first application recorded for cvPath, or ErrNotFound.
func (s *SQLiteStorage) ApplicationByPath(ctx context.Context, cvPath string) (*models.Application, error) {
	var app models.Application
	var role, text sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT detail_id, applicant_id, application_role, cv_path, cv_text, created_at
		 FROM application_detail WHERE cv_path = ? ORDER BY detail_id LIMIT 1`, cvPath,
	).Scan(&app.ID, &app.ApplicantID, &role, &app.CVPath, &text, &app.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application for %s: %w", cvPath, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	app.Role = role.String
	app.CVText = text.String
	return &app, nil
}

// DeleteApplicationsByPath removes applications for cvPath and any applicant left without one.
// Returns the number of applications removed.
func (s *SQLiteStorage) DeleteApplicationsByPath(ctx context.Context, cvPath string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT DISTINCT applicant_id FROM application_detail WHERE cv_path = ?`, cvPath)
	if err != nil {
		return 0, err
	}
	var owners []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		owners = append(owners, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM application_detail WHERE cv_path = ?`, cvPath)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	for _, id := range owners {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM applicant_profile WHERE applicant_id = ?
			 AND NOT EXISTS (SELECT 1 FROM application_detail WHERE applicant_id = ?)`, id, id,
		); err != nil {
			return 0, err
		}
	}
	return n, tx.Commit()
}

// ListCorpusRows returns every application joined with its applicant, ordered by applicant then application.
func (s *SQLiteStorage) ListCorpusRows(ctx context.Context) ([]*models.CorpusRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ap.applicant_id, ad.detail_id, ap.first_name, ap.last_name, ad.cv_path, ad.cv_text
		 FROM applicant_profile ap
		 JOIN application_detail ad ON ap.applicant_id = ad.applicant_id
		 ORDER BY ap.applicant_id, ad.detail_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CorpusRow
	for rows.Next() {
		var r models.CorpusRow
		var first, last, text sql.NullString
		if err := rows.Scan(&r.ApplicantID, &r.ApplicationID, &first, &last, &r.CVPath, &text); err != nil {
			return nil, err
		}
		a := models.Applicant{FirstName: first.String, LastName: last.String}
		r.Name = a.FullName()
		r.CVText = text.String
		out = append(out, &r)
	}
	return out, rows.Err()
}

// CountApplicants returns the total number of applicants.
func (s *SQLiteStorage) CountApplicants(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicant_profile`).Scan(&count)
	return count, err
}

// CountApplications returns the total number of applications.
func (s *SQLiteStorage) CountApplications(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM application_detail`).Scan(&count)
	return count, err
}

// Reset deletes all applications and applicants.
func (s *SQLiteStorage) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range []string{
		`DELETE FROM application_detail`,
		`DELETE FROM applicant_profile`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplicant(row rowScanner) (*models.Applicant, error) {
	var a models.Applicant
	var first, last, dob, addr, phone, email sql.NullString
	if err := row.Scan(&a.ID, &first, &last, &dob, &addr, &phone, &email); err != nil {
		return nil, err
	}
	a.FirstName = first.String
	a.LastName = last.String
	a.Address = addr.String
	a.PhoneNumber = phone.String
	a.Email = email.String
	if dob.Valid && dob.String != "" {
		if t, err := time.Parse(dateLayout, dob.String); err == nil {
			a.DateOfBirth = &t
		}
	}
	return &a, nil
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
