package request

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yogeshtripathi1231/library/model"
	loansvc "github.com/yogeshtripathi1231/library/service/loan"
)

// repo implements loansvc.Store against Postgres. A repo is either bound to
// the pool or, inside InTx, to a single transaction; the same queries run in
// both modes.
type repo struct {
	db *sql.DB
	tx *sql.Tx
}

func New(db *sql.DB) loansvc.Store { return &repo{db: db} }

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repo) q() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InTx runs fn against a transaction-bound copy of the repo. Any error rolls
// the whole transaction back, so a status write and its paired stock change
// are observed together or not at all.
func (r *repo) InTx(ctx context.Context, fn func(loansvc.Store) error) error {
	if r.tx != nil {
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&repo{db: r.db, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

const requestCols = `id, user_id, book_id, status, request_date, issue_date, due_date, return_date, fine`

func scanRequest(row interface{ Scan(...any) error }, lr *model.LoanRequest) error {
	return row.Scan(&lr.ID, &lr.UserID, &lr.BookID, &lr.Status, &lr.RequestDate,
		&lr.IssueDate, &lr.DueDate, &lr.ReturnDate, &lr.Fine)
}

func (r *repo) Insert(ctx context.Context, lr *model.LoanRequest) error {
	return r.q().QueryRowContext(ctx, `
		INSERT INTO loan_requests (user_id, book_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, request_date`,
		lr.UserID, lr.BookID, lr.Status,
	).Scan(&lr.ID, &lr.RequestDate)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.LoanRequest, error) {
	return r.byID(ctx, id, "")
}

// ByIDForUpdate locks the request row for the rest of the transaction so
// concurrent transitions on the same request serialize.
func (r *repo) ByIDForUpdate(ctx context.Context, id int64) (*model.LoanRequest, error) {
	return r.byID(ctx, id, " FOR UPDATE")
}

func (r *repo) byID(ctx context.Context, id int64, suffix string) (*model.LoanRequest, error) {
	var lr model.LoanRequest
	err := scanRequest(r.q().QueryRowContext(ctx, `
		SELECT `+requestCols+`
		FROM loan_requests
		WHERE id = $1`+suffix, id), &lr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repo) HasActive(ctx context.Context, userID, bookID int64) (bool, error) {
	var exists bool
	err := r.q().QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM loan_requests
			WHERE user_id = $1 AND book_id = $2
			  AND status IN ('Pending', 'Approved', 'Issued')
		)`, userID, bookID).Scan(&exists)
	return exists, err
}

func (r *repo) List(ctx context.Context, f model.RequestFilter) ([]model.LoanRequest, error) {
	const q = `
		SELECT r.id, r.user_id, r.book_id, r.status, r.request_date,
		       r.issue_date, r.due_date, r.return_date, r.fine,
		       u.name, b.title
		FROM loan_requests r
		JOIN users u ON u.id = r.user_id
		JOIN books b ON b.id = r.book_id
		WHERE ($1 = 0 OR r.user_id = $1)
		  AND ($2 = '' OR r.status = $2)
		ORDER BY r.request_date DESC, r.id DESC`
	rows, err := r.q().QueryContext(ctx, q, f.UserID, string(f.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LoanRequest
	for rows.Next() {
		var lr model.LoanRequest
		if err := rows.Scan(&lr.ID, &lr.UserID, &lr.BookID, &lr.Status, &lr.RequestDate,
			&lr.IssueDate, &lr.DueDate, &lr.ReturnDate, &lr.Fine,
			&lr.UserName, &lr.BookTitle); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

func (r *repo) SetStatus(ctx context.Context, id int64, status model.Status) error {
	_, err := r.q().ExecContext(ctx, `
		UPDATE loan_requests
		SET status = $2, updated_at = now()
		WHERE id = $1`, id, status)
	return err
}

func (r *repo) MarkIssued(ctx context.Context, id int64, issue, due time.Time) error {
	_, err := r.q().ExecContext(ctx, `
		UPDATE loan_requests
		SET status = $2, issue_date = $3, due_date = $4, updated_at = now()
		WHERE id = $1`, id, model.StatusIssued, issue, due)
	return err
}

func (r *repo) MarkReturned(ctx context.Context, id int64, ret time.Time, fine float64) error {
	_, err := r.q().ExecContext(ctx, `
		UPDATE loan_requests
		SET status = $2, return_date = $3, fine = $4, updated_at = now()
		WHERE id = $1`, id, model.StatusReturned, ret, fine)
	return err
}

// BookStock reports the current counter and whether the book exists at all.
func (r *repo) BookStock(ctx context.Context, bookID int64) (int64, bool, error) {
	var stock int64
	err := r.q().QueryRowContext(ctx, `
		SELECT stock FROM books WHERE id = $1`, bookID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return stock, true, nil
}

// DecrementStock reserves one unit. The guard in the WHERE clause serializes
// racing approvals on the last unit; zero rows affected means the caller lost.
func (r *repo) DecrementStock(ctx context.Context, bookID int64) (bool, error) {
	res, err := r.q().ExecContext(ctx, `
		UPDATE books
		SET stock = stock - 1, updated_at = now()
		WHERE id = $1 AND stock > 0`, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) IncrementStock(ctx context.Context, bookID int64) error {
	_, err := r.q().ExecContext(ctx, `
		UPDATE books
		SET stock = stock + 1, updated_at = now()
		WHERE id = $1`, bookID)
	return err
}
