package book

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yogeshtripathi1231/library/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context, f model.BookFilter) ([]model.Book, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)
	Update(ctx context.Context, id int64, req model.UpdateBookReq) (*model.Book, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookCols = `id, title, author, description, category, isbn, stock, cover_image_url, created_at, updated_at`

func scanBook(row interface{ Scan(...any) error }, b *model.Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Category,
		&b.Isbn, &b.Stock, &b.CoverImageURL, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO books (title, author, description, category, isbn, stock, cover_image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`,
		b.Title, b.Author, b.Description, b.Category, b.Isbn, b.Stock, b.CoverImageURL,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) List(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
	const q = `
		SELECT ` + bookCols + `
		FROM books
		WHERE ($1 = '' OR title ILIKE '%'||$1||'%' OR author ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		  AND ($2 = '' OR category ILIKE '%'||$2||'%')
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, f.Search, f.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	var b model.Book
	err := scanBook(r.db.QueryRowContext(ctx, `
		SELECT `+bookCols+` FROM books WHERE id = $1`, id), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) Update(ctx context.Context, id int64, req model.UpdateBookReq) (*model.Book, error) {
	var b model.Book
	err := scanBook(r.db.QueryRowContext(ctx, `
		UPDATE books
		SET title           = COALESCE($2, title),
		    author          = COALESCE($3, author),
		    description     = COALESCE($4, description),
		    category        = COALESCE($5, category),
		    isbn            = COALESCE($6, isbn),
		    stock           = COALESCE($7, stock),
		    cover_image_url = COALESCE($8, cover_image_url),
		    updated_at      = now()
		WHERE id = $1
		RETURNING `+bookCols,
		id, req.Title, req.Author, req.Description, req.Category,
		req.Isbn, req.Stock, req.CoverImageURL), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
