// service/book/book_service_test.go
package book

import (
	"context"
	"errors"
	"testing"

	"github.com/yogeshtripathi1231/library/model"
	bookrepo "github.com/yogeshtripathi1231/library/repository/book"
)

type repoMock struct {
	createFn func(ctx context.Context, b *model.Book) error
	listFn   func(ctx context.Context, f model.BookFilter) ([]model.Book, error)
	byIDFn   func(ctx context.Context, id int64) (*model.Book, error)
	updateFn func(ctx context.Context, id int64, req model.UpdateBookReq) (*model.Book, error)
	deleteFn func(ctx context.Context, id int64) (bool, error)
}

var _ bookrepo.Repo = (*repoMock)(nil)

func (m *repoMock) Create(ctx context.Context, b *model.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) List(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
	return m.listFn(ctx, f)
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) Update(ctx context.Context, id int64, req model.UpdateBookReq) (*model.Book, error) {
	return m.updateFn(ctx, id, req)
}
func (m *repoMock) Delete(ctx context.Context, id int64) (bool, error) { return m.deleteFn(ctx, id) }

func TestCreate_Validation(t *testing.T) {
	s := New(&repoMock{})
	cases := []model.CreateBookReq{
		{Title: "", Author: "a", Category: "c"},
		{Title: "t", Author: "", Category: "c"},
		{Title: "t", Author: "a", Category: ""},
	}
	for _, req := range cases {
		if _, err := s.Create(context.Background(), req); Code(err) != ErrBadInput {
			t.Fatalf("expected BAD_INPUT for %+v, got %v", req, err)
		}
	}
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error {
			if b.Title != "Clean Code" || b.Category != "Prog" || b.Stock != 3 {
				return errors.New("bad args")
			}
			b.ID = 42
			return nil
		},
	}
	s := New(m)
	b, err := s.Create(context.Background(), model.CreateBookReq{
		Title: "Clean Code", Author: "Robert C. Martin", Category: "Prog", Stock: 3,
	})
	if err != nil || b.ID != 42 {
		t.Fatalf("got id=%v err=%v; want 42 nil", b, err)
	}
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Book, error) { return nil, nil },
	}
	s := New(m)
	if _, err := s.Detail(context.Background(), 99); Code(err) != ErrNotFound {
		t.Fatalf("expected BOOK_NOT_FOUND, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	m := &repoMock{
		deleteFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}
	s := New(m)
	if err := s.Delete(context.Background(), 99); Code(err) != ErrNotFound {
		t.Fatalf("expected BOOK_NOT_FOUND, got %v", err)
	}
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
			if f.Search != "dune" {
				return nil, errors.New("filter not forwarded")
			}
			return []model.Book{{ID: 1}}, nil
		},
		updateFn: func(ctx context.Context, id int64, req model.UpdateBookReq) (*model.Book, error) {
			return &model.Book{ID: id}, nil
		},
	}
	s := New(m)

	rows, err := s.List(context.Background(), model.BookFilter{Search: "dune"})
	if err != nil || len(rows) != 1 {
		t.Fatalf("List got %v %v; want 1 row nil", rows, err)
	}
	if _, err := s.Update(context.Background(), 7, model.UpdateBookReq{}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
}
