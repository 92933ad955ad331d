package repos

import (
	"database/sql"
	"errors"
	"strings"

	"swapi/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

// listingRow flattens the author join; toListing folds it back into the
// embedded Author the API exposes.
type listingRow struct {
	domain.Listing
	AuthorFirstName string `db:"author_first_name"`
	AuthorLastName  string `db:"author_last_name"`
	AuthorPhone     string `db:"author_phone"`
	AuthorRole      string `db:"author_role"`
}

func (row listingRow) toListing() domain.Listing {
	l := row.Listing
	l.Author = domain.Author{
		ID:        l.AuthorID,
		FirstName: row.AuthorFirstName,
		LastName:  row.AuthorLastName,
		Phone:     row.AuthorPhone,
		Role:      row.AuthorRole,
	}
	return l
}

const listingColumns = `
  l.id, l.title, l.description, l.price, l.currency, l.category, l.images_json,
  l.author_id, l.active, l.created_at, COALESCE(l.updated_at,'') AS updated_at,
  u.first_name AS author_first_name, u.last_name AS author_last_name,
  u.phone AS author_phone, u.role AS author_role`

func (r *ListingRepo) Create(l *domain.Listing) error {
	_, err := r.db.Exec(`
	  INSERT INTO listings(id,title,description,price,currency,category,images_json,author_id,active,created_at)
	  VALUES(?,?,?,?,?,?,?,?,1,?)
	`, l.ID, l.Title, l.Description, l.Price, l.Currency, l.Category, l.ImagesJSON, l.AuthorID, l.CreatedAt)
	return err
}

func (r *ListingRepo) Update(l *domain.Listing) error {
	res, err := r.db.Exec(`
	  UPDATE listings
	  SET title=?, description=?, price=?, currency=?, category=?, images_json=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=? AND active=1
	`, l.Title, l.Description, l.Price, l.Currency, l.Category, l.ImagesJSON, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// Delete deactivates the listing; rows are kept for audit.
func (r *ListingRepo) Delete(id string) error {
	res, err := r.db.Exec(`UPDATE listings SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=? AND active=1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var row listingRow
	err := r.db.Get(&row, `
	  SELECT `+listingColumns+`
	  FROM listings l JOIN users u ON u.id = l.author_id
	  WHERE l.id=? AND l.active=1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	if err != nil {
		return domain.Listing{}, err
	}
	return row.toListing(), nil
}

// List returns active listings, newest first. Category and query narrow
// the result when non-empty; the query matches title and description.
func (r *ListingRepo) List(q string, category domain.Category) ([]domain.Listing, error) {
	where := `l.active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(l.title) LIKE ? OR LOWER(l.description) LIKE ?)`
		pat := "%" + strings.ToLower(q) + "%"
		args = append(args, pat, pat)
	}
	if category != "" {
		where += ` AND l.category = ?`
		args = append(args, category)
	}

	var rows []listingRow
	err := r.db.Select(&rows, `
	  SELECT `+listingColumns+`
	  FROM listings l JOIN users u ON u.id = l.author_id
	  WHERE `+where+`
	  ORDER BY l.created_at DESC, l.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toListing())
	}
	return out, nil
}

func (r *ListingRepo) ListByAuthor(authorID string) ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.Select(&rows, `
	  SELECT `+listingColumns+`
	  FROM listings l JOIN users u ON u.id = l.author_id
	  WHERE l.author_id=? AND l.active=1
	  ORDER BY l.created_at DESC, l.id DESC`, authorID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toListing())
	}
	return out, nil
}
