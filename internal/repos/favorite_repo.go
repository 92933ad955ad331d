package repos

import (
	"swapi/internal/domain"

	"github.com/jmoiron/sqlx"
)

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Toggle flips the saved state for (userID, listingID) and reports the
// resulting state.
func (r *FavoriteRepo) Toggle(userID, listingID string) (saved bool, err error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`DELETE FROM favorites WHERE user_id=? AND listing_id=?`, userID, listingID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, tx.Commit()
	}

	if _, err := tx.Exec(`
	  INSERT INTO favorites(user_id, listing_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	`, userID, listingID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *FavoriteRepo) IsSaved(userID, listingID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM favorites WHERE user_id=? AND listing_id=?`, userID, listingID)
	return n > 0, err
}

// SavedSet returns the ids of everything the user has saved, for feed
// annotation.
func (r *FavoriteRepo) SavedSet(userID string) (map[string]bool, error) {
	var ids []string
	if err := r.db.Select(&ids, `SELECT listing_id FROM favorites WHERE user_id=?`, userID); err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// ListByUser returns the user's saved listings, most recently saved first.
func (r *FavoriteRepo) ListByUser(userID string) ([]domain.Listing, error) {
	var rows []listingRow
	err := r.db.Select(&rows, `
	  SELECT `+listingColumns+`
	  FROM favorites f
	  JOIN listings l ON l.id = f.listing_id AND l.active = 1
	  JOIN users u ON u.id = l.author_id
	  WHERE f.user_id=?
	  ORDER BY f.created_at DESC, l.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		l := row.toListing()
		l.Saved = true
		out = append(out, l)
	}
	return out, nil
}
