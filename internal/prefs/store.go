// Package prefs is the durable settings store behind the onboarding and
// session flags. Values survive process restarts; readers can observe
// changes through Watch.
package prefs

import (
	"database/sql"
	"errors"
	"strconv"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Settings are the three scalar flags the app persists. Defaults apply
// on first read; values only ever change by being overwritten.
type Settings struct {
	OnboardingComplete bool
	LoggedIn           bool
	DisplayName        string
}

const (
	keyOnboarding  = "onboarding_complete"
	keyLoggedIn    = "logged_in"
	keyDisplayName = "display_name"
)

type Store struct {
	db *sqlx.DB

	mu       sync.Mutex
	watchers []chan Settings
}

// Open opens (creating if needed) the settings database at path.
// ":memory:" works for tests.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS settings(
		  key   TEXT PRIMARY KEY,
		  value TEXT NOT NULL
		)`); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Get reads the current settings, applying defaults for unset keys.
func (s *Store) Get() (Settings, error) {
	return getTx(s.db)
}

type getter interface {
	Get(dest any, query string, args ...any) error
}

func getTx(q getter) (Settings, error) {
	read := func(key string) (string, bool, error) {
		var v string
		err := q.Get(&v, `SELECT value FROM settings WHERE key=?`, key)
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return v, true, nil
	}

	var out Settings
	if v, found, err := read(keyOnboarding); err != nil {
		return out, err
	} else if found {
		out.OnboardingComplete, _ = strconv.ParseBool(v)
	}
	if v, found, err := read(keyLoggedIn); err != nil {
		return out, err
	} else if found {
		out.LoggedIn, _ = strconv.ParseBool(v)
	}
	if v, found, err := read(keyDisplayName); err != nil {
		return out, err
	} else if found {
		out.DisplayName = v
	}
	return out, nil
}

// Update applies fn to the current settings in one transaction
// (read-modify-write) and notifies watchers with the result.
func (s *Store) Update(fn func(Settings) Settings) (Settings, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return Settings{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getTx(tx)
	if err != nil {
		return Settings{}, err
	}
	next := fn(cur)

	for _, kv := range []struct{ k, v string }{
		{keyOnboarding, strconv.FormatBool(next.OnboardingComplete)},
		{keyLoggedIn, strconv.FormatBool(next.LoggedIn)},
		{keyDisplayName, next.DisplayName},
	} {
		if _, err := tx.Exec(`
			INSERT INTO settings(key,value) VALUES(?,?)
			ON CONFLICT(key) DO UPDATE SET value=excluded.value
		`, kv.k, kv.v); err != nil {
			return Settings{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Settings{}, err
	}

	s.notify(next)
	return next, nil
}

// Watch registers an observer of settings changes. The channel is
// buffered and coalescing: a slow reader sees the latest value, not
// every intermediate one. The returned func unsubscribes.
func (s *Store) Watch() (<-chan Settings, func()) {
	ch := make(chan Settings, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				return
			}
		}
	}
	return ch, cancel
}

func (s *Store) notify(v Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.watchers {
		// Drop the stale buffered value so the latest always lands.
		select {
		case <-w:
		default:
		}
		select {
		case w <- v:
		default:
		}
	}
}
