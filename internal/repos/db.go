package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo accounts and listings if the DB is empty (idempotent;
	// safe to run on every start).
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('STUDENT','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  currency TEXT NOT NULL DEFAULT 'MXN',
  category TEXT NOT NULL CHECK (category IN ('SALE','RENT','SERVICE','ANNOUNCEMENT')),
  images_json TEXT NOT NULL DEFAULT '[]',
  author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_listings_category   ON listings(category);
CREATE INDEX IF NOT EXISTS idx_listings_author     ON listings(author_id);
CREATE INDEX IF NOT EXISTS idx_listings_title      ON listings(LOWER(title));
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

-- Favorites
CREATE TABLE IF NOT EXISTS favorites(
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (user_id, listing_id)
);
CREATE INDEX IF NOT EXISTS idx_favorites_listing ON favorites(listing_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures two STUDENTs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, First, Last, Phone, Role, Hash string
	}
	mk := func(id, email, first, last, phone, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, First: first, Last: last, Phone: phone, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-ana", "ana@swapi.test", "Ana", "Torres", "+525511223344", "STUDENT", "Passw0rd!"),
		mk("u-luis", "luis@swapi.test", "Luis", "Mendoza", "", "STUDENT", "Passw0rd!"),
		mk("u-admin", "admin@swapi.test", "Admin", "", "", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,first_name,last_name,phone,password_hash,role)
			VALUES(?,?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.First, x.Last, x.Phone, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO listings(id,title,description,price,currency,category,images_json,author_id) VALUES
	  ('lst-silla','Silla de escritorio','Silla ergonomica, poco uso',450,'MXN','SALE','["listings/lst-silla/main.jpg"]','u-ana'),
	  ('lst-mesa','Mesa de madera','Mesa para cuatro personas',1250,'MXN','SALE','["listings/lst-mesa/main.jpg"]','u-luis'),
	  ('lst-laptop','Laptop Dell Latitude','8GB RAM, SSD 256GB, bateria nueva',6800,'MXN','SALE','["listings/lst-laptop/main.jpg"]','u-ana'),
	  ('lst-cuarto','Cuarto cerca del campus','Renta mensual, servicios incluidos',3500,'MXN','RENT','[]','u-luis'),
	  ('lst-calculo','Asesorias de calculo','Sesiones de una hora, primera gratis',150,'MXN','SERVICE','[]','u-ana'),
	  ('lst-torneo','Torneo de ajedrez','Inscripciones abiertas hasta el viernes',0,'MXN','ANNOUNCEMENT','[]','u-admin')`)

	return tx.Commit()
}
