package services_test

import (
	"errors"
	"testing"

	"swapi/internal/repos"
	"swapi/internal/services"

	"github.com/jmoiron/sqlx"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func authSvc(t *testing.T, db *sqlx.DB) *services.AuthService {
	t.Helper()
	return services.NewAuthService(repos.NewUserRepo(db), "test-secret")
}

func TestLoginIssuesUsableToken(t *testing.T) {
	db := memdb(t)
	svc := authSvc(t, db)

	u, tok, err := svc.Login("ana@swapi.test", "Passw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok == "" || u.FirstName != "Ana" {
		t.Fatalf("unexpected session: token=%q user=%+v", tok, u)
	}

	back, err := svc.UserFromToken(tok)
	if err != nil {
		t.Fatalf("token round trip: %v", err)
	}
	if back.ID != u.ID {
		t.Fatalf("token resolves wrong user: %s vs %s", back.ID, u.ID)
	}
}

func TestLoginCollapsesFailures(t *testing.T) {
	db := memdb(t)
	svc := authSvc(t, db)

	if _, _, err := svc.Login("ana@swapi.test", "wrongpass"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("wrong password: want ErrBadCreds, got %v", err)
	}
	if _, _, err := svc.Login("nobody@swapi.test", "Passw0rd!"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("unknown email: want ErrBadCreds, got %v", err)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	db := memdb(t)
	svc := authSvc(t, db)

	u, tok, err := svc.Register("maria@swapi.test", "S3cret!!", "Maria", "Lopez", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if tok == "" || u.Role != "STUDENT" {
		t.Fatalf("unexpected new user: %+v", u)
	}

	if _, _, err := svc.Login("maria@swapi.test", "S3cret!!"); err != nil {
		t.Fatalf("login after register: %v", err)
	}

	// duplicate email
	if _, _, err := svc.Register("maria@swapi.test", "S3cret!!", "Maria", "", ""); err == nil {
		t.Fatal("duplicate register should fail")
	}
}

func TestBadTokensRejected(t *testing.T) {
	db := memdb(t)
	svc := authSvc(t, db)

	if _, err := svc.UserFromToken("not-a-token"); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}

	// token signed with another secret
	other := services.NewAuthService(repos.NewUserRepo(db), "other-secret")
	_, tok, err := other.Login("ana@swapi.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UserFromToken(tok); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("foreign-signed token accepted: %v", err)
	}
}
