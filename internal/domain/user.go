package domain

type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Hash      string `db:"password_hash" json:"-"`
	Role      string `db:"role" json:"role"` // STUDENT | ADMIN
}

func (u User) DisplayName() string {
	return Author{FirstName: u.FirstName, LastName: u.LastName}.DisplayName()
}

func (u User) AsAuthor() Author {
	return Author{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
	}
}
