package domain

type Category string

const (
	CategorySale         Category = "SALE"
	CategoryRent         Category = "RENT"
	CategoryService      Category = "SERVICE"
	CategoryAnnouncement Category = "ANNOUNCEMENT"
)

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{CategorySale, CategoryRent, CategoryService, CategoryAnnouncement}
}

func (c Category) Valid() bool {
	switch c {
	case CategorySale, CategoryRent, CategoryService, CategoryAnnouncement:
		return true
	}
	return false
}

// Label is the section title shown for a category on the home feed.
func (c Category) Label() string {
	switch c {
	case CategorySale:
		return "For Sale"
	case CategoryRent:
		return "For Rent"
	case CategoryService:
		return "Services"
	case CategoryAnnouncement:
		return "Announcements"
	}
	return string(c)
}

// Author is the listing owner as embedded in listing reads.
// It is never cached independently of its listing.
type Author struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

func (a Author) DisplayName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

type Listing struct {
	ID          string   `db:"id" json:"id"`
	Title       string   `db:"title" json:"title"`
	Description string   `db:"description" json:"description"`
	Price       float64  `db:"price" json:"price"`
	Currency    string   `db:"currency" json:"currency"`
	Category    Category `db:"category" json:"category"`
	ImagesJSON  string   `db:"images_json" json:"images_json"`
	AuthorID    string   `db:"author_id" json:"-"`
	Author      Author   `db:"-" json:"author"`
	Active      bool     `db:"active" json:"active"`
	Saved       bool     `db:"-" json:"saved"`
	CreatedAt   string   `db:"created_at" json:"created_at"`
	UpdatedAt   string   `db:"updated_at" json:"updated_at,omitempty"`
}

// Section is a named, ordered group of listings shown together on the
// home feed. Insertion order is display order.
type Section struct {
	Title    string    `json:"title"`
	Category Category  `json:"category"`
	Listings []Listing `json:"listings"`
}

// GroupIntoSections buckets listings by category, keeping feed order
// inside each bucket and Categories() order across buckets. Empty
// categories produce no section.
func GroupIntoSections(listings []Listing) []Section {
	byCat := make(map[Category][]Listing, len(listings))
	for _, l := range listings {
		byCat[l.Category] = append(byCat[l.Category], l)
	}
	var out []Section
	for _, c := range Categories() {
		if items := byCat[c]; len(items) > 0 {
			out = append(out, Section{Title: c.Label(), Category: c, Listings: items})
		}
	}
	return out
}
