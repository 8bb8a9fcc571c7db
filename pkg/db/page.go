package db

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is a 1-origin page of a listing.
type Page struct {
	Page    int
	PerPage int
}

// FirstPage returns the first page with given size.
func FirstPage(size int) Page {
	return Page{Page: 1, PerPage: size}
}

// Offset is the number of records to be skipped.
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit is the number of records in a page.
//
// Non-positive PerPage means DefaultPerPage.
func (p Page) Limit() int {
	if p.PerPage <= 0 {
		return DefaultPerPage
	}
	return p.PerPage
}
