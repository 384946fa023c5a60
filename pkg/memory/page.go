package memory

import "fmt"

// Page is a validated pagination window.
type Page struct {
	Number int
	Size   int
}

// NewPage validates and builds a pagination window. Number must be >= 1 and
// Size must be within [1, MaxPageSize]; a zero size selects DefaultPageSize.
func NewPage(number, size int) (Page, error) {
	if number < 1 {
		return Page{}, fmt.Errorf("page must be >= 1, got %d", number)
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, fmt.Errorf("page_size must be between 1 and %d, got %d", MaxPageSize, size)
	}
	return Page{Number: number, Size: size}, nil
}

// Offset converts the window into a store-level row offset.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// HasNext reports whether more rows exist beyond this window given the total
// row count.
func (p Page) HasNext(total int) bool {
	return total > p.Offset()+p.Size
}
