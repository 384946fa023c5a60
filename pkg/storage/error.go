package storage

// NotFoundError is returned when an item doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "memory item not found"
	}

	return "memory item not found: " + e.ID
}
