package memory

// Stats is the aggregated usage summary for one owner.
type Stats struct {
	TotalMemories     int              `json:"total_memories"`
	MemoriesByType    map[string]int   `json:"memories_by_type"`
	MemoriesByProject map[string]int   `json:"memories_by_project"`
	RecentActivity    []ActivityBucket `json:"recent_activity"`
	StorageUsage      StorageUsage     `json:"storage_usage"`
}

// ActivityBucket is one day of creation activity inside the lookback window.
type ActivityBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StorageUsage summarizes how much the owner has stored.
type StorageUsage struct {
	TotalItems      int `json:"total_items"`
	TotalTextLength int `json:"total_text_length"`
}

// EmptyStats returns a fully-populated zero summary. Callers receive this
// instead of nil maps or a missing body when an owner has no items.
func EmptyStats() *Stats {
	return &Stats{
		MemoriesByType:    map[string]int{},
		MemoriesByProject: map[string]int{},
		RecentActivity:    []ActivityBucket{},
	}
}
