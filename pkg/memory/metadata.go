package memory

import (
	"encoding/json"
	"fmt"
)

// ItemType classifies what kind of content an item holds.
type ItemType string

const (
	TypeChat     ItemType = "chat"
	TypeCode     ItemType = "code"
	TypeNote     ItemType = "note"
	TypeDocument ItemType = "document"
	TypeProject  ItemType = "project"
)

// itemTypes is the closed set of accepted item types.
var itemTypes = map[ItemType]bool{
	TypeChat:     true,
	TypeCode:     true,
	TypeNote:     true,
	TypeDocument: true,
	TypeProject:  true,
}

// Metadata is the open key/value envelope attached to every item. The named
// fields have documented meaning; any other keys supplied by callers are
// preserved opaquely in Extra and round-trip through JSON untouched.
type Metadata struct {
	Source     string
	Type       ItemType
	Importance int
	Language   string
	Framework  string
	Extra      map[string]any
}

// DefaultMetadata returns the metadata applied when a create request omits
// the metadata object entirely.
func DefaultMetadata() Metadata {
	return Metadata{
		Type:       TypeNote,
		Importance: 1,
	}
}

// Validate checks the documented fields. Zero values are accepted so partial
// updates can leave fields unset.
func (m Metadata) Validate() error {
	if m.Type != "" && !itemTypes[m.Type] {
		return fmt.Errorf("unsupported metadata type %q", m.Type)
	}
	if m.Importance != 0 && (m.Importance < 1 || m.Importance > 5) {
		return fmt.Errorf("metadata importance must be between 1 and 5, got %d", m.Importance)
	}
	return nil
}

// MarshalJSON flattens the documented fields and the Extra map into a single
// JSON object. Documented fields win over colliding Extra keys.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+5)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.Source != "" {
		out["source"] = m.Source
	}
	if m.Type != "" {
		out["type"] = string(m.Type)
	}
	if m.Importance != 0 {
		out["importance"] = m.Importance
	}
	if m.Language != "" {
		out["language"] = m.Language
	}
	if m.Framework != "" {
		out["framework"] = m.Framework
	}
	return json.Marshal(out)
}

// UnmarshalJSON pulls the documented fields out of the object and keeps
// everything else in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Metadata{}
	for k, v := range raw {
		switch k {
		case "source":
			if s, ok := v.(string); ok {
				m.Source = s
				continue
			}
		case "type":
			if s, ok := v.(string); ok {
				m.Type = ItemType(s)
				continue
			}
		case "importance":
			// JSON numbers decode as float64.
			if f, ok := v.(float64); ok {
				m.Importance = int(f)
				continue
			}
		case "language":
			if s, ok := v.(string); ok {
				m.Language = s
				continue
			}
		case "framework":
			if s, ok := v.(string); ok {
				m.Framework = s
				continue
			}
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[k] = v
	}
	return nil
}
