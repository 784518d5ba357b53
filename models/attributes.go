package models

// Attribute is a named, multi-valued extension field of a user or group.
type Attribute struct {
	Name  string   `json:"name"`
	Value []string `json:"value"`
}

// AttributeType is the value type declared in the attribute schema.
type AttributeType string

const (
	AttributeString    AttributeType = "STRING"
	AttributeInteger   AttributeType = "INTEGER"
	AttributeJpegPhoto AttributeType = "JPEG_PHOTO"
	AttributeDateTime  AttributeType = "DATE_TIME"
)

// Valid reports whether t is one of the types the directory accepts.
func (t AttributeType) Valid() bool {
	switch t {
	case AttributeString, AttributeInteger, AttributeJpegPhoto, AttributeDateTime:
		return true
	}
	return false
}

// AttributeSchema describes one entry of the user or group attribute schema.
type AttributeSchema struct {
	Name          string        `json:"name"`
	AttributeType AttributeType `json:"attributeType"`
	IsList        bool          `json:"isList"`
	IsVisible     bool          `json:"isVisible"`
	IsEditable    bool          `json:"isEditable"`
	IsHardcoded   bool          `json:"isHardcoded,omitempty"`
	IsReadonly    bool          `json:"isReadonly,omitempty"`
}

// AttributeList wraps a list of schema entries as the server nests them.
type AttributeList struct {
	Attributes []AttributeSchema `json:"attributes"`
}

// Schema is the attribute schema metadata returned alongside user details.
type Schema struct {
	UserSchema AttributeList `json:"userSchema"`
}

// MergeAttributes merges incoming attributes into existing ones by name.
// Entries of existing keep their position; an incoming entry with the same
// name replaces the existing value in place and unseen names are appended in
// incoming order.
func MergeAttributes(existing, incoming []Attribute) []Attribute {
	merged := make([]Attribute, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, attr := range merged {
		if _, seen := index[attr.Name]; !seen {
			index[attr.Name] = i
		}
	}

	for _, attr := range incoming {
		if i, ok := index[attr.Name]; ok {
			merged[i] = attr
			continue
		}
		index[attr.Name] = len(merged)
		merged = append(merged, attr)
	}
	return merged
}
