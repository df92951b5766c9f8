package tss

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Secret is a Secret Server secret record. Fields the client does not model
// are kept verbatim in Extra and written back by MarshalJSON.
type Secret struct {
	ID    int
	Name  string
	Items []Item
	Extra map[string]json.RawMessage
}

// Item is one field of a secret. FileAttachmentID is empty when the field
// holds no attachment; after Fetch, ItemValue of an attachment field is the
// downloaded file content.
type Item struct {
	Slug             string
	FileAttachmentID string
	ItemValue        string
	Extra            map[string]json.RawMessage
}

// HasAttachment reports whether the item references a file attachment.
func (i Item) HasAttachment() bool {
	return i.FileAttachmentID != ""
}

// Values maps each item slug to its value.
func (s *Secret) Values() map[string]string {
	out := make(map[string]string, len(s.Items))
	for _, item := range s.Items {
		out[item.Slug] = item.ItemValue
	}
	return out
}

// Item returns the item with the given slug.
func (s *Secret) Item(slug string) (*Item, bool) {
	for i := range s.Items {
		if s.Items[i].Slug == slug {
			return &s.Items[i], true
		}
	}
	return nil, false
}

func (s *Secret) empty() bool {
	return s.ID == 0 && s.Name == "" && s.Items == nil && len(s.Extra) == 0
}

func (s *Secret) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out Secret
	if err := take(fields, "id", &out.ID); err != nil {
		return err
	}
	if err := take(fields, "name", &out.Name); err != nil {
		return err
	}
	if err := take(fields, "items", &out.Items); err != nil {
		return err
	}
	if len(fields) > 0 {
		out.Extra = fields
	}
	*s = out
	return nil
}

func (s Secret) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(s.Extra)+3)
	for k, v := range s.Extra {
		fields[k] = v
	}
	fields["id"] = s.ID
	fields["name"] = s.Name
	items := s.Items
	if items == nil {
		items = []Item{}
	}
	fields["items"] = items
	return json.Marshal(fields)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out Item
	if err := take(fields, "slug", &out.Slug); err != nil {
		return err
	}
	if err := take(fields, "itemValue", &out.ItemValue); err != nil {
		return err
	}
	if raw, ok := fields["fileAttachmentId"]; ok {
		id, err := attachmentID(raw)
		if err != nil {
			return err
		}
		out.FileAttachmentID = id
		delete(fields, "fileAttachmentId")
	}
	if len(fields) > 0 {
		out.Extra = fields
	}
	*i = out
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(i.Extra)+3)
	for k, v := range i.Extra {
		fields[k] = v
	}
	fields["slug"] = i.Slug
	fields["itemValue"] = i.ItemValue
	switch {
	case i.FileAttachmentID == "":
		fields["fileAttachmentId"] = nil
	case isInteger(i.FileAttachmentID):
		fields["fileAttachmentId"] = json.Number(i.FileAttachmentID)
	default:
		fields["fileAttachmentId"] = i.FileAttachmentID
	}
	return json.Marshal(fields)
}

// take decodes fields[key] into dst and removes it. Absent and null values leave dst untouched.
func take(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	delete(fields, key)
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

// attachmentID accepts a JSON number, string or null.
func attachmentID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode \"fileAttachmentId\": %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode \"fileAttachmentId\": %w", err)
	}
	return n.String(), nil
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
