package news

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultGradient is the presentation hint applied when a create request omits one.
	DefaultGradient = "from-blue-600 to-purple-600"

	// DefaultAuthor is the byline applied when a create request omits one.
	DefaultAuthor = "Admin"

	// DateLayout is the wire format of PublishedDate.
	DateLayout = "2006-01-02"
)

// Item is a news/blog entry held by the content store.
type Item struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"image_url"`
	Gradient      string    `json:"gradient"`
	PublishedDate time.Time `json:"published_date"`
	Author        string    `json:"author"`
	Body          string    `json:"blog_body"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Clone returns a copy of the item that shares no state with the receiver.
func (i *Item) Clone() *Item {
	c := *i
	return &c
}

// MarshalJSON renders PublishedDate as a plain YYYY-MM-DD date.
func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		alias
		PublishedDate string `json:"published_date"`
	}{
		alias:         alias(i),
		PublishedDate: i.PublishedDate.Format(DateLayout),
	})
}

// UnmarshalJSON accepts published_date as either a date or an RFC 3339 timestamp.
func (i *Item) UnmarshalJSON(data []byte) error {
	type alias Item
	aux := struct {
		*alias
		PublishedDate string `json:"published_date"`
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.PublishedDate == "" {
		i.PublishedDate = time.Time{}
		return nil
	}
	d, err := ParseDate(aux.PublishedDate)
	if err != nil {
		return err
	}
	i.PublishedDate = d
	return nil
}

// ItemFilter narrows a repository list query.
type ItemFilter struct {
	// PublishedOnly restricts results to items with IsPublished set.
	PublishedOnly bool
}

// Matches reports whether item passes the filter.
func (f ItemFilter) Matches(item *Item) bool {
	if f.PublishedOnly && !item.IsPublished {
		return false
	}
	return true
}

// Less orders items newest first: PublishedDate DESC, CreatedAt DESC, then ID ASC.
// Repositories must return lists in this order.
func Less(a, b *Item) bool {
	if !a.PublishedDate.Equal(b.PublishedDate) {
		return a.PublishedDate.After(b.PublishedDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// TruncateToDate drops the clock part of t, keeping the calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a published date in DateLayout, falling back to RFC 3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateToDate(t), nil
}
