package model

import (
	"encoding/json"
	"time"
)

// News is a label news article.
type News struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Excerpt     *string   `gorm:"column:excerpt;type:text" json:"excerpt"`
	Content     string    `gorm:"column:content;type:text;not null" json:"content"`
	ImageURL    *string   `gorm:"column:imageUrl;type:text" json:"imageUrl"`
	PublishedAt time.Time `gorm:"column:publishedAt;not null;index" json:"publishedAt"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (News) TableName() string { return "news" }

// NewsInput carries article fields from a write request; see ReleaseInput.
// The publish date is read from "publishedAt" or its alias "publishDate".
type NewsInput struct {
	Title       *string `json:"title"`
	Excerpt     *string `json:"excerpt"`
	Content     *string `json:"content"`
	ImageURL    *string `json:"imageUrl"`
	PublishedAt *string `json:"publishedAt"`
}

func (in *NewsInput) UnmarshalJSON(data []byte) error {
	type plain NewsInput
	var aux struct {
		plain
		PublishDate *string `json:"publishDate"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*in = NewsInput(aux.plain)
	if in.PublishedAt == nil {
		in.PublishedAt = aux.PublishDate
	}
	return nil
}

// ValidateCreate requires title and content.
func (in NewsInput) ValidateCreate() error {
	return in.validate(true)
}

// ValidatePatch checks only the fields that are present.
func (in NewsInput) ValidatePatch() error {
	return in.validate(false)
}

func (in NewsInput) validate(create bool) error {
	var fe fieldErrors
	fe.requireText("title", in.Title, create)
	fe.requireText("content", in.Content, create)
	if in.PublishedAt != nil {
		if _, err := ParseDate(*in.PublishedAt); err != nil {
			fe.invalidf("publishedAt")
		}
	}
	return fe.err()
}

// ToNews builds the row to insert; an absent publish date becomes now.
func (in NewsInput) ToNews(now time.Time) *News {
	n := &News{
		Excerpt:     in.Excerpt,
		ImageURL:    in.ImageURL,
		PublishedAt: now,
	}
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.PublishedAt != nil {
		if t, err := ParseDate(*in.PublishedAt); err == nil {
			n.PublishedAt = t
		}
	}
	return n
}

// Updates maps the present fields to their columns.
func (in NewsInput) Updates() map[string]interface{} {
	u := map[string]interface{}{}
	if in.Title != nil {
		u["title"] = *in.Title
	}
	if in.Excerpt != nil {
		u["excerpt"] = *in.Excerpt
	}
	if in.Content != nil {
		u["content"] = *in.Content
	}
	if in.ImageURL != nil {
		u["imageUrl"] = *in.ImageURL
	}
	if in.PublishedAt != nil {
		if t, err := ParseDate(*in.PublishedAt); err == nil {
			u["publishedAt"] = t
		}
	}
	return u
}
