package models

import "time"

// DeletedPrompt is a trash entry: a full copy of a prompt taken when it was
// moved out of the active set.
type DeletedPrompt struct {
	ID         int       `json:"id"`
	OriginalID int       `json:"originalId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	DeletedAt  time.Time `json:"deletedAt"`
	ExpiryDate time.Time `json:"expiryDate"`
}

// NewDeletedPrompt copies p into a trash entry with the given id.
func NewDeletedPrompt(id int, p *Prompt, now time.Time, retention time.Duration) *DeletedPrompt {
	return &DeletedPrompt{
		ID:         id,
		OriginalID: p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Category:   p.Category,
		Tags:       cloneTags(p.Tags),
		CreatedAt:  p.CreatedAt,
		DeletedAt:  now,
		ExpiryDate: now.Add(retention),
	}
}

func (d *DeletedPrompt) Clone() *DeletedPrompt {
	c := *d
	c.Tags = cloneTags(d.Tags)
	return &c
}

// Expired reports whether the entry is past its expiry date at now.
func (d *DeletedPrompt) Expired(now time.Time) bool {
	return !now.Before(d.ExpiryDate)
}

// AsNewPrompt returns the fields needed to recreate the prompt.
func (d *DeletedPrompt) AsNewPrompt() NewPrompt {
	return NewPrompt{
		Title:    d.Title,
		Content:  d.Content,
		Category: d.Category,
		Tags:     cloneTags(d.Tags),
	}
}
