// Package models defines the records exchanged between the storage layer,
// the services and the HTTP API.
package models

import (
	"slices"
	"time"
)

type Prompt struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy, so callers can't mutate stored tags.
func (p *Prompt) Clone() *Prompt {
	c := *p
	c.Tags = cloneTags(p.Tags)
	return &c
}

// NewPrompt is the input of a create operation. ID and CreatedAt are assigned
// by the store.
type NewPrompt struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// PromptPatch is a partial update. Nil fields are left untouched.
type PromptPatch struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Category *string   `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p PromptPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil && p.Tags == nil
}

// Apply merges the supplied fields into a copy of prompt.
func (p PromptPatch) Apply(prompt *Prompt) *Prompt {
	out := prompt.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Tags != nil {
		out.Tags = cloneTags(*p.Tags)
	}
	return out
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return slices.Clone(tags)
}
