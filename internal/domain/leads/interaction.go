// Package leads defines the core entities of the lead intelligence domain:
// recorded interactions, scored lead profiles, attribution models and the
// aggregate business metrics derived from them.
package leads

import "time"

// InteractionType identifies the kind of UI event a visitor produced.
type InteractionType string

const (
	InteractionClick      InteractionType = "click"
	InteractionScroll     InteractionType = "scroll"
	InteractionHover      InteractionType = "hover"
	InteractionFocus      InteractionType = "focus"
	InteractionFormSubmit InteractionType = "form_submit"
	InteractionPageView   InteractionType = "page_view"
)

// Valid reports whether t is one of the recognized interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionClick, InteractionScroll, InteractionHover,
		InteractionFocus, InteractionFormSubmit, InteractionPageView:
		return true
	}
	return false
}

// UserInteraction is one recorded UI event pushed by the marketing site.
// Interactions are immutable once recorded; they are appended to the
// owning session's state and never independently deleted.
type UserInteraction struct {
	UserID    string          `json:"userId"`
	SessionID string          `json:"sessionId"`
	Timestamp time.Time       `json:"timestamp"`
	Type      InteractionType `json:"type"`
	Element   string          `json:"element"`
	Page      string          `json:"page"`
	Duration  int64           `json:"duration,omitempty"` // milliseconds, optional
	Value     float64         `json:"value,omitempty"`
	X         int             `json:"x,omitempty"`
	Y         int             `json:"y,omitempty"`
}
