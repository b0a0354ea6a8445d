// Package fraud estimates how likely a user action is spam, fraud or automation.
// Three additive heuristics (content patterns, activity volume, bot behavior)
// are summed and clamped into a risk score
package fraud

import "time"

// Action names the kind of user action being checked
type Action string

// Known actions
const (
	ActionCreatePost Action = "create_post"
	ActionComment    Action = "comment"
	ActionReact      Action = "react"
	ActionFollow     Action = "follow"
)

// Valid reports whether a is a known action
func (a Action) Valid() bool {
	switch a {
	case ActionCreatePost, ActionComment, ActionReact, ActionFollow:
		return true
	}
	return false
}

// Reason labels, emitted in check order
const (
	ReasonRapidPosting    = "rapid posting"
	ReasonSpamContent     = "spam-like content"
	ReasonSuspiciousLinks = "suspicious links"
	ReasonUnusualTime     = "unusual activity time"
	ReasonExcessive       = "excessive activity"
	ReasonRepetitive      = "repetitive content pattern"
	ReasonAutomatedTiming = "automated timing pattern"
	ReasonAnalysisFailed  = "analysis failed"
)

// Payload is the action-specific body. Implementations are the *Payload types below
type Payload interface {
	Action() Action
	// Text is the user-authored text, empty when the action carries none
	Text() string
	// LinkList is the explicit outbound links attached to the action
	LinkList() []string
}

// PostPayload accompanies create_post
type PostPayload struct {
	Content string   `json:"content"`
	Links   []string `json:"links,omitempty"`
}

func (PostPayload) Action() Action       { return ActionCreatePost }
func (p PostPayload) Text() string       { return p.Content }
func (p PostPayload) LinkList() []string { return p.Links }

// CommentPayload accompanies comment
type CommentPayload struct {
	PostID  string   `json:"post_id"`
	Content string   `json:"content"`
	Links   []string `json:"links,omitempty"`
}

func (CommentPayload) Action() Action       { return ActionComment }
func (p CommentPayload) Text() string       { return p.Content }
func (p CommentPayload) LinkList() []string { return p.Links }

// ReactionPayload accompanies react
type ReactionPayload struct {
	TargetID string `json:"target_id"`
	Kind     string `json:"kind"`
}

func (ReactionPayload) Action() Action     { return ActionReact }
func (ReactionPayload) Text() string       { return "" }
func (ReactionPayload) LinkList() []string { return nil }

// FollowPayload accompanies follow
type FollowPayload struct {
	TargetUserID string `json:"target_user_id"`
}

func (FollowPayload) Action() Action     { return ActionFollow }
func (FollowPayload) Text() string       { return "" }
func (FollowPayload) LinkList() []string { return nil }

// RecentPost is one of the user's recent posts
type RecentPost struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentAction is one of the user's recent actions
type RecentAction struct {
	Action Action    `json:"action"`
	At     time.Time `json:"at"`
}

// History is a bounded, read-only window of a user's recent activity
type History struct {
	RecentPosts   []RecentPost   `json:"recent_posts"`
	RecentActions []RecentAction `json:"recent_actions"`
}

// Signal is the outcome of Detect
type Signal struct {
	IsFraudulent bool     `json:"is_fraudulent"`
	RiskScore    float64  `json:"risk_score"`
	Reasons      []string `json:"reasons"`
	Confidence   float64  `json:"confidence"`
}

// Failed is the signal returned when analysis cannot complete
func Failed() Signal {
	return Signal{IsFraudulent: false, RiskScore: 0, Reasons: []string{ReasonAnalysisFailed}, Confidence: 0}
}
