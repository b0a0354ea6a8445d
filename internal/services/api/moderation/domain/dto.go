// Package domain holds DTOs for moderation http and service contracts
package domain

import (
	"trustrank/internal/core/fraud"
)

// AnalyzeInput is the text to classify
type AnalyzeInput struct {
	Text string `json:"text" validate:"max=20000" example:"What a wonderful afternoon"`
}

// FraudInput describes one user action to check
type FraudInput struct {
	UserID   string   `json:"user_id" validate:"required,userid,max=128" example:"user-1"`
	Action   string   `json:"action" validate:"required,oneof=create_post comment react follow" example:"create_post"`
	Content  string   `json:"content,omitempty" validate:"max=20000" example:"Click here for free money"`
	Links    []string `json:"links,omitempty" validate:"omitempty,max=50,dive,max=2048"`
	TargetID string   `json:"target_id,omitempty" validate:"max=128" example:"post-42"`
	Kind     string   `json:"kind,omitempty" validate:"max=32" example:"like"`
}

// Payload builds the action-specific fraud payload
func (in FraudInput) Payload() fraud.Payload {
	switch fraud.Action(in.Action) {
	case fraud.ActionComment:
		return fraud.CommentPayload{PostID: in.TargetID, Content: in.Content, Links: in.Links}
	case fraud.ActionReact:
		return fraud.ReactionPayload{TargetID: in.TargetID, Kind: in.Kind}
	case fraud.ActionFollow:
		return fraud.FollowPayload{TargetUserID: in.TargetID}
	default:
		return fraud.PostPayload{Content: in.Content, Links: in.Links}
	}
}

// ModerateInput is a post submission to moderate
type ModerateInput struct {
	UserID  string `json:"user_id" validate:"required,userid,max=128" example:"user-1"`
	Content string `json:"content" validate:"max=20000" example:"Sunset over the bay tonight"`
	PostID  string `json:"post_id,omitempty" validate:"omitempty,uuid" example:"5b1f6c1e-2f43-4a8e-9c59-7c1b2d3e4f50"`
}
