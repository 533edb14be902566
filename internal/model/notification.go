package model

import (
	"strings"
	"time"
)

// TargetKind is what a notification points at.
type TargetKind int

const (
	TargetUnknown TargetKind = iota
	TargetMessage
	TargetContract
	TargetProposal
)

// ParseTargetKind maps the server's target_type tag. Unknown tags are
// TargetUnknown, never an error.
func ParseTargetKind(s string) TargetKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "message":
		return TargetMessage
	case "contract":
		return TargetContract
	case "proposal":
		return TargetProposal
	default:
		return TargetUnknown
	}
}

func (k TargetKind) String() string {
	switch k {
	case TargetMessage:
		return "Message"
	case TargetContract:
		return "Contract"
	case TargetProposal:
		return "Proposal"
	default:
		return "Unknown"
	}
}

// Notification is one entry of the global notification feed.
type Notification struct {
	ID          int64     `json:"id"`
	Actor       int64     `json:"actor"`
	ActorName   string    `json:"actor_name"`
	Verb        string    `json:"verb"`
	Description string    `json:"description"`
	TargetType  string    `json:"target_type"`
	TargetID    int64     `json:"target_id"`
	Unread      bool      `json:"unread"`
	Timestamp   time.Time `json:"timestamp"`
}

func (n Notification) Key() int64 { return n.ID }

// Target returns the parsed target_type.
func (n Notification) Target() TargetKind { return ParseTargetKind(n.TargetType) }
