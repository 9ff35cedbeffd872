package models

import (
	"time"
)

const (
	MessageTypeSystem        = "system"
	MessageTypePledgeCreated = "pledge_created"
)

// Message is what live-feed subscribers of a fundraiser receive.
type Message struct {
	Type         string    `json:"type"`
	FundraiserID uint      `json:"fundraiser"`
	Content      string    `json:"content,omitempty"`
	Pledge       *Pledge   `json:"pledge,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewPledgeMessage announces a new pledge. The pledge is rendered for the
// anonymous viewer since the feed is public.
func NewPledgeMessage(p Pledge, fundraiserOwnerID uint) Message {
	public := p.VisibleTo(0, fundraiserOwnerID)
	return Message{
		Type:         MessageTypePledgeCreated,
		FundraiserID: p.FundraiserID,
		Pledge:       &public,
		Timestamp:    time.Now(),
	}
}

func NewSystemMessage(fundraiserID uint, content string) Message {
	return Message{
		Type:         MessageTypeSystem,
		FundraiserID: fundraiserID,
		Content:      content,
		Timestamp:    time.Now(),
	}
}
