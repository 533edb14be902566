package model

import "time"

// Message is one chat message between two users.
type Message struct {
	ID        int64     `json:"id"`
	Sender    int64     `json:"sender"`
	Receiver  int64     `json:"receiver"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (m Message) Key() int64 { return m.ID }

// Conversation is a row of the inbox: the latest message exchanged with a user.
type Conversation struct {
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	LastMessage string    `json:"last_message"`
	Timestamp   time.Time `json:"timestamp"`
}

func (c Conversation) Key() int64 { return c.UserID }
