// ABOUTME: Message is a single entry in a support conversation history
// ABOUTME: Histories are ordered, append-only within one turn, never mutated
package models

// UserAuthor is the reserved author name for end-user messages. Responder
// names must never collide with it.
const UserAuthor = "user"

// Message is one conversation entry, authored either by the user or by a
// named responder. Sequence is the entry's position in the history it was
// appended to.
type Message struct {
	Author   string `json:"author"`
	Content  string `json:"content"`
	Sequence int    `json:"sequence"`
}

// IsUser reports whether the message was authored by the end user.
func (m Message) IsUser() bool {
	return m.Author == UserAuthor
}

// Append returns history with a new message appended, assigning the next
// sequence number. The input slice is not shared with the result.
func Append(history []Message, author, content string) []Message {
	out := make([]Message, len(history), len(history)+1)
	copy(out, history)
	return append(out, Message{
		Author:   author,
		Content:  content,
		Sequence: len(history),
	})
}
