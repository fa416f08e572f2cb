package models

import "time"

type ChannelKind uint8

const (
	ChannelUnknown ChannelKind = iota
	ChannelGuildText
	ChannelDM
	ChannelGroup
)

type User struct {
	ID            uint64
	Name          string
	Discriminator string
}

type Guild struct {
	ID   uint64
	Name string
}

// Channel identifies where a message was posted. Peer is set for direct
// message channels only.
type Channel struct {
	Kind ChannelKind
	ID   uint64
	Name string
	Peer *User
}

type Attachment struct {
	URL string
}

type Message struct {
	ID          uint64
	Channel     Channel
	Guild       *Guild
	Author      User
	Content     string
	Attachments []Attachment
	CreatedAt   time.Time
	EditedAt    *time.Time
}

func (m *Message) Edited() bool {
	return m.EditedAt != nil
}

// EffectiveTime is the edit time when present, otherwise the creation time.
func (m *Message) EffectiveTime() time.Time {
	if m.EditedAt != nil {
		return *m.EditedAt
	}
	return m.CreatedAt
}
