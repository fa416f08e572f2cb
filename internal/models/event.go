package models

import "time"

type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventMessage
	EventMessageEdit
	EventMemberBan
	EventMemberUnban
	EventGuildAvailable
	EventGuildUnavailable
	EventGuildAdded
	EventGuildRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "on_message"
	case EventMessageEdit:
		return "on_message_edit"
	case EventMemberBan:
		return "on_member_ban"
	case EventMemberUnban:
		return "on_member_unban"
	case EventGuildAvailable:
		return "on_guild_available"
	case EventGuildUnavailable:
		return "on_guild_unavailable"
	case EventGuildAdded:
		return "on_guild_add"
	case EventGuildRemoved:
		return "on_guild_remove"
	default:
		return "unknown"
	}
}

// IsAudit reports whether the kind is logged as an audit record rather than a chat message.
func (k EventKind) IsAudit() bool {
	return k >= EventMemberBan && k <= EventGuildRemoved
}

// Event is one decoded gateway event. Message events carry Message; ban
// events carry Guild and User; guild events carry Guild only.
type Event struct {
	Kind    EventKind
	Time    time.Time
	Message *Message
	Guild   *Guild
	User    *User
}

func NewMessageEvent(msg *Message) Event {
	kind := EventMessage
	if msg.Edited() {
		kind = EventMessageEdit
	}
	return Event{Kind: kind, Time: msg.EffectiveTime(), Message: msg}
}

func NewBanEvent(kind EventKind, guild *Guild, user *User, at time.Time) Event {
	return Event{Kind: kind, Time: at, Guild: guild, User: user}
}

func NewGuildEvent(kind EventKind, guild *Guild, at time.Time) Event {
	return Event{Kind: kind, Time: at, Guild: guild}
}

// GuildID returns the guild the event belongs to. Direct and group messages
// have none.
func (e *Event) GuildID() (uint64, bool) {
	if e.Message != nil {
		if e.Message.Guild == nil {
			return 0, false
		}
		return e.Message.Guild.ID, true
	}
	if e.Guild != nil {
		return e.Guild.ID, true
	}
	return 0, false
}
