package record

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"go-panopticon/internal/models"
)

const (
	clockLayout    = "15:04:05"
	newlineMarker  = "\n(newline) "
	attachmentMark = "\n(attach) "
)

// Formatter renders events as single text records. The display location only
// affects the clock shown in a record, never which file it lands in.
type Formatter struct {
	loc *time.Location
}

// NewFormatter returns a Formatter that prints clock times in the local
// system timezone when useLocaltime is set and in UTC otherwise.
func NewFormatter(useLocaltime bool) *Formatter {
	loc := time.UTC
	if useLocaltime {
		loc = time.Local
	}
	return &Formatter{loc: loc}
}

func NewFormatterIn(loc *time.Location) *Formatter {
	return &Formatter{loc: loc}
}

// EncodeID packs a snowflake into 8 little-endian bytes and base64 encodes
// them, which is shorter than the decimal form.
func EncodeID(id uint64) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], id)
	return base64.StdEncoding.EncodeToString(buf[:])
}

func (f *Formatter) clock(t time.Time) string {
	return "[" + t.In(f.loc).Format(clockLayout) + "]"
}

// Message formats a chat message:
//
//	[id] [21:30:00] <user#0000> hello world
//
// Edited messages are tagged [E:id] and stamped with the edit time.
// Continuation lines for embedded newlines and attachments follow the
// primary line.
func (f *Formatter) Message(msg *models.Message) string {
	id := "[" + EncodeID(msg.ID) + "]"
	if msg.Edited() {
		id = "[E:" + EncodeID(msg.ID) + "]"
	}

	author := fmt.Sprintf("<%s#%s>", msg.Author.Name, msg.Author.Discriminator)
	content := strings.ReplaceAll(msg.Content, "\n", newlineMarker)

	var attachments strings.Builder
	for _, a := range msg.Attachments {
		attachments.WriteString(attachmentMark)
		attachments.WriteString(a.URL)
	}

	return fmt.Sprintf("%s %s %s %s %s",
		id,
		f.clock(msg.EffectiveTime()),
		author,
		content,
		attachments.String(),
	)
}

// Ban formats a member ban or unban:
//
//	[21:30:00] [BAN] <User:user#0000>(ID:0000000000000000)
func (f *Formatter) Ban(kind models.EventKind, user *models.User, at time.Time) (string, bool) {
	var tag string
	switch kind {
	case models.EventMemberBan:
		tag = "[BAN]"
	case models.EventMemberUnban:
		tag = "[UNBAN]"
	default:
		return "", false
	}
	if user == nil {
		return "", false
	}

	member := fmt.Sprintf("<User:%s#%s>(ID:%d)", user.Name, user.Discriminator, user.ID)
	return fmt.Sprintf("%s %s %s", f.clock(at), tag, member), true
}

// Guild formats a guild availability or membership change:
//
//	[21:30:00] [GUILD ONLINE] <Guild:name>(ID:0000000000000000)
func (f *Formatter) Guild(kind models.EventKind, guild *models.Guild, at time.Time) (string, bool) {
	var tag string
	switch kind {
	case models.EventGuildUnavailable:
		tag = "[GUILD OFFLINE]"
	case models.EventGuildAvailable:
		tag = "[GUILD ONLINE]"
	case models.EventGuildRemoved:
		tag = "[GUILD REMOVED/BANNED]"
	case models.EventGuildAdded:
		tag = "[GUILD ADDED]"
	default:
		return "", false
	}
	if guild == nil {
		return "", false
	}

	info := fmt.Sprintf("<Guild:%s>(ID:%d)", guild.Name, guild.ID)
	return fmt.Sprintf("%s %s %s", f.clock(at), tag, info), true
}

// Event formats any supported event. ok is false for kinds without a record
// format or events missing the fields their kind requires.
func (f *Formatter) Event(ev *models.Event) (string, bool) {
	switch ev.Kind {
	case models.EventMessage, models.EventMessageEdit:
		if ev.Message == nil {
			return "", false
		}
		return f.Message(ev.Message), true
	case models.EventMemberBan, models.EventMemberUnban:
		return f.Ban(ev.Kind, ev.User, ev.Time)
	case models.EventGuildAvailable, models.EventGuildUnavailable,
		models.EventGuildAdded, models.EventGuildRemoved:
		return f.Guild(ev.Kind, ev.Guild, ev.Time)
	}
	return "", false
}
