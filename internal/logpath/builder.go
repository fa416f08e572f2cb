package logpath

import (
	"fmt"
	"path/filepath"
	"time"

	"go-panopticon/internal/models"
)

const (
	dateLayout = "2006-01-02"
	dmDir      = "DM"
	auditDir   = "AUDIT"
)

// Builder maps events to log file paths under a fixed root. Paths depend only
// on the event and the root.
type Builder struct {
	root string
}

func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// MessagePath returns the daily log file for a chat message. The date is the
// UTC calendar day of the edit time if the message was edited, else of its
// creation time. ok is false for channel kinds that are not logged.
func (b *Builder) MessagePath(msg *models.Message) (path string, ok bool) {
	if msg == nil {
		return "", false
	}
	file := dateFile(msg.EffectiveTime())

	switch msg.Channel.Kind {
	case models.ChannelGuildText:
		if msg.Guild == nil {
			return "", false
		}
		return filepath.Join(b.root,
			bucket(msg.Guild.Name, msg.Guild.ID),
			"#"+bucket(msg.Channel.Name, msg.Channel.ID),
			file), true

	case models.ChannelDM:
		peer := msg.Channel.Peer
		if peer == nil {
			return "", false
		}
		return filepath.Join(b.root, dmDir, bucket(peer.Name, peer.ID), file), true

	case models.ChannelGroup:
		return filepath.Join(b.root, dmDir, bucket(msg.Channel.Name, msg.Channel.ID), file), true
	}

	return "", false
}

// AuditPath returns the daily audit log for a membership or connectivity
// event. Guild added/removed events go to the root AUDIT bucket since they
// happen outside guild membership; the rest go under the guild's own bucket.
func (b *Builder) AuditPath(kind models.EventKind, guild *models.Guild, at time.Time) (path string, ok bool) {
	file := dateFile(at)

	switch kind {
	case models.EventGuildAdded, models.EventGuildRemoved:
		return filepath.Join(b.root, auditDir, file), true

	case models.EventMemberBan, models.EventMemberUnban,
		models.EventGuildAvailable, models.EventGuildUnavailable:
		if guild == nil {
			return "", false
		}
		return filepath.Join(b.root, bucket(guild.Name, guild.ID), auditDir, file), true
	}

	return "", false
}

// EventPath dispatches to MessagePath or AuditPath by event kind.
func (b *Builder) EventPath(ev *models.Event) (string, bool) {
	switch {
	case ev.Kind == models.EventMessage || ev.Kind == models.EventMessageEdit:
		return b.MessagePath(ev.Message)
	case ev.Kind.IsAudit():
		return b.AuditPath(ev.Kind, ev.Guild, ev.Time)
	}
	return "", false
}

func bucket(name string, id uint64) string {
	return fmt.Sprintf("%s-%d", Sanitize(name), id)
}

func dateFile(t time.Time) string {
	return t.UTC().Format(dateLayout) + ".log"
}
