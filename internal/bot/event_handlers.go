package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-panopticon/internal/logging"
	"go-panopticon/internal/models"

	"github.com/bwmarrin/discordgo"
)

// EventSink receives converted events in gateway order.
type EventSink interface {
	Submit(ctx context.Context, ev models.Event) error
}

// availability remembers guilds whose next GuildCreate means "came back
// online" rather than "joined": guilds listed in Ready and guilds that went
// through an outage.
type availability struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func newAvailability() *availability {
	return &availability{pending: make(map[string]struct{})}
}

func (a *availability) expect(guildID string) {
	a.mu.Lock()
	a.pending[guildID] = struct{}{}
	a.mu.Unlock()
}

// created classifies a GuildCreate for guildID.
func (a *availability) created(guildID string) models.EventKind {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.pending[guildID]; ok {
		delete(a.pending, guildID)
		return models.EventGuildAvailable
	}
	return models.EventGuildAdded
}

type handlers struct {
	ctx   context.Context
	sink  EventSink
	avail *availability
	now   func() time.Time
}

// SetupEventHandlers registers the gateway handlers. Each handler converts
// its event and hands it to sink; ctx bounds how long a handler may wait on
// a full queue.
func (s *Session) SetupEventHandlers(ctx context.Context, sink EventSink) {
	h := &handlers{
		ctx:   ctx,
		sink:  sink,
		avail: newAvailability(),
		now:   func() time.Time { return time.Now().UTC() },
	}

	s.discord.AddHandler(h.onReady)
	s.discord.AddHandler(h.onMessageCreate)
	s.discord.AddHandler(h.onMessageUpdate)
	s.discord.AddHandler(h.onGuildBanAdd)
	s.discord.AddHandler(h.onGuildBanRemove)
	s.discord.AddHandler(h.onGuildCreate)
	s.discord.AddHandler(h.onGuildDelete)
}

func (h *handlers) submit(ev models.Event) {
	if err := h.sink.Submit(h.ctx, ev); err != nil {
		logging.Error("Event %s not queued: %v", ev.Kind, err)
	}
}

func (h *handlers) onReady(sess *discordgo.Session, r *discordgo.Ready) {
	fmt.Print(readyBanner(r.User))

	for _, g := range r.Guilds {
		h.avail.expect(g.ID)
	}
	logging.Info("Gateway ready, waiting on %d guilds", len(r.Guilds))
}

func readyBanner(u *discordgo.User) string {
	name, id := "", ""
	if u != nil {
		name, id = u.Username, u.ID
	}
	return "Successfully started panopticon\n" +
		"------------\n" +
		"Logged in as:\n" +
		name + "\n" +
		id + "\n" +
		"------------\n"
}

func (h *handlers) onMessageCreate(sess *discordgo.Session, m *discordgo.MessageCreate) {
	h.handleMessage(sess, m.Message)
}

func (h *handlers) onMessageUpdate(sess *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Message == nil || m.EditedTimestamp == nil {
		// Embed unfurls and pins arrive as updates without an edit time.
		return
	}
	h.handleMessage(sess, mergeEdit(m.Message, m.BeforeUpdate))
}

func (h *handlers) handleMessage(sess *discordgo.Session, m *discordgo.Message) {
	ch, err := resolveChannel(sess, m.ChannelID)
	if err != nil {
		logging.Warn("[GAP] Message %s: channel %s unresolved: %v", m.ID, m.ChannelID, err)
		return
	}

	var guild *discordgo.Guild
	if m.GuildID != "" {
		guild = resolveGuild(sess, m.GuildID)
	}

	msg, ok := buildMessage(m, ch, guild, cleanContent(sess, m))
	if !ok {
		logging.Debug("[GAP] Message %s has no author", m.ID)
		return
	}
	h.submit(models.NewMessageEvent(msg))
}

func (h *handlers) onGuildBanAdd(sess *discordgo.Session, b *discordgo.GuildBanAdd) {
	h.handleBan(sess, models.EventMemberBan, b.GuildID, b.User)
}

func (h *handlers) onGuildBanRemove(sess *discordgo.Session, b *discordgo.GuildBanRemove) {
	h.handleBan(sess, models.EventMemberUnban, b.GuildID, b.User)
}

func (h *handlers) handleBan(sess *discordgo.Session, kind models.EventKind, guildID string, user *discordgo.User) {
	if guildID == "" || user == nil {
		return
	}
	guild := convertGuild(resolveGuild(sess, guildID))
	h.submit(models.NewBanEvent(kind, guild, convertUser(user), h.now()))
}

func (h *handlers) onGuildCreate(sess *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	kind := h.avail.created(g.ID)
	h.submit(models.NewGuildEvent(kind, convertGuild(g.Guild), h.now()))
}

func (h *handlers) onGuildDelete(sess *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Guild == nil {
		return
	}

	guild := g.Guild
	if guild.Name == "" && g.BeforeDelete != nil {
		// Outage and removal payloads carry only the id; the cache has the name.
		guild = g.BeforeDelete
	}

	kind := models.EventGuildRemoved
	if g.Unavailable {
		kind = models.EventGuildUnavailable
		h.avail.expect(g.ID)
	}
	h.submit(models.NewGuildEvent(kind, convertGuild(guild), h.now()))
}

func resolveChannel(sess *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	if sess.State != nil {
		if ch, err := sess.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}
	return sess.Channel(channelID)
}

// resolveGuild never fails: without a name the guild is still identified by
// its id, and its records land under "-<id>" until the name is known again.
func resolveGuild(sess *discordgo.Session, guildID string) *discordgo.Guild {
	if sess.State != nil {
		if g, err := sess.State.Guild(guildID); err == nil {
			return g
		}
	}
	if g, err := sess.Guild(guildID); err == nil {
		return g
	}
	logging.Warn("Guild %s not in cache or reachable, logging without name", guildID)
	return &discordgo.Guild{ID: guildID}
}

// cleanContent is the message text with user, role and channel mentions
// replaced by readable names.
func cleanContent(sess *discordgo.Session, m *discordgo.Message) string {
	if content, err := m.ContentWithMoreMentionsReplaced(sess); err == nil {
		return content
	}
	return m.ContentWithMentionsReplaced()
}
