package bot

import (
	"go-panopticon/internal/models"
	"go-panopticon/pkg/util"

	"github.com/bwmarrin/discordgo"
)

func convertUser(u *discordgo.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:            util.ParseSnowflake(u.ID),
		Name:          u.Username,
		Discriminator: u.Discriminator,
	}
}

func convertGuild(g *discordgo.Guild) *models.Guild {
	if g == nil {
		return nil
	}
	return &models.Guild{
		ID:   util.ParseSnowflake(g.ID),
		Name: g.Name,
	}
}

func convertChannel(ch *discordgo.Channel) models.Channel {
	c := models.Channel{
		ID:   util.ParseSnowflake(ch.ID),
		Name: ch.Name,
	}

	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		c.Kind = models.ChannelGuildText
	case discordgo.ChannelTypeDM:
		c.Kind = models.ChannelDM
		if len(ch.Recipients) > 0 {
			c.Peer = convertUser(ch.Recipients[0])
		}
	case discordgo.ChannelTypeGroupDM:
		c.Kind = models.ChannelGroup
	default:
		c.Kind = models.ChannelUnknown
	}

	return c
}

// buildMessage converts a gateway message. guild may be nil for direct
// messages; content is the mention-resolved text. ok is false when the
// message lacks an author or channel and cannot be recorded at all.
func buildMessage(m *discordgo.Message, ch *discordgo.Channel, guild *discordgo.Guild, content string) (*models.Message, bool) {
	if m == nil || m.Author == nil || ch == nil {
		return nil, false
	}

	msg := &models.Message{
		ID:        util.ParseSnowflake(m.ID),
		Channel:   convertChannel(ch),
		Author:    *convertUser(m.Author),
		Content:   content,
		CreatedAt: m.Timestamp,
	}

	if m.GuildID != "" || guild != nil {
		msg.Guild = convertGuild(guild)
		if msg.Guild == nil {
			msg.Guild = &models.Guild{ID: util.ParseSnowflake(m.GuildID)}
		}
	}

	if m.EditedTimestamp != nil {
		edited := *m.EditedTimestamp
		msg.EditedAt = &edited
	}

	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		msg.Attachments = append(msg.Attachments, models.Attachment{URL: a.URL})
	}

	return msg, true
}

// mergeEdit fills fields a partial update omits from the cached message.
// The update itself is left untouched.
func mergeEdit(update, before *discordgo.Message) *discordgo.Message {
	merged := *update
	if before == nil {
		return &merged
	}

	if merged.Author == nil {
		merged.Author = before.Author
	}
	if merged.Timestamp.IsZero() {
		merged.Timestamp = before.Timestamp
	}
	if merged.GuildID == "" {
		merged.GuildID = before.GuildID
	}
	if merged.Attachments == nil {
		merged.Attachments = before.Attachments
	}
	if merged.Mentions == nil {
		merged.Mentions = before.Mentions
	}
	return &merged
}
