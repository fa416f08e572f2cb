package bot

import (
	"fmt"

	"go-panopticon/internal/config"
	"go-panopticon/internal/logging"

	"github.com/bwmarrin/discordgo"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildBans | // GUILD_MODERATION (bit 2)
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

type Session struct {
	discord *discordgo.Session
}

// NewSession creates the gateway session without connecting it.
func NewSession(cfg *config.Config) (*Session, error) {
	dg, err := discordgo.New(authToken(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	dg.Identify.Intents = intents
	dg.StateEnabled = true
	dg.State.MaxMessageCount = cfg.MaxMessages
	// Deliver events one at a time in gateway order; handlers only convert
	// and queue, so the event loop is never held by disk I/O.
	dg.SyncEvents = true

	return &Session{discord: dg}, nil
}

func authToken(cfg *config.Config) string {
	if cfg.BotAccount {
		return "Bot " + cfg.Token
	}
	return cfg.Token
}

// Connect opens the Discord websocket connection
func (s *Session) Connect() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if u := s.discord.State.User; u != nil {
		logging.Info("Connected as %s (%s)", u.Username, u.ID)
	}

	return nil
}

// Close closes the Discord connection
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}
