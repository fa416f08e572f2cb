package record

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"go-panopticon/internal/models"
)

var (
	created = time.Date(2024, 3, 9, 21, 30, 0, 0, time.UTC)
	edited  = time.Date(2024, 3, 9, 22, 15, 45, 0, time.UTC)
)

func sampleMessage() *models.Message {
	return &models.Message{
		ID:        1,
		Guild:     &models.Guild{ID: 100, Name: "guild"},
		Channel:   models.Channel{Kind: models.ChannelGuildText, ID: 200, Name: "general"},
		Author:    models.User{ID: 7, Name: "alice", Discriminator: "0001"},
		Content:   "hello world",
		CreatedAt: created,
	}
}

func TestEncodeID(t *testing.T) {
	tests := []struct {
		id   uint64
		want string
	}{
		{0, "AAAAAAAAAAA="},
		{1, "AQAAAAAAAAA="},
		{0x0102030405060708, "CAcGBQQDAgE="},
	}
	for _, tt := range tests {
		if got := EncodeID(tt.id); got != tt.want {
			t.Errorf("EncodeID(%#x) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestEncodeIDLittleEndian(t *testing.T) {
	raw, err := base64.StdEncoding.DecodeString(EncodeID(1))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x01, 0, 0, 0, 0, 0, 0, 0}
	if string(raw) != string(want) {
		t.Errorf("decoded bytes % x, want % x", raw, want)
	}
}

func TestMessage(t *testing.T) {
	f := NewFormatter(false)

	got := f.Message(sampleMessage())
	want := "[AQAAAAAAAAA=] [21:30:00] <alice#0001> hello world "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMessageEdited(t *testing.T) {
	f := NewFormatter(false)
	msg := sampleMessage()
	msg.EditedAt = &edited

	got := f.Message(msg)
	if !strings.HasPrefix(got, "[E:AQAAAAAAAAA=] [22:15:45] ") {
		t.Errorf("edited record should carry E: and the edit time, got %q", got)
	}
}

func TestMessageMultiline(t *testing.T) {
	f := NewFormatter(false)
	msg := sampleMessage()
	msg.Content = "first\nsecond\nthird"

	lines := strings.Split(f.Message(msg), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 physical lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasSuffix(lines[0], "> first") {
		t.Errorf("primary line = %q", lines[0])
	}
	if lines[1] != "(newline) second" {
		t.Errorf("continuation = %q", lines[1])
	}

	// Dropping the markers recovers the original content.
	body := strings.TrimPrefix(lines[0], "[AQAAAAAAAAA=] [21:30:00] <alice#0001> ")
	for _, l := range lines[1:] {
		body += "\n" + strings.TrimPrefix(l, "(newline) ")
	}
	if body != msg.Content+" " {
		t.Errorf("recovered %q, want %q", body, msg.Content+" ")
	}
}

func TestMessageAttachments(t *testing.T) {
	f := NewFormatter(false)
	msg := sampleMessage()
	msg.Attachments = []models.Attachment{
		{URL: "https://cdn.example.com/a.png"},
		{URL: "https://cdn.example.com/b.txt"},
	}

	lines := strings.Split(f.Message(msg), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected primary line plus 2 attachment lines, got %q", lines)
	}
	if lines[1] != "(attach) https://cdn.example.com/a.png" {
		t.Errorf("first attachment line = %q", lines[1])
	}
	if lines[2] != "(attach) https://cdn.example.com/b.txt" {
		t.Errorf("second attachment line = %q", lines[2])
	}
}

func TestMessageLocaltime(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*3600)
	f := NewFormatterIn(zone)

	got := f.Message(sampleMessage())
	if !strings.Contains(got, "[06:30:00]") {
		t.Errorf("expected clock converted to UTC+9, got %q", got)
	}
}

func TestBan(t *testing.T) {
	f := NewFormatter(false)
	user := &models.User{ID: 123456789012345678, Name: "mallory", Discriminator: "6666"}

	tests := []struct {
		kind models.EventKind
		want string
	}{
		{models.EventMemberBan, "[21:30:00] [BAN] <User:mallory#6666>(ID:123456789012345678)"},
		{models.EventMemberUnban, "[21:30:00] [UNBAN] <User:mallory#6666>(ID:123456789012345678)"},
	}
	for _, tt := range tests {
		got, ok := f.Ban(tt.kind, user, created)
		if !ok || got != tt.want {
			t.Errorf("%s: got %q (%v), want %q", tt.kind, got, ok, tt.want)
		}
	}

	if got, ok := f.Ban(models.EventGuildAdded, user, created); ok {
		t.Errorf("non-ban kind produced %q", got)
	}
	if got, ok := f.Ban(models.EventMemberBan, nil, created); ok {
		t.Errorf("missing user produced %q", got)
	}
}

func TestGuild(t *testing.T) {
	f := NewFormatter(false)
	guild := &models.Guild{ID: 42, Name: "The Guild"}

	tests := []struct {
		kind models.EventKind
		tag  string
	}{
		{models.EventGuildAvailable, "[GUILD ONLINE]"},
		{models.EventGuildUnavailable, "[GUILD OFFLINE]"},
		{models.EventGuildAdded, "[GUILD ADDED]"},
		{models.EventGuildRemoved, "[GUILD REMOVED/BANNED]"},
	}
	for _, tt := range tests {
		got, ok := f.Guild(tt.kind, guild, created)
		want := "[21:30:00] " + tt.tag + " <Guild:The Guild>(ID:42)"
		if !ok || got != want {
			t.Errorf("%s: got %q (%v), want %q", tt.kind, got, ok, want)
		}
	}

	if got, ok := f.Guild(models.EventMemberBan, guild, created); ok {
		t.Errorf("non-guild kind produced %q", got)
	}
}

func TestEvent(t *testing.T) {
	f := NewFormatter(false)

	msgEv := models.NewMessageEvent(sampleMessage())
	if got, ok := f.Event(&msgEv); !ok || got != f.Message(sampleMessage()) {
		t.Errorf("message event: got %q (%v)", got, ok)
	}

	banEv := models.NewBanEvent(models.EventMemberBan, &models.Guild{ID: 1}, &models.User{ID: 2, Name: "u", Discriminator: "0"}, created)
	if got, ok := f.Event(&banEv); !ok || !strings.Contains(got, "[BAN]") {
		t.Errorf("ban event: got %q (%v)", got, ok)
	}

	for _, ev := range []models.Event{
		{Kind: models.EventUnknown},
		{Kind: models.EventMessage},
		{Kind: models.EventGuildAdded},
	} {
		if got, ok := f.Event(&ev); ok {
			t.Errorf("%s with missing fields produced %q", ev.Kind, got)
		}
	}
}
