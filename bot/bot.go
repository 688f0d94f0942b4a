package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tb "gopkg.in/tucnak/telebot.v2"

	"github.com/uslng/membergate/common"
	"github.com/uslng/membergate/model"
	"github.com/uslng/membergate/verification"
)

// Bot is the platform adapter: it turns telebot updates into the typed
// events the verification engine consumes, and renders the engine's
// segment messages back to the chat.
type Bot struct {
	Bot  *tb.Bot
	gate *verification.Engine
}

type CommandHandler func(b *Bot, m *tb.Message, params []string)

var GlobalCommandMapper = make(map[string]CommandHandler)

func RegisterCommands(command string, f CommandHandler) {
	GlobalCommandMapper[command] = f
}

func New(token string, poller *tb.LongPoller) (*Bot, error) {
	if poller == nil {
		poller = &tb.LongPoller{Timeout: 15 * time.Second}
	}
	b, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: poller,
	})
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot: b,
	}
	b.Handle(tb.OnUserJoined, bot.handleUserJoined)
	b.Handle(tb.OnText, bot.handleText)
	return bot, nil
}

// Bind attaches the engine. Must be called before Start.
func (b *Bot) Bind(gate *verification.Engine) {
	b.gate = gate
}

func (b *Bot) Gate() *verification.Engine {
	return b.gate
}

func (b *Bot) Start() {
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

func (b *Bot) SelfID() string {
	if b.Bot.Me == nil {
		return ""
	}
	return strconv.FormatInt(b.Bot.Me.ID, 10)
}

// GroupIdentifier is the opaque identifier the web API uses for a chat.
func (b *Bot) GroupIdentifier(c *tb.Chat) string {
	return common.StringToUUID5(groupID(c))
}

func (b *Bot) handleUserJoined(m *tb.Message) {
	if b.gate == nil || m.UserJoined == nil || m.Chat == nil {
		return
	}
	b.gate.OnMemberJoined(groupID(m.Chat), strconv.FormatInt(m.UserJoined.ID, 10), b.SelfID())
}

func (b *Bot) handleText(m *tb.Message) {
	if b.gate == nil || m.Chat == nil || m.Sender == nil {
		return
	}
	if m.Chat.Type != tb.ChatGroup && m.Chat.Type != tb.ChatSuperGroup {
		return
	}
	if strings.HasPrefix(m.Text, "/") && len(m.Text) > 1 {
		fields := strings.Fields(strings.TrimPrefix(m.Text, "/"))
		if handler, ok := GlobalCommandMapper[fields[0]]; ok {
			handler(b, m, fields[1:])
			return
		}
	}
	senderID := strconv.FormatInt(m.Sender.ID, 10)
	b.gate.OnGroupMessage(groupID(m.Chat), senderID, m.Text, MentionedIDs(m), b.gate.IsAdmin(senderID))
}

// MentionedIDs collects the user IDs referenced by text mentions.
// Plain @username mentions carry no ID and are skipped.
func MentionedIDs(m *tb.Message) []string {
	var ids []string
	for _, e := range m.Entities {
		if e.Type == tb.EntityTMention && e.User != nil {
			ids = append(ids, strconv.FormatInt(e.User.ID, 10))
		}
	}
	return ids
}

// SendToGroup implements verification.Sender.
func (b *Bot) SendToGroup(group string, segments []model.Segment) error {
	id, err := strconv.ParseInt(group, 10, 64)
	if err != nil {
		return fmt.Errorf("bad group id %v: %w", group, err)
	}
	var sb strings.Builder
	for _, s := range segments {
		if s.IsMention() {
			fmt.Fprintf(&sb, "[@%v](tg://user?id=%v)", s.MentionID, s.MentionID)
		} else {
			sb.WriteString(s.Text)
		}
	}
	_, err = b.Bot.Send(tb.ChatID(id), sb.String(), &tb.SendOptions{
		ParseMode:             tb.ModeMarkdown,
		DisableWebPagePreview: true,
	})
	return err
}

func groupID(c *tb.Chat) string {
	return strconv.FormatInt(c.ID, 10)
}
