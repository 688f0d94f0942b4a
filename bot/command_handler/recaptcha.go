package command_handler

import (
	"strconv"

	tb "gopkg.in/tucnak/telebot.v2"

	"github.com/uslng/membergate/bot"
)

func init() {
	bot.RegisterCommands("recaptcha", Recaptcha)
}

// Recaptcha re-triggers the verification of a user: new code, fresh window.
func Recaptcha(b *bot.Bot, m *tb.Message, params []string) {
	if m.Sender == nil {
		return
	}
	targetID := targetUser(m, params)
	if targetID == "" {
		_, _ = b.Bot.Reply(m, "Format:\n/recaptcha @user or /recaptcha <user_id>", tb.Silent, tb.NoPreview)
		return
	}
	groupID := strconv.FormatInt(m.Chat.ID, 10)
	if err := b.Gate().Retrigger(strconv.FormatInt(m.Sender.ID, 10), groupID, targetID); err != nil {
		_, _ = b.Bot.Reply(m, err.Error(), tb.Silent, tb.NoPreview)
		return
	}
	// the engine already posted the new challenge to the group
}
