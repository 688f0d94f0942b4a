package command_handler

import (
	"fmt"
	"strconv"

	tb "gopkg.in/tucnak/telebot.v2"

	"github.com/uslng/membergate/bot"
)

func init() {
	bot.RegisterCommands("pending", Pending)
}

// Pending reports whether a user is pending verification and how much time
// remains. Admin only; the pending set is never revealed to other members.
func Pending(b *bot.Bot, m *tb.Message, params []string) {
	if m.Sender == nil || !b.Gate().IsAdmin(strconv.FormatInt(m.Sender.ID, 10)) {
		return
	}
	targetID := targetUser(m, params)
	if targetID == "" {
		_, _ = b.Bot.Reply(m, "Format:\n/pending @user or /pending <user_id>", tb.Silent, tb.NoPreview)
		return
	}
	groupID := strconv.FormatInt(m.Chat.ID, 10)
	_, remaining, ok := b.Gate().Status(groupID, targetID)
	if !ok {
		_, _ = b.Bot.Reply(m, fmt.Sprintf("User %v is not pending verification", targetID), tb.Silent, tb.NoPreview)
		return
	}
	_, _ = b.Bot.Reply(m,
		fmt.Sprintf("User %v is pending verification, %d min %d s remaining",
			targetID, int(remaining.Minutes()), int(remaining.Seconds())%60),
		tb.Silent, tb.NoPreview)
}
