package command_handler

import (
	tb "gopkg.in/tucnak/telebot.v2"

	"github.com/uslng/membergate/bot"
)

// targetUser resolves the user a command acts on: a text mention wins,
// otherwise the first all-digit parameter.
func targetUser(m *tb.Message, params []string) string {
	if ids := bot.MentionedIDs(m); len(ids) > 0 {
		return ids[0]
	}
	for _, p := range params {
		if isDigits(p) {
			return p
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
