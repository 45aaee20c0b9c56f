package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"groupgate/impl/core"
)

// generate issues a new one-time activation code for the admin to hand out.
func (t *TgBot) generate(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(ctx) {
		t.plainResponse(chatId, "You're not authorized to generate codes\\.")
		return nil
	}

	code, err := t.core.GenerateCode(chatId)
	if err != nil {
		t.reportError(chatId, "/generate", err)
		return nil
	}

	t.plainResponse(chatId, fmt.Sprintf("Your one\\-time activation code is: `%s`", Sanitize(code)))
	return nil
}

// listUsers replies with the full activation set, one identifier per line.
func (t *TgBot) listUsers(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(ctx) {
		t.plainResponse(chatId, "Admin access required\\.")
		return nil
	}

	users := t.core.Users()
	if len(users) == 0 {
		t.plainResponse(chatId, "No activated users yet\\.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Activated users* \\(%d total\\):\n", len(users)))
	for _, id := range users {
		sb.WriteString(fmt.Sprintf("`%d`\n", id))
	}

	for _, part := range splitMessage(sb.String(), maxTelegramMessageLen) {
		t.plainResponse(chatId, part)
	}
	return nil
}

// revoke removes a user from the activation set.
func (t *TgBot) revoke(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(ctx) {
		t.plainResponse(chatId, "Admin access required\\.")
		return nil
	}

	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) < 2 {
		t.plainResponse(chatId, "Usage: `/revoke <id>`")
		return nil
	}

	targetId, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		t.plainResponse(chatId, "Invalid user id: "+Sanitize(args[1])+"\nUsage: `/revoke <id>`")
		return nil
	}

	err = t.core.Revoke(targetId)
	if errors.Is(err, core.ErrNotActivated) {
		t.plainResponse(chatId, fmt.Sprintf("User `%d` is not activated\\.", targetId))
		return nil
	}
	if err != nil {
		t.reportError(chatId, "/revoke", err)
		return nil
	}

	t.plainResponse(chatId, fmt.Sprintf("User `%d` revoked\\.", targetId))
	t.setUserCommands(targetId, false)
	return nil
}

// broadcast delivers the message body to every activated user and reports
// the per-recipient outcome back to the admin.
func (t *TgBot) broadcast(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(ctx) {
		t.plainResponse(chatId, "Admin access required\\.")
		return nil
	}

	text := commandBody(ctx.EffectiveMessage.Text)
	report, err := t.core.Broadcast(text, func(userId int64) error {
		// Plain text on purpose: broadcast bodies are not markdown.
		_, sendErr := t.api.SendMessage(userId, text, nil)
		return sendErr
	})
	if errors.Is(err, core.ErrEmptyBroadcast) {
		t.plainResponse(chatId, "Broadcast message is empty\\.\nUsage: `/broadcast <text>`")
		return nil
	}
	if err != nil {
		t.reportError(chatId, "/broadcast", err)
		return nil
	}

	msg := fmt.Sprintf("Broadcast sent to %d users\\.", report.Sent)
	if len(report.Failed) > 0 {
		ids := make([]string, len(report.Failed))
		for i, id := range report.Failed {
			ids[i] = strconv.FormatInt(id, 10)
		}
		msg += fmt.Sprintf("\nFailed \\(%d\\): `%s`", len(report.Failed), strings.Join(ids, ", "))
	}
	t.plainResponse(chatId, msg)
	return nil
}

// commandBody strips the leading /command token, keeping the rest verbatim.
func commandBody(text string) string {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
