package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"groupgate/impl/core"
	"groupgate/lib/sl"
)

func (t *TgBot) start(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if !isPrivate(ctx) {
		return nil
	}
	chatId := ctx.EffectiveUser.Id

	if t.core.IsActivated(chatId) {
		t.sendInvite(chatId, "You're already activated\\.")
		return nil
	}

	name := Sanitize(ctx.EffectiveUser.FirstName)
	t.plainResponse(chatId, fmt.Sprintf(
		"Hi, %s\\!\n"+
			"To activate this bot, get your one\\-time code from the admin: %s\n"+
			"Once you have it, send it here to continue\\.",
		name, Sanitize(t.config.AdminContact),
	))
	return nil
}

// onText handles free text in a private chat: a candidate activation code for
// unactivated users, a fresh invite for everyone already activated. Activated
// users never re-validate a code, whatever they send.
func (t *TgBot) onText(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	text := ctx.EffectiveMessage.Text

	err := t.core.Redeem(chatId, text)
	switch {
	case err == nil:
		t.setUserCommands(chatId, true)
		t.sendInvite(chatId, "Activation successful\\!\nYou're now verified to use this bot\\.")
	case errors.Is(err, core.ErrAlreadyActivated):
		t.sendInvite(chatId, "You're already activated\\.")
	case errors.Is(err, core.ErrInvalidCode):
		t.plainResponse(chatId, "Invalid activation code\\.\nPlease contact the admin for a valid one\\.")
	default:
		t.reportError(chatId, "redeem", err)
	}
	return nil
}

func (t *TgBot) getlink(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if !isPrivate(ctx) {
		return nil
	}
	chatId := ctx.EffectiveUser.Id

	if !t.core.IsActivated(chatId) {
		t.plainResponse(chatId, "You're not activated yet\\. Send your one\\-time code first\\.")
		return nil
	}
	t.sendInvite(chatId, "")
	return nil
}

func (t *TgBot) myid(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	t.plainResponse(chatId, fmt.Sprintf("Your id: `%d`", chatId))
	return nil
}

func (t *TgBot) help(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if !isPrivate(ctx) {
		return nil
	}
	chatId := ctx.EffectiveUser.Id
	activated := t.core.IsActivated(chatId)

	var sb strings.Builder
	sb.WriteString("*Available Commands*\n\n")
	sb.WriteString("`/start` \\- Check status or begin activation\n")
	sb.WriteString("`/myid` \\- Show your identifier\n")
	sb.WriteString("`/help` \\- Show this help\n")

	if activated {
		sb.WriteString("\n*Member Commands:*\n")
		sb.WriteString("`/getlink` \\- Get a fresh group invite link\n")
	} else {
		sb.WriteString("\nSend your one\\-time activation code as a plain message\\.\n")
	}

	if t.requireAdmin(ctx) {
		sb.WriteString("\n*Admin Commands:*\n")
		sb.WriteString("`/generate` \\- Issue a new activation code\n")
		sb.WriteString("`/list_users` \\- List activated users\n")
		sb.WriteString("`/revoke <id>` \\- Remove a user's activation\n")
		sb.WriteString("`/broadcast <text>` \\- Message all activated users\n")
	}

	t.plainResponse(chatId, sb.String())
	return nil
}

// sendInvite requests a fresh single-use invite link and replies with it,
// optionally prefixed. An issuance failure is reported in the same chat;
// an already-recorded activation stays in place regardless.
func (t *TgBot) sendInvite(chatId int64, prefix string) {
	link, err := t.core.Invite(context.Background())
	if err != nil {
		t.log.Warn("creating invite link", sl.Err(err))
		msg := "Couldn't create an invite link right now\\. Please try again later\\."
		if prefix != "" {
			msg = prefix + "\n\n" + msg
		}
		t.plainResponse(chatId, msg)
		return
	}

	msg := fmt.Sprintf("Join our group here: %s", Sanitize(link))
	if prefix != "" {
		msg = prefix + "\n\n" + msg
	}
	t.plainResponse(chatId, msg)
}

func isPrivate(ctx *ext.Context) bool {
	return ctx.EffectiveChat != nil && ctx.EffectiveChat.Type == "private"
}
