package bot

import (
	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Per-state command lists for Telegram's menu button (the "/" icon in the
// chat input). The default scope covers unactivated users; activated users
// and the admin chat get their own menus via BotCommandScopeChat.

var commandsAnonymous = []tgbotapi.BotCommand{
	{Command: "start", Description: "Check status or begin activation"},
	{Command: "myid", Description: "Show your identifier"},
	{Command: "help", Description: "Show available commands"},
}

var commandsActivated = []tgbotapi.BotCommand{
	{Command: "start", Description: "Check status"},
	{Command: "getlink", Description: "Get a fresh group invite link"},
	{Command: "myid", Description: "Show your identifier"},
	{Command: "help", Description: "Show available commands"},
}

var commandsAdmin = []tgbotapi.BotCommand{
	{Command: "start", Description: "Check status"},
	{Command: "getlink", Description: "Get a fresh group invite link"},
	{Command: "generate", Description: "Issue a new activation code"},
	{Command: "list_users", Description: "List activated users"},
	{Command: "revoke", Description: "Remove a user's activation"},
	{Command: "broadcast", Description: "Message all activated users"},
	{Command: "myid", Description: "Show your identifier"},
	{Command: "help", Description: "Show available commands"},
}

// setDefaultCommands sets the menu unknown users see.
func (t *TgBot) setDefaultCommands() {
	_, err := t.api.SetMyCommands(commandsAnonymous, &tgbotapi.SetMyCommandsOpts{
		Scope: tgbotapi.BotCommandScopeDefault{},
	})
	if err != nil {
		t.log.Warn("setting default commands", "error", err)
	}
}

// setAdminCommands pushes the admin menu to the configured admin chat.
func (t *TgBot) setAdminCommands() {
	if t.config.AdminId == 0 {
		return
	}
	_, err := t.api.SetMyCommands(commandsAdmin, &tgbotapi.SetMyCommandsOpts{
		Scope: tgbotapi.BotCommandScopeChat{ChatId: t.config.AdminId},
	})
	if err != nil {
		t.log.Warn("setting admin commands", "chat_id", t.config.AdminId, "error", err)
	}
}

// setUserCommands switches a user's menu when their activation state changes.
func (t *TgBot) setUserCommands(chatId int64, activated bool) {
	commands := commandsAnonymous
	if activated {
		commands = commandsActivated
	}
	_, err := t.api.SetMyCommands(commands, &tgbotapi.SetMyCommandsOpts{
		Scope: tgbotapi.BotCommandScopeChat{ChatId: chatId},
	})
	if err != nil {
		t.log.Warn("setting user commands", "chat_id", chatId, "error", err)
	}
}
