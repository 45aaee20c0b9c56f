// Package bot implements the Telegram transport for the group gate.
//
// Architecture overview:
//   - tgbot.go    — TgBot struct, lifecycle (Start/Stop), Core interface
//   - commands.go — User commands: /start, /help, /myid, /getlink, free-text codes
//   - admin.go    — Admin commands: /generate, /list_users, /revoke, /broadcast
//   - invite.go   — InviteIssuer backed by the group invite-link API
//   - menus.go    — Command menus via Telegram's BotCommandScope API
//   - helpers.go  — Sanitize, plainResponse, reportError, splitMessage
//
// The bot is a thin adapter: it parses inbound updates, checks authorization
// via the auth service, and delegates every state decision to the Core. All
// replies land in the same private chat the request came from.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"

	"groupgate/entity"
	"groupgate/impl/auth"
	"groupgate/lib/sl"
)

// BotConfig holds the Telegram-specific settings the bot needs at runtime.
type BotConfig struct {
	GroupId      int64
	AdminId      int64  // receives error notifications; 0 disables them
	AdminContact string // shown to unactivated users asking for a code
	InviteTTL    time.Duration
}

// Core defines the activation operations the bot depends on.
// Implemented by impl/core.
type Core interface {
	IsActivated(userId int64) bool
	Redeem(userId int64, text string) error
	Invite(ctx context.Context) (string, error)
	GenerateCode(createdBy int64) (string, error)
	Users() []int64
	Revoke(userId int64) error
	Broadcast(text string, deliver func(userId int64) error) (entity.BroadcastReport, error)
}

type TgBot struct {
	log     *slog.Logger
	api     *tgbotapi.Bot
	core    Core
	auth    *auth.Service
	updater *ext.Updater
	config  BotConfig
}

func NewTgBot(apiKey string, core Core, authSvc *auth.Service, log *slog.Logger, cfg BotConfig) (*TgBot, error) {
	if cfg.InviteTTL == 0 {
		cfg.InviteTTL = 10 * time.Second
	}

	tgBot := &TgBot{
		log:    log.With(sl.Module("tgbot")),
		core:   core,
		auth:   authSvc,
		config: cfg,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update:", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	t.updater = ext.NewUpdater(dispatcher, nil)

	// User commands
	dispatcher.AddHandler(handlers.NewCommand("start", t.start))
	dispatcher.AddHandler(handlers.NewCommand("help", t.help))
	dispatcher.AddHandler(handlers.NewCommand("myid", t.myid))
	dispatcher.AddHandler(handlers.NewCommand("getlink", t.getlink))

	// Admin commands
	dispatcher.AddHandler(handlers.NewCommand("generate", t.generate))
	dispatcher.AddHandler(handlers.NewCommand("list_users", t.listUsers))
	dispatcher.AddHandler(handlers.NewCommand("revoke", t.revoke))
	dispatcher.AddHandler(handlers.NewCommand("broadcast", t.broadcast))

	// Any other private text message is a candidate activation code
	dispatcher.AddHandler(handlers.NewMessage(candidateCode, t.onText))

	t.setDefaultCommands()
	t.setAdminCommands()

	err := t.updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	t.log.Info("bot polling started", slog.String("username", t.api.Username))
	t.updater.Idle()
	return nil
}

func (t *TgBot) Stop() {
	if t.updater != nil {
		t.log.Info("stopping telegram bot")
		t.updater.Stop()
	}
}

// candidateCode matches plain private-chat text that is not a command.
// Group and channel traffic never reaches the activation flow.
func candidateCode(msg *tgbotapi.Message) bool {
	if msg.Text == "" || msg.Chat.Type != "private" {
		return false
	}
	return msg.Text[0] != '/'
}
