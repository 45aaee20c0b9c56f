package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"groupgate/bot"
	"groupgate/impl/auth"
	"groupgate/impl/core"
	"groupgate/impl/registry"
	"groupgate/internal/config"
	"groupgate/internal/database"
	"groupgate/internal/http-server/api"
	"groupgate/lib/logger"
	"groupgate/lib/sl"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/groupgate.log", "path to log file")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, *logPath)
	log.Info("starting groupgate",
		slog.String("env", conf.Env),
		sl.Secret("token", conf.Telegram.Token),
		slog.Int64("group_id", conf.Telegram.GroupId),
	)

	var db core.Database
	if mongoStore := database.NewMongoStore(conf); mongoStore != nil {
		log.Info("using mongodb store", slog.String("database", conf.Mongo.Database))
		db = mongoStore
	} else {
		log.Info("using file store", slog.String("users_file", conf.Storage.UsersFile))
		db = database.NewFileStore(conf, log)
	}

	reg := registry.New(conf.Telegram.CodeFormat, conf.Telegram.CodeLength)
	activation := core.New(db, reg, log)
	authSvc := auth.New(conf.Telegram.AdminId, conf.Telegram.AdminUsername)

	tgBot, err := bot.NewTgBot(conf.Telegram.Token, activation, authSvc, log, bot.BotConfig{
		GroupId:      conf.Telegram.GroupId,
		AdminId:      conf.Telegram.AdminId,
		AdminContact: adminContact(conf),
		InviteTTL:    time.Duration(conf.Telegram.InviteTTLSec) * time.Second,
	})
	if err != nil {
		log.Error("creating bot", sl.Err(err))
		os.Exit(1)
	}
	activation.SetInviteIssuer(tgBot)

	go func() {
		if err := api.New(conf, log, activation); err != nil {
			log.Error("health server stopped", sl.Err(err))
		}
	}()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		tgBot.Stop()
	}()

	if err := tgBot.Start(); err != nil {
		log.Error("bot stopped", sl.Err(err))
		os.Exit(1)
	}
}

// adminContact is what unactivated users are told to reach out to for a code.
func adminContact(conf *config.Config) string {
	if conf.Telegram.AdminUsername != "" {
		return "@" + strings.TrimPrefix(conf.Telegram.AdminUsername, "@")
	}
	return fmt.Sprintf("id %d", conf.Telegram.AdminId)
}
