package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uslng/membergate/bot"
	_ "github.com/uslng/membergate/bot/command_handler"
	"github.com/uslng/membergate/config"
	"github.com/uslng/membergate/pkg/log"
	"github.com/uslng/membergate/service"
	"github.com/uslng/membergate/verification"
	"github.com/uslng/membergate/webserver/router"
)

func main() {
	conf := config.GetConfig()

	b, err := bot.New(conf.BotToken, nil)
	if err != nil {
		log.Fatal("bot: %v", err)
	}

	store := verification.NewStore()
	client := verification.NewClient(conf.Site, conf.Encsec, verification.DefaultVerifyTimeout)
	gate := verification.New(store, client, b, verification.Options{
		Timeout:        time.Duration(conf.TimeoutMinutes) * time.Minute,
		GracePeriod:    time.Duration(conf.GraceMinutes) * time.Minute,
		SweepInterval:  time.Duration(conf.SweepSeconds) * time.Second,
		OverridePhrase: conf.OverridePhrase,
		SuperAdmins:    conf.SuperAdmins,
		ExtraAdmins:    conf.ExtraAdmins,
		TimeoutAdminID: conf.TimeoutAdmin,
		Site:           conf.Site,
		Journal:        service.BoltJournal{},
	})
	b.Bind(gate)
	gate.Start()
	GoBackgrounds()

	go func() {
		if err := router.Run(gate); err != nil {
			log.Fatal("webserver: %v", err)
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		gate.Close()
		b.Stop()
	}()

	b.Start()
}
