package config

import (
	log2 "log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stevenroose/gonfig"

	"github.com/uslng/membergate/db"
	"github.com/uslng/membergate/pkg/log"
)

type Params struct {
	Address         string   `id:"address" short:"a" default:"0.0.0.0:14914" desc:"Listening address of the admin API"`
	Config          string   `id:"config" short:"c" default:"$HOME/.config/membergate" desc:"Membergate configuration directory"`
	BotToken        string   `id:"bot-token" desc:"Telegram bot token"`
	Site            string   `id:"site" desc:"Base URL of the external verify endpoint"`
	Encsec          string   `id:"encsec" desc:"Shared secret forwarded with every verify call"`
	TimeoutMinutes  int64    `id:"timeout-minutes" default:"5" desc:"Minutes a member has to finish the verification"`
	GraceMinutes    int64    `id:"grace-minutes" default:"5" desc:"Extra minutes before the background sweep purges an expired record"`
	SweepSeconds    int64    `id:"sweep-seconds" default:"60" desc:"Interval of the background expiry sweep"`
	SuperAdmins     []string `id:"super-admins" desc:"Globally configured super-admin user IDs"`
	ExtraAdmins     []string `id:"extra-admins" desc:"Additional admin user IDs for this deployment"`
	TimeoutAdmin    string   `id:"timeout-admin" desc:"User ID mentioned when a verification times out"`
	OverridePhrase  string   `id:"override-phrase" default:"强制通过" desc:"Phrase an admin sends to force-pass a user"`
	ApiToken        string   `id:"api-token" desc:"Token required by the admin web API"`
	LogLevel        string   `id:"log-level" default:"info" desc:"Optional values: trace, debug, info, warn or error"`
	LogFile         string   `id:"log-file" desc:"The path of log file"`
	LogMaxDays      int64    `id:"log-max-days" default:"3" desc:"Maximum number of days to keep log files"`
	LogDisableColor bool     `id:"log-disable-color"`
}

var params Params

func initFunc() {
	err := gonfig.Load(&params, gonfig.Conf{
		FileDisable:       true,
		FlagIgnoreUnknown: false,
		EnvPrefix:         "GATE_",
	})
	if err != nil {
		if err.Error() != "unexpected word while parsing flags: '-test.v'" {
			log2.Fatal(err)
		}
	}
	// replace all dots of the filename with underlines
	params.Config = filepath.Join(
		filepath.Dir(params.Config),
		strings.ReplaceAll(filepath.Base(params.Config), ".", "_"),
	)
	if strings.Contains(params.Config, "$HOME") {
		if h, err := os.UserHomeDir(); err == nil {
			params.Config = strings.ReplaceAll(params.Config, "$HOME", h)
		}
	}
	if err := os.MkdirAll(params.Config, 0700); err != nil {
		log2.Fatal(err)
	}
	logWay := "console"
	if params.LogFile != "" {
		logWay = "file"
	}
	log.InitLog(logWay, params.LogFile, params.LogLevel, params.LogMaxDays, params.LogDisableColor)
	db.InitDB(params.Config)
}

var once sync.Once

func GetConfig() *Params {
	once.Do(initFunc)
	return &params
}
