package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port string }
type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

// IPSCfg carries the fixed recipient identity encoded into every QR
// record for this deployment.
type IPSCfg struct {
	RecipientAccount string
	RecipientName    string
}

type SecurityCfg struct {
	AdminToken string // guards the verify/sweep admin APIs
}

type SweepCfg struct {
	Every time.Duration
}

type Cfg struct {
	App   AppCfg
	DB    DBCfg
	Redis RedisCfg
	IPS   IPSCfg
	Sec   SecurityCfg
	Sweep SweepCfg
}

func Load() Cfg {
	// .env is optional; process env wins.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "sandbox")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("SWEEP_EVERY", "1m")

	cfg := Cfg{
		App: AppCfg{
			Env:  viper.GetString("APP_ENV"),
			Port: viper.GetString("APP_PORT"),
		},
		DB:    DBCfg{DSN: viper.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: viper.GetString("REDIS_ADDR")},
		IPS: IPSCfg{
			RecipientAccount: strings.TrimSpace(viper.GetString("IPS_RECIPIENT_ACCOUNT")),
			RecipientName:    strings.TrimSpace(viper.GetString("IPS_RECIPIENT_NAME")),
		},
		Sec: SecurityCfg{
			AdminToken: strings.TrimSpace(viper.GetString("ADMIN_TOKEN")),
		},
		Sweep: SweepCfg{Every: viper.GetDuration("SWEEP_EVERY")},
	}

	// Fail fast on required settings
	if cfg.DB.DSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}
	if cfg.IPS.RecipientAccount == "" || cfg.IPS.RecipientName == "" {
		log.Fatal().Msg("IPS_RECIPIENT_ACCOUNT and IPS_RECIPIENT_NAME are required")
	}
	if cfg.Sec.AdminToken == "" {
		log.Fatal().Msg("ADMIN_TOKEN is required")
	}

	return cfg
}
