package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"clubhub/internal/notify"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type NotifyConfig struct {
	Locale             string
	BaseURL            string
	DefaultCountryCode string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("database.master_dsn is required")
	}

	slaveDSNs := cfg.GetStringSlice("database.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("database.conn_max_lifetime_seconds")) * time.Second,
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}

	log.Info().Int("slaves", len(slaveDSNs)).Msg("database config built")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Url == "" {
		return rc, fmt.Errorf("rabbit.url is required")
	}
	if rc.Exchange == "" {
		rc.Exchange = "club.notifications.delayed"
	}
	if rc.Queue == "" {
		rc.Queue = "club.notifications"
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit config built")
	return rc, nil
}

func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) notify.SMTPConfig {
	sc := notify.SMTPConfig{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetInt("smtp.port"),
		Username: cfg.GetString("smtp.username"),
		Password: cfg.GetString("smtp.password"),
		From:     cfg.GetString("smtp.from"),
		FromName: cfg.GetString("smtp.from_name"),
		Enabled:  cfg.GetBool("smtp.enabled"),
	}
	if sc.Port == 0 {
		sc.Port = 587
	}
	if sc.FromName == "" {
		sc.FromName = "Club"
	}
	if sc.Enabled && (sc.Host == "" || sc.From == "") {
		log.Warn().Msg("smtp enabled but host/from missing, disabling transport")
		sc.Enabled = false
	}
	return sc
}

func BuildNotifyConfig(cfg *config.Config, log *zerolog.Logger) NotifyConfig {
	nc := NotifyConfig{
		Locale:             cfg.GetString("notifications.locale"),
		BaseURL:            cfg.GetString("notifications.base_url"),
		DefaultCountryCode: cfg.GetString("notifications.whatsapp.default_country_code"),
	}
	if nc.Locale == "" {
		nc.Locale = "es"
	}
	if nc.BaseURL == "" {
		nc.BaseURL = "http://localhost:8080"
		log.Warn().Msg("notifications.base_url not set, links will point to localhost")
	}
	if nc.DefaultCountryCode == "" {
		nc.DefaultCountryCode = "1"
	}
	return nc
}
