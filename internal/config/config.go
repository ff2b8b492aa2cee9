package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	OneC struct {
		BaseURL     string        `mapstructure:"base_url"`
		Timeout     time.Duration `mapstructure:"timeout"`
		RPS         float64       `mapstructure:"rps"`
		Subdivision string        `mapstructure:"subdivision"`
	} `mapstructure:"onec"`

	Drafts struct {
		Backend   string `mapstructure:"backend"`
		PebbleDir string `mapstructure:"pebble_dir"`
	} `mapstructure:"drafts"`

	Catalog struct {
		WashMarkers   []string `mapstructure:"wash_markers"`
		TechWashPrice float64  `mapstructure:"tech_wash_price"`
	} `mapstructure:"catalog"`
}

const (
	DraftsPostgres = "postgres"
	DraftsPebble   = "pebble"
)

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// APP_ONEC_BASE_URL и т.п. перекрывают файл
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("app.timezone", "Europe/Moscow")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("onec.timeout", 15*time.Second)
	v.SetDefault("drafts.backend", DraftsPostgres)
	v.SetDefault("drafts.pebble_dir", "data/drafts")
	v.SetDefault("catalog.wash_markers", []string{"технологическая мойка"})
	v.SetDefault("catalog.tech_wash_price", 200)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	switch c.Drafts.Backend {
	case DraftsPostgres, DraftsPebble:
	default:
		return c, fmt.Errorf("drafts.backend: unknown %q", c.Drafts.Backend)
	}
	return c, nil
}
