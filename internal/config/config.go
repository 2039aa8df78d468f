package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	Telegram struct {
		Token   string
		AdminID int64 `mapstructure:"admin_id"`
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

	AutoBuy struct {
		PollInterval  time.Duration `mapstructure:"poll_interval"`
		RetryInterval time.Duration `mapstructure:"retry_interval"`
		ExcludedGifts []string      `mapstructure:"excluded_gifts"`
	} `mapstructure:"autobuy"`
}

func Load(path string) (Config, error) {
	// .env (если есть) подкладывает значения в окружение до чтения viper
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("autobuy.poll_interval", 3*time.Second)
	v.SetDefault("autobuy.retry_interval", 10*time.Second)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
