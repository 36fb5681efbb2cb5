package config

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"strings"
	"sync"
	"time"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("api_key", "API_KEY")
		viper.BindEnv("api_base_url", "API_BASE_URL")
		viper.BindEnv("quote_currency", "QUOTE_CURRENCY")
		viper.BindEnv("http_timeout", "HTTP_TIMEOUT")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("metrics_db_path", "METRICS_DB_PATH")
		viper.BindEnv("alert_interval", "ALERT_INTERVAL")
		viper.BindEnv("summary_interval", "SUMMARY_INTERVAL")
		viper.BindEnv("summary_channel", "SUMMARY_CHANNEL")
		viper.BindEnv("summary_assets", "SUMMARY_ASSETS")
		viper.BindEnv("chart_dir", "CHART_DIR")

		viper.SetDefault("api_base_url", "https://api.coingecko.com/api/v3")
		viper.SetDefault("quote_currency", "inr")
		viper.SetDefault("http_timeout", 0)
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("metrics_db_path", "")
		viper.SetDefault("alert_interval", time.Minute)
		viper.SetDefault("summary_interval", 24*time.Hour)
		viper.SetDefault("summary_channel", "general")
		viper.SetDefault("summary_assets", "bitcoin,ethereum,dogecoin")
		viper.SetDefault("chart_dir", ".")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}

func GetDuration(key string) time.Duration {
	InitConfig()
	return viper.GetDuration(key)
}

// MinInterval is the shortest accepted polling or scheduling interval.
const MinInterval = time.Second

// GetInterval reads a duration such as "60s" or "24h". A bare number is read as nanoseconds
// by viper, so anything below MinInterval is rejected and fallback returned instead.
func GetInterval(key string, fallback time.Duration) time.Duration {
	d := GetDuration(key)
	if d < MinInterval {
		if viper.IsSet(key) {
			log.Warnf("Ignoring %s=%q, an interval needs a unit and at least %s; using %s", key, viper.GetString(key), MinInterval, fallback)
		}
		return fallback
	}
	return d
}

// GetList reads a comma separated value, dropping blanks.
func GetList(key string) []string {
	InitConfig()
	var out []string
	for _, v := range strings.Split(viper.GetString(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
