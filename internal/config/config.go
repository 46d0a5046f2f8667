package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Target environments.
const (
	EnvLocal  = "local"
	EnvDevice = "device"
)

type Config struct {
	AppEnv       string  `mapstructure:"APP_ENV"`
	APIBaseURL   string  `mapstructure:"API_BASE_URL"`
	LocalAPIURL  string  `mapstructure:"LOCAL_API_URL"`
	DeviceAPIURL string  `mapstructure:"DEVICE_API_URL"`
	InsecureTLS  bool    `mapstructure:"API_INSECURE_TLS"`
	RedisAddr    string  `mapstructure:"REDIS_ADDR"`
	DeviceID     string  `mapstructure:"DEVICE_ID"`
	LocationLat  float64 `mapstructure:"LOCATION_LAT"`
	LocationLng  float64 `mapstructure:"LOCATION_LNG"`
	HasLocation  bool    `mapstructure:"-"`
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", EnvLocal)
	v.SetDefault("API_BASE_URL", "")
	v.SetDefault("LOCAL_API_URL", "https://localhost:7170/api")
	// 10.0.2.2 is the host loopback as seen from the Android emulator.
	v.SetDefault("DEVICE_API_URL", "https://10.0.2.2:7170/api")
	v.SetDefault("API_INSECURE_TLS", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("DEVICE_ID", "")
	v.SetDefault("LOCATION_LAT", 0.0)
	v.SetDefault("LOCATION_LNG", 0.0)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.HasLocation = envSet("LOCATION_LAT") && envSet("LOCATION_LNG")
	return cfg
}

func envSet(key string) bool {
	v, ok := os.LookupEnv(key)
	return ok && strings.TrimSpace(v) != ""
}

// BaseURL resolves the API root: an explicit API_BASE_URL wins over the
// URL of the selected environment.
func (c Config) BaseURL() (string, error) {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/"), nil
	}
	switch strings.ToLower(c.AppEnv) {
	case EnvLocal, "":
		return strings.TrimRight(c.LocalAPIURL, "/"), nil
	case EnvDevice:
		return strings.TrimRight(c.DeviceAPIURL, "/"), nil
	default:
		return "", fmt.Errorf("config: unknown APP_ENV %q (want %q or %q)", c.AppEnv, EnvLocal, EnvDevice)
	}
}
