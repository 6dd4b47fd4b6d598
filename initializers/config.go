package initializers

import (
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	cfg     *viper.Viper
	cfgOnce sync.Once
)

// Config returns the application configuration. Values come from
// application.yaml (searched in "." and "./config") with LIBRARY_*
// environment variables taking precedence.
func Config() *viper.Viper {
	cfgOnce.Do(func() {
		v := viper.New()
		v.SetConfigName("application")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")

		v.SetEnvPrefix("LIBRARY")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		v.SetDefault("server.addr", ":8080")
		v.SetDefault("database.dsn", "host=localhost user=library password= dbname=library port=5432 sslmode=disable")
		v.SetDefault("redis.addr", "localhost:6379")
		v.SetDefault("redis.password", "")
		v.SetDefault("redis.db", 0)
		v.SetDefault("log.level", "debug")
		// override outside local development
		v.SetDefault("auth.access_secret", "dev-access-secret")
		v.SetDefault("auth.refresh_secret", "dev-refresh-secret")

		// missing config file is fine, defaults + env cover everything
		_ = v.ReadInConfig()

		cfg = v
	})
	return cfg
}
