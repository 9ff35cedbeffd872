package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. CROWDFUND_DB_DRIVER.
const EnvPrefix = "CROWDFUND"

type Config struct {
	App    AppConfig
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Log    LogConfig
}

type AppConfig struct {
	Env string
}

type ServerConfig struct {
	Address     string
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DBConfig struct {
	Driver   string
	DSN      string
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level  string
	Format string
}

// DataSource returns the DSN handed to the GORM dialector. An explicit DSN wins;
// otherwise one is assembled for postgres from the discrete fields.
func (c DBConfig) DataSource() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case "sqlite":
		return "crowdfund.db"
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
	case "sqlserver":
		return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s", c.User, c.Password, c.Host, c.Port, c.Name)
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			c.Host, c.User, c.Password, c.Name, c.Port)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "local")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "crowdfunding")
	v.SetDefault("db.port", 5432)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.token_ttl", 10*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads .env (if present), then config.yaml, then CROWDFUND_* environment
// variables. A missing config file is not an error; every key has a default.
// path, when non-empty, names the config file explicitly.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./pkg/config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	config.DB.Driver = strings.ToLower(config.DB.Driver)

	return &config, nil
}
