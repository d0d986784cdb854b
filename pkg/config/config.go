package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported values for STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverFile     = "file"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store     StoreConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	FileStore FileStoreConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Auth      AuthConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
}

// StoreConfig selects the entity store backend.
type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// MongoConfig points at the hosted document database.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// FileStoreConfig configures the local JSON fallback store.
type FileStoreConfig struct {
	Dir string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs projection caching and its invalidation workers.
type CacheConfig struct {
	Enabled             bool
	TTL                 time.Duration
	InvalidationWorkers int
}

// AuthConfig toggles admin protection of write routes.
type AuthConfig struct {
	Enabled           bool
	AdminEmail        string
	AdminPasswordHash string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Mongo = MongoConfig{
		URI:            v.GetString("MONGO_URI"),
		Database:       v.GetString("MONGO_DATABASE"),
		ConnectTimeout: parseDuration(v.GetString("MONGO_CONNECT_TIMEOUT"), 10*time.Second),
	}

	cfg.FileStore = FileStoreConfig{Dir: v.GetString("FILE_STORE_DIR")}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:             v.GetBool("ENABLE_CACHE"),
		TTL:                 parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
		InvalidationWorkers: v.GetInt("INVALIDATION_WORKERS"),
	}

	cfg.Auth = AuthConfig{
		Enabled:           v.GetBool("ENABLE_AUTH"),
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverFile:
	default:
		return errors.New("STORE_DRIVER must be one of postgres, mongo, file")
	}
	if c.Auth.Enabled && (c.Auth.AdminEmail == "" || c.Auth.AdminPasswordHash == "") {
		return errors.New("ENABLE_AUTH requires ADMIN_EMAIL and ADMIN_PASSWORD_HASH")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "onboard")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "onboard")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")

	v.SetDefault("FILE_STORE_DIR", "./data")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")
	v.SetDefault("INVALIDATION_WORKERS", 1)

	v.SetDefault("ENABLE_AUTH", false)
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "onboard-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
