package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	JWTSecret              string
	TokenTTL               time.Duration
	StorageMode            string
	CORSAllowOrigins       string
	SeedAdminEmail         string
	SeedAdminName          string
	SeedAdminPassword      string
	DashboardCacheTTL      time.Duration
	NotificationSweepEvery time.Duration
	LoginRateMax           int
	LoginRateWindow        time.Duration
	WallpaperMaxSizeMB     int
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an
// optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AEGIS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Aegis Admin API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("storage.mode", "persistent")
	v.SetDefault("token.ttl", "168h")
	v.SetDefault("seed.admin_email", "ratnesh@gmail.com")
	v.SetDefault("seed.admin_name", "Main Administrator")
	v.SetDefault("seed.admin_password", "Admin@123")
	v.SetDefault("dashboard.cache_ttl", "30s")
	v.SetDefault("notification.sweep_every", "10m")
	v.SetDefault("login.rate_max", 10)
	v.SetDefault("login.rate_window", "1m")
	v.SetDefault("wallpaper.max_size_mb", 10)
	v.SetDefault("cloudinary.folder", "aegis/wallpapers")
	v.SetDefault("cors.allow_origins", "*")

	tokenTTL, err := parseDuration(v.GetString("token.ttl"), "token ttl")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v.GetString("dashboard.cache_ttl"), "dashboard cache ttl")
	if err != nil {
		return Config{}, err
	}
	sweepEvery, err := parseDuration(v.GetString("notification.sweep_every"), "notification sweep interval")
	if err != nil {
		return Config{}, err
	}
	rateWindow, err := parseDuration(v.GetString("login.rate_window"), "login rate window")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		TokenTTL:               tokenTTL,
		StorageMode:            strings.ToLower(v.GetString("storage.mode")),
		CORSAllowOrigins:       v.GetString("cors.allow_origins"),
		SeedAdminEmail:         v.GetString("seed.admin_email"),
		SeedAdminName:          v.GetString("seed.admin_name"),
		SeedAdminPassword:      v.GetString("seed.admin_password"),
		DashboardCacheTTL:      cacheTTL,
		NotificationSweepEvery: sweepEvery,
		LoginRateMax:           v.GetInt("login.rate_max"),
		LoginRateWindow:        rateWindow,
		WallpaperMaxSizeMB:     v.GetInt("wallpaper.max_size_mb"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func parseDuration(value, label string) (time.Duration, error) {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", label, err)
	}
	return parsed, nil
}
