package utils

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Token    TokenConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type TokenConfig struct {
	Secret string
}

// BookingConfig carries the business-rule policy values. The lifecycle
// engine receives this explicitly so tests can vary the policy.
type BookingConfig struct {
	Timezone            string
	MaxPartySize        int
	FutureHorizonMonths int
	LongStayWarnDays    int
	MaxFirstNameLen     int
	MaxDescriptionLen   int

	// The three fixed approver emails, keyed by party name.
	ApproverEmails map[string]string
}

// Location resolves the configured civil timezone for date-boundary checks.
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("BOOKING_TIMEZONE", "Europe/Berlin")
	viper.SetDefault("MAX_PARTY_SIZE", 10)
	viper.SetDefault("FUTURE_HORIZON_MONTHS", 18)
	viper.SetDefault("LONG_STAY_WARN_DAYS", 7)
	viper.SetDefault("MAX_FIRST_NAME_LEN", 40)
	viper.SetDefault("MAX_DESCRIPTION_LEN", 500)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
			BaseURL: viper.GetString("BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Token: TokenConfig{
			Secret: viper.GetString("SECRET_KEY"),
		},
		Booking: BookingConfig{
			Timezone:            viper.GetString("BOOKING_TIMEZONE"),
			MaxPartySize:        viper.GetInt("MAX_PARTY_SIZE"),
			FutureHorizonMonths: viper.GetInt("FUTURE_HORIZON_MONTHS"),
			LongStayWarnDays:    viper.GetInt("LONG_STAY_WARN_DAYS"),
			MaxFirstNameLen:     viper.GetInt("MAX_FIRST_NAME_LEN"),
			MaxDescriptionLen:   viper.GetInt("MAX_DESCRIPTION_LEN"),
			ApproverEmails: map[string]string{
				"Ingeborg": viper.GetString("APPROVER_INGEBORG_EMAIL"),
				"Cornelia": viper.GetString("APPROVER_CORNELIA_EMAIL"),
				"Angelika": viper.GetString("APPROVER_ANGELIKA_EMAIL"),
			},
		},
	}

	if config.Token.Secret == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	return config, nil
}
