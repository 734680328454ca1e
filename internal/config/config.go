package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// ObjectTypes maps each logical CRM entity to its HubSpot object type id.
type ObjectTypes struct {
	Contacts    string
	MockExams   string
	Bookings    string
	Enrollments string
	Deals       string
	Notes       string
}

// DefaultObjectTypes returns the object type ids of the production portal.
func DefaultObjectTypes() ObjectTypes {
	return ObjectTypes{
		Contacts:    "0-1",
		MockExams:   "2-50158913",
		Bookings:    "2-50158943",
		Enrollments: "2-41701559",
		Deals:       "0-3",
		Notes:       "0-46",
	}
}

type HubSpotConfig struct {
	AccessToken    string
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	WebhookSecret  string
	Objects        ObjectTypes
}

type Config struct {
	Port    string
	HubSpot HubSpotConfig
	JWT     struct {
		SecretKey string
	}
	DatabaseEnabled bool
	Booking         *BookingConfig
}

// Load reads .env and the environment into a Config.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("hubspot.access_token", "HUBSPOT_PRIVATE_APP_TOKEN")
	viper.BindEnv("hubspot.base_url", "HUBSPOT_BASE_URL")
	viper.BindEnv("hubspot.timeout", "HUBSPOT_TIMEOUT")
	viper.BindEnv("hubspot.max_retries", "HUBSPOT_MAX_RETRIES")
	viper.BindEnv("hubspot.retry_base_delay", "HUBSPOT_RETRY_BASE_DELAY")
	viper.BindEnv("hubspot.webhook_secret", "HUBSPOT_CLIENT_SECRET")
	viper.BindEnv("hubspot.objects.contacts", "HUBSPOT_OBJECT_CONTACTS")
	viper.BindEnv("hubspot.objects.mock_exams", "HUBSPOT_OBJECT_MOCK_EXAMS")
	viper.BindEnv("hubspot.objects.bookings", "HUBSPOT_OBJECT_BOOKINGS")
	viper.BindEnv("hubspot.objects.enrollments", "HUBSPOT_OBJECT_ENROLLMENTS")
	viper.BindEnv("hubspot.objects.deals", "HUBSPOT_OBJECT_DEALS")
	viper.BindEnv("hubspot.objects.notes", "HUBSPOT_OBJECT_NOTES")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("database.enabled", "DATABASE_ENABLED")
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	defaults := DefaultObjectTypes()
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("hubspot.base_url", "https://api.hubapi.com")
	viper.SetDefault("hubspot.timeout", 30*time.Second)
	viper.SetDefault("hubspot.max_retries", 3)
	viper.SetDefault("hubspot.retry_base_delay", time.Second)
	viper.SetDefault("hubspot.objects.contacts", defaults.Contacts)
	viper.SetDefault("hubspot.objects.mock_exams", defaults.MockExams)
	viper.SetDefault("hubspot.objects.bookings", defaults.Bookings)
	viper.SetDefault("hubspot.objects.enrollments", defaults.Enrollments)
	viper.SetDefault("hubspot.objects.deals", defaults.Deals)
	viper.SetDefault("hubspot.objects.notes", defaults.Notes)
	viper.SetDefault("database.enabled", false)

	cfg := &Config{
		Port: viper.GetString("server.port"),
		HubSpot: HubSpotConfig{
			AccessToken:    viper.GetString("hubspot.access_token"),
			BaseURL:        viper.GetString("hubspot.base_url"),
			Timeout:        viper.GetDuration("hubspot.timeout"),
			MaxRetries:     viper.GetInt("hubspot.max_retries"),
			RetryBaseDelay: viper.GetDuration("hubspot.retry_base_delay"),
			WebhookSecret:  viper.GetString("hubspot.webhook_secret"),
			Objects: ObjectTypes{
				Contacts:    viper.GetString("hubspot.objects.contacts"),
				MockExams:   viper.GetString("hubspot.objects.mock_exams"),
				Bookings:    viper.GetString("hubspot.objects.bookings"),
				Enrollments: viper.GetString("hubspot.objects.enrollments"),
				Deals:       viper.GetString("hubspot.objects.deals"),
				Notes:       viper.GetString("hubspot.objects.notes"),
			},
		},
		DatabaseEnabled: viper.GetBool("database.enabled"),
		Booking:         LoadBookingConfig(),
	}
	cfg.JWT.SecretKey = viper.GetString("jwt.secret_key")

	if cfg.HubSpot.AccessToken == "" {
		log.Printf("[CONFIG] HUBSPOT_PRIVATE_APP_TOKEN is not set; HubSpot calls will be rejected")
	}

	return cfg
}
