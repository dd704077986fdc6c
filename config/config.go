package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration (asynq outbox queue).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisOutboxDB int    `mapstructure:"REDIS_OUTBOX_DB"`

	// Admin surface.
	AdminAPIKey string `mapstructure:"ADMIN_API_KEY"`

	// Pricing. Amounts are in naira.
	PriceEntireApartment float64 `mapstructure:"PRICE_ENTIRE_APARTMENT"`
	PriceSingleRoom      float64 `mapstructure:"PRICE_SINGLE_ROOM"`
	CleaningFee          float64 `mapstructure:"CLEANING_FEE"`
	ServiceFee           float64 `mapstructure:"SERVICE_FEE"`
	ExtraGuestPerNight   float64 `mapstructure:"EXTRA_GUEST_PER_NIGHT"`
	IncludedGuests       int     `mapstructure:"INCLUDED_GUESTS"`
	MinNightsSingleRoom  int     `mapstructure:"MIN_NIGHTS_SINGLE_ROOM"`

	// Paystack.
	PaystackSecretKey string `mapstructure:"PAYSTACK_SECRET_KEY"`

	// Shufti Pro identity verification.
	ShuftiProClientID    string `mapstructure:"SHUFTI_PRO_CLIENT_ID"`
	ShuftiProSecretKey   string `mapstructure:"SHUFTI_PRO_SECRET_KEY"`
	ShuftiProCallbackURL string `mapstructure:"SHUFTI_PRO_CALLBACK_URL"`
	ShuftiProRedirectURL string `mapstructure:"SHUFTI_PRO_REDIRECT_URL"`

	// Cloudinary (ID document storage).
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// SMTP (receipts and notifications).
	SMTPHost                string `mapstructure:"SMTP_HOST"`
	SMTPPort                int    `mapstructure:"SMTP_PORT"`
	EmailUser               string `mapstructure:"EMAIL_USER"`
	EmailPass               string `mapstructure:"EMAIL_PASS"`
	ClientNotificationEmail string `mapstructure:"CLIENT_NOTIFICATION_EMAIL"`

	// Airbnb calendar feeds, one per room scope.
	AirbnbEntireFeedURL string `mapstructure:"AIRBNB_ENTIRE_FEED_URL"`
	AirbnbRoom1FeedURL  string `mapstructure:"AIRBNB_ROOM1_FEED_URL"`
	AirbnbRoom2FeedURL  string `mapstructure:"AIRBNB_ROOM2_FEED_URL"`

	// CORS.
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "4000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_OUTBOX_DB", 3)

	viper.SetDefault("PRICE_ENTIRE_APARTMENT", 100000)
	viper.SetDefault("PRICE_SINGLE_ROOM", 60000)
	viper.SetDefault("CLEANING_FEE", 20000)
	viper.SetDefault("SERVICE_FEE", 25000)
	viper.SetDefault("EXTRA_GUEST_PER_NIGHT", 5000)
	viper.SetDefault("INCLUDED_GUESTS", 2)
	viper.SetDefault("MIN_NIGHTS_SINGLE_ROOM", 2)

	viper.SetDefault("SMTP_HOST", "26.qservers.net")
	viper.SetDefault("SMTP_PORT", 465)

	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:5173"})

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
