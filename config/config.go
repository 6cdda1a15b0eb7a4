package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	AppEnv    string `yaml:"app_env"`
	Port      string `yaml:"port"`
	ClientURL string `yaml:"client_url"`

	DBDriver   string `yaml:"db_driver"` // postgres, mysql, sqlite
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBPath     string `yaml:"db_path"`

	JWTKey           string `yaml:"jwt_key"`
	JWTExpireHours   int    `yaml:"jwt_expire_hours"`
	CookieExpireDays int    `yaml:"cookie_expire_days"`
	SaltRound        int    `yaml:"salt_round"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`

	StripeSecretKey string `yaml:"stripe_secret_key"`
	StripeAPIURL    string `yaml:"stripe_api_url"`
	PayPalClientID  string `yaml:"paypal_client_id"`
	PayPalSecret    string `yaml:"paypal_secret"`
	PayPalAPIURL    string `yaml:"paypal_api_url"`

	VimeoClientID     string `yaml:"vimeo_client_id"`
	VimeoClientSecret string `yaml:"vimeo_client_secret"`
	VimeoAccessToken  string `yaml:"vimeo_access_token"`
	VimeoAPIURL       string `yaml:"vimeo_api_url"`

	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"` // json, text
	LogOutput     string `yaml:"log_output"` // stdout, file, both
	LogPath       string `yaml:"log_path"`
	LogMaxSize    int    `yaml:"log_max_size"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAge     int    `yaml:"log_max_age"`
	LogCompress   bool   `yaml:"log_compress"`

	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from an optional YAML file, the .env file and the environment
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			log.Printf("Warning: could not read config file %s: %v", path, err)
		}
	}
	cfg.applyEnv()

	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}

	AppConfig = cfg
	return cfg
}

// Defaults returns the built-in configuration values
func Defaults() *Config {
	return &Config{
		AppEnv:           "development",
		Port:             "5000",
		ClientURL:        "*",
		DBDriver:         "sqlite",
		DBPort:           "5432",
		DBName:           "learnhub",
		DBPath:           "learnhub.db",
		JWTKey:           "defaultSecret",
		JWTExpireHours:   720,
		CookieExpireDays: 30,
		SaltRound:        10,
		MongoDatabase:    "learnhub",
		StripeAPIURL:     "https://api.stripe.com/v1",
		PayPalAPIURL:     "https://api-m.sandbox.paypal.com",
		VimeoAPIURL:      "https://api.vimeo.com",
		LogLevel:         "info",
		LogFormat:        "text",
		LogOutput:        "stdout",
		LogPath:          "logs",
		LogMaxSize:       100,
		LogMaxBackups:    7,
		LogMaxAge:        30,
		LogCompress:      true,

		RequestTimeoutSeconds: 30,
	}
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, c)
}

// applyEnv overrides every field whose environment variable is set
func (c *Config) applyEnv() {
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.Port = getEnv("PORT", c.Port)
	c.ClientURL = getEnv("CLIENT_URL", c.ClientURL)

	c.DBDriver = strings.ToLower(getEnv("DB_DRIVER", c.DBDriver))
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.DBPath = getEnv("DB_PATH", c.DBPath)

	c.JWTKey = getEnv("JWT_SECRET_KEY", c.JWTKey)
	c.JWTExpireHours = getEnvInt("JWT_EXPIRE_HOURS", c.JWTExpireHours)
	c.CookieExpireDays = getEnvInt("JWT_COOKIE_EXPIRE", c.CookieExpireDays)
	c.SaltRound = getEnvInt("SALT_ROUND", c.SaltRound)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnv("MONGO_DATABASE", c.MongoDatabase)

	c.StripeSecretKey = getEnv("STRIPE_SECRET_KEY", c.StripeSecretKey)
	c.StripeAPIURL = getEnv("STRIPE_API_URL", c.StripeAPIURL)
	c.PayPalClientID = getEnv("PAYPAL_CLIENT_ID", c.PayPalClientID)
	c.PayPalSecret = getEnv("PAYPAL_SECRET", c.PayPalSecret)
	c.PayPalAPIURL = getEnv("PAYPAL_API_URL", c.PayPalAPIURL)

	c.VimeoClientID = getEnv("VIMEO_CLIENT_ID", c.VimeoClientID)
	c.VimeoClientSecret = getEnv("VIMEO_CLIENT_SECRET", c.VimeoClientSecret)
	c.VimeoAccessToken = getEnv("VIMEO_ACCESS_TOKEN", c.VimeoAccessToken)
	c.VimeoAPIURL = getEnv("VIMEO_API_URL", c.VimeoAPIURL)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.LogOutput = getEnv("LOG_OUTPUT", c.LogOutput)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)
	c.LogMaxSize = getEnvInt("LOG_MAX_SIZE", c.LogMaxSize)
	c.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.LogMaxBackups)
	c.LogMaxAge = getEnvInt("LOG_MAX_AGE", c.LogMaxAge)
	c.LogCompress = getEnvBool("LOG_COMPRESS", c.LogCompress)

	c.RequestTimeoutSeconds = getEnvInt("REQUEST_TIMEOUT_SECONDS", c.RequestTimeoutSeconds)
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }
func (c *Config) IsTest() bool       { return c.AppEnv == "test" }

func (c *Config) StripeConfigured() bool { return c.StripeSecretKey != "" }

func (c *Config) PayPalConfigured() bool {
	return c.PayPalClientID != "" && c.PayPalSecret != ""
}

// VimeoConfigured reports whether all three Vimeo credentials are present
func (c *Config) VimeoConfigured() bool {
	return c.VimeoClientID != "" && c.VimeoClientSecret != "" && c.VimeoAccessToken != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}
