package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	NotifyProviderTwilio = "twilio"
	NotifyProviderNoop   = "noop"

	NotifyChannelWhatsApp = "whatsapp"
	NotifyChannelSMS      = "sms"

	AssistantOpenAI = "openai"
	AssistantGemini = "gemini"
	AssistantCanned = "canned"
)

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	PostgresURL string
	AutoMigrate bool

	JWTSecret string
	JWTTTL    time.Duration

	UploadDir      string
	UploadTmpDir   string
	MaxUploadBytes int64
	CORSOrigins    []string

	RedisURL string

	DefaultCountryCode string
	NotifyProvider     string
	NotifyChannel      string
	NotifyDelay        time.Duration
	TwilioSID          string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	TwilioSMSFrom      string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string

	AssistantProvider string
	OpenAIAPIKey      string
	OpenAIModel       string
	GeminiAPIKey      string
	GeminiModel       string
	EmbeddingsEnabled bool
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	jwtTTL, err := getenvDuration("JWT_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	notifyDelay, err := getenvDuration("NOTIFY_DELAY", time.Second)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getenvInt64("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	smtpPort, err := getenvInt64("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:     getenvOrDefault("PORT", "5000"),
		AppEnv:   getenvOrDefault("APP_ENV", "development"),
		LogLevel: getenvOrDefault("LOG_LEVEL", "info"),

		PostgresURL: os.Getenv("POSTGRES_URL"),
		AutoMigrate: getenvBool("DB_AUTO_MIGRATE", true),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    jwtTTL,

		UploadDir:      getenvOrDefault("UPLOAD_DIR", "./uploads"),
		UploadTmpDir:   getenvOrDefault("UPLOAD_TMP_DIR", filepath.Join(os.TempDir(), "itinera-uploads")),
		MaxUploadBytes: maxUpload,
		CORSOrigins:    splitList(getenvOrDefault("CORS_ORIGINS", "*")),

		RedisURL: os.Getenv("REDIS_URL"),

		DefaultCountryCode: getenvOrDefault("DEFAULT_COUNTRY_CODE", "+91"),
		NotifyProvider:     strings.ToLower(getenvOrDefault("NOTIFY_PROVIDER", NotifyProviderNoop)),
		NotifyChannel:      strings.ToLower(getenvOrDefault("NOTIFY_CHANNEL", NotifyChannelWhatsApp)),
		NotifyDelay:        notifyDelay,
		TwilioSID:          os.Getenv("TWILIO_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		TwilioSMSFrom:      os.Getenv("TWILIO_SMS_FROM"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     int(smtpPort),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),
		MailFromName: getenvOrDefault("MAIL_FROM_NAME", "Itinera"),

		AssistantProvider: strings.ToLower(getenvOrDefault("ASSISTANT_PROVIDER", AssistantCanned)),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getenvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getenvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		EmbeddingsEnabled: getenvBool("EMBEDDINGS_ENABLED", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.PostgresURL == "" {
		errs = append(errs, errors.New("POSTGRES_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if !strings.HasPrefix(c.DefaultCountryCode, "+") {
		errs = append(errs, fmt.Errorf("DEFAULT_COUNTRY_CODE must start with '+', got %q", c.DefaultCountryCode))
	}

	switch c.NotifyProvider {
	case NotifyProviderNoop:
	case NotifyProviderTwilio:
		if c.TwilioSID == "" || c.TwilioAuthToken == "" {
			errs = append(errs, errors.New("TWILIO_SID and TWILIO_AUTH_TOKEN are required for the twilio provider"))
		}
		if c.NotifyFrom() == "" {
			errs = append(errs, fmt.Errorf("no sender configured for channel %q", c.NotifyChannel))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFY_PROVIDER %q", c.NotifyProvider))
	}

	switch c.NotifyChannel {
	case NotifyChannelWhatsApp, NotifyChannelSMS:
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFY_CHANNEL %q", c.NotifyChannel))
	}

	switch c.AssistantProvider {
	case AssistantCanned:
	case AssistantOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai assistant"))
		}
	case AssistantGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini assistant"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ASSISTANT_PROVIDER %q", c.AssistantProvider))
	}

	if c.EmbeddingsEnabled && c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("EMBEDDINGS_ENABLED requires OPENAI_API_KEY"))
	}

	return errors.Join(errs...)
}

// NotifyFrom is the Twilio sender for the configured channel.
func (c *Config) NotifyFrom() string {
	if c.NotifyChannel == NotifyChannelSMS {
		return c.TwilioSMSFrom
	}
	return c.TwilioWhatsAppFrom
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.MailFrom != ""
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvInt64(key string, def int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
