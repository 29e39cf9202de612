package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Logger      LoggerConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	Session     SessionConfig
	Completion  CompletionConfig
	Upload      UploadConfig
	Voice       VoiceConfig
	Quiz        QuizConfig
}

type ServerConfig struct {
	Port          int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	BodyLimit     int
	AllowOrigins  string
	StaticDir     string
	SecureCookies bool
}

type LoggerConfig struct {
	Env   string
	Level string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DBConfig selects the accounts database. Driver is "sqlite" or "oracle".
type DBConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type SessionConfig struct {
	TTL             time.Duration
	CookieName      string
	RegistrationTTL time.Duration
}

// CompletionConfig drives the chat flow. Source is "openai" (any OpenAI-compatible
// endpoint, Groq by default) or "ollama".
type CompletionConfig struct {
	Source      string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
	Timeout     time.Duration
	InFlightTTL time.Duration
	ExchangeTTL time.Duration
}

// UploadConfig drives the image upload flow. Source is "openai" or "s3".
type UploadConfig struct {
	Source     string
	APIKey     string
	BaseURL    string
	Purpose    string
	MaxBytes   int64
	PreviewTTL time.Duration
	Timeout    time.Duration
	S3         S3Config

	// InFlightTTL bounds how long a crashed upload can block the session.
	InFlightTTL time.Duration
}

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	Endpoint        string
}

type VoiceConfig struct {
	Enabled            bool
	APIKey             string
	BaseURL            string
	TranscriptionModel string
	SpeechModel        string
	Voice              string
	Devices            int64
	MaxAudioBytes      int
	MaxDuration        time.Duration
	Timeout            time.Duration
}

type QuizConfig struct {
	DefaultLevel string
	StateTTL     time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "20s")
	v.SetDefault("server.body_limit", 12*1024*1024)
	v.SetDefault("server.allow_origins", "*")
	v.SetDefault("server.static_dir", "./web")
	v.SetDefault("server.secure_cookies", false)

	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "learnassist.db")
	v.SetDefault("db.port", 1521)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.access_token_ttl", "720h")

	v.SetDefault("session.ttl", "720h")
	v.SetDefault("session.cookie_name", "learnassist_token")
	v.SetDefault("session.registration_ttl", "24h")

	v.SetDefault("completion.source", "openai")
	v.SetDefault("completion.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("completion.model", "llama-3.3-70b-versatile")
	v.SetDefault("completion.temperature", 0.5)
	v.SetDefault("completion.max_tokens", 1024)
	v.SetDefault("completion.top_p", 1.0)
	v.SetDefault("completion.timeout", "60s")
	v.SetDefault("completion.in_flight_ttl", "90s")
	v.SetDefault("completion.exchange_ttl", "24h")

	v.SetDefault("upload.source", "openai")
	v.SetDefault("upload.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("upload.purpose", "vision")
	v.SetDefault("upload.max_bytes", 10*1024*1024)
	v.SetDefault("upload.preview_ttl", "1h")
	v.SetDefault("upload.timeout", "60s")
	v.SetDefault("upload.in_flight_ttl", "2m")
	v.SetDefault("upload.s3.region", "us-east-1")
	v.SetDefault("upload.s3.prefix", "uploads")

	v.SetDefault("voice.enabled", true)
	v.SetDefault("voice.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("voice.transcription_model", "whisper-large-v3")
	v.SetDefault("voice.speech_model", "playai-tts")
	v.SetDefault("voice.voice", "Fritz-PlayAI")
	v.SetDefault("voice.devices", 8)
	v.SetDefault("voice.max_audio_bytes", 8*1024*1024)
	v.SetDefault("voice.max_duration", "2m")
	v.SetDefault("voice.timeout", "60s")

	v.SetDefault("quiz.default_level", "Class-10")
	v.SetDefault("quiz.state_ttl", "720h")
}

// LoadConfig reads config.yaml (optional), a .env file (optional) and APP_* environment
// variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		// For test environment, look for config in the project root
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          v.GetInt("server.port"),
			ReadTimeout:   v.GetDuration("server.read_timeout"),
			WriteTimeout:  v.GetDuration("server.write_timeout"),
			IdleTimeout:   v.GetDuration("server.idle_timeout"),
			BodyLimit:     v.GetInt("server.body_limit"),
			AllowOrigins:  v.GetString("server.allow_origins"),
			StaticDir:     v.GetString("server.static_dir"),
			SecureCookies: v.GetBool("server.secure_cookies"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
		DB: DBConfig{
			Driver:   strings.ToLower(v.GetString("db.driver")),
			Path:     v.GetString("db.path"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:      v.GetString("jwt.secret_key"),
			AccessTokenTTL: v.GetDuration("jwt.access_token_ttl"),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     v.GetString("google_oauth.client_id"),
			ClientSecret: v.GetString("google_oauth.client_secret"),
			RedirectURL:  v.GetString("google_oauth.redirect_url"),
		},
		Session: SessionConfig{
			TTL:             v.GetDuration("session.ttl"),
			CookieName:      v.GetString("session.cookie_name"),
			RegistrationTTL: v.GetDuration("session.registration_ttl"),
		},
		Completion: CompletionConfig{
			Source:      strings.ToLower(v.GetString("completion.source")),
			APIKey:      v.GetString("completion.api_key"),
			BaseURL:     v.GetString("completion.base_url"),
			Model:       v.GetString("completion.model"),
			Temperature: v.GetFloat64("completion.temperature"),
			MaxTokens:   v.GetInt("completion.max_tokens"),
			TopP:        v.GetFloat64("completion.top_p"),
			Timeout:     v.GetDuration("completion.timeout"),
			InFlightTTL: v.GetDuration("completion.in_flight_ttl"),
			ExchangeTTL: v.GetDuration("completion.exchange_ttl"),
		},
		Upload: UploadConfig{
			Source:      strings.ToLower(v.GetString("upload.source")),
			APIKey:      v.GetString("upload.api_key"),
			BaseURL:     v.GetString("upload.base_url"),
			Purpose:     v.GetString("upload.purpose"),
			MaxBytes:    v.GetInt64("upload.max_bytes"),
			PreviewTTL:  v.GetDuration("upload.preview_ttl"),
			InFlightTTL: v.GetDuration("upload.in_flight_ttl"),
			Timeout:     v.GetDuration("upload.timeout"),
			S3: S3Config{
				Region:          v.GetString("upload.s3.region"),
				AccessKeyID:     v.GetString("upload.s3.access_key_id"),
				SecretAccessKey: v.GetString("upload.s3.secret_access_key"),
				Bucket:          v.GetString("upload.s3.bucket"),
				Prefix:          v.GetString("upload.s3.prefix"),
				Endpoint:        v.GetString("upload.s3.endpoint"),
			},
		},
		Voice: VoiceConfig{
			Enabled:            v.GetBool("voice.enabled"),
			APIKey:             v.GetString("voice.api_key"),
			BaseURL:            v.GetString("voice.base_url"),
			TranscriptionModel: v.GetString("voice.transcription_model"),
			SpeechModel:        v.GetString("voice.speech_model"),
			Voice:              v.GetString("voice.voice"),
			Devices:            v.GetInt64("voice.devices"),
			MaxAudioBytes:      v.GetInt("voice.max_audio_bytes"),
			MaxDuration:        v.GetDuration("voice.max_duration"),
			Timeout:            v.GetDuration("voice.timeout"),
		},
		Quiz: QuizConfig{
			DefaultLevel: v.GetString("quiz.default_level"),
			StateTTL:     v.GetDuration("quiz.state_ttl"),
		},
	}

	// The completion key doubles as the upload and speech key when those are not set,
	// since all three usually point at the same provider.
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" && cfg.Completion.APIKey == "" {
		cfg.Completion.APIKey = apiKey
	}
	if cfg.Upload.APIKey == "" {
		cfg.Upload.APIKey = cfg.Completion.APIKey
	}
	if cfg.Voice.APIKey == "" {
		cfg.Voice.APIKey = cfg.Completion.APIKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that the server cannot start without.
func (c *Config) Validate() error {
	if len(c.JWT.SecretKey) < 32 {
		return errors.New("jwt.secret_key must be at least 32 characters long")
	}
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			return errors.New("db.path is required for the sqlite driver")
		}
	case "oracle":
		if c.DB.Host == "" || c.DB.User == "" || c.DB.DBName == "" {
			return errors.New("db.host, db.user and db.name are required for the oracle driver")
		}
	default:
		return fmt.Errorf("unsupported db.driver: %q", c.DB.Driver)
	}
	switch c.Completion.Source {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unsupported completion.source: %q", c.Completion.Source)
	}
	switch c.Upload.Source {
	case "openai":
	case "s3":
		if c.Upload.S3.Bucket == "" {
			return errors.New("upload.s3.bucket is required for the s3 upload source")
		}
	default:
		return fmt.Errorf("unsupported upload.source: %q", c.Upload.Source)
	}
	if c.Voice.Devices <= 0 {
		return errors.New("voice.devices must be positive")
	}
	return nil
}

// GetDSN returns the data source name for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == "oracle" {
		return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
		)
	}
	return c.DB.Path
}
