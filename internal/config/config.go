package config

import "time"

// Default configuration values.
const (
	defaultServiceName    = "globalpulse"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8080
	defaultDBDriver       = "sqlite3"
	defaultDBPath         = "globalpulse.db"
	defaultDBHost         = "localhost"
	defaultDBPort         = 5432
	defaultDBUser         = "postgres"
	defaultDBName         = "globalpulse"
	defaultDBSSLMode      = "disable"
	defaultDBMaxConns     = 25
	defaultDBMaxIdleConns = 5
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultGeminiMaxCalls = 60
	defaultGeminiTimeout  = 20 * time.Second
	defaultSamplePath     = "sample_data.json"
	defaultSourceTimeout  = 20 * time.Second
	defaultLogLevel       = "info"
)

// Config holds all configuration for the service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Sources  SourcesConfig  `yaml:"sources"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"GLOBALPULSE_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"        yaml:"debug"`
}

// DatabaseConfig holds database configuration. Driver selects sqlite3
// (default, Path) or postgres (Host/Port/User/...).
type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER"         yaml:"driver"`
	Path            string        `env:"DB_PATH"           yaml:"path"`
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// GeminiConfig holds remote sentiment and insights configuration.
type GeminiConfig struct {
	APIKey string `env:"GOOGLE_API_KEY" yaml:"api_key"`
	Model  string `env:"GEMINI_SENTIMENT_MODEL" yaml:"model"`
	// UseForSentiment is the global enable flag consulted by the "auto"
	// engine choice.
	UseForSentiment bool `env:"USE_GEMINI_SENTIMENT" yaml:"use_for_sentiment"`
	// MaxSentimentCalls caps remote sentiment calls per process lifetime.
	MaxSentimentCalls int           `env:"GEMINI_SENTIMENT_MAX_ITEMS" yaml:"max_sentiment_calls"`
	Timeout           time.Duration `yaml:"timeout"`
}

// SourcesConfig holds live source and sample file configuration.
type SourcesConfig struct {
	YouTubeAPIKey string        `env:"YOUTUBE_API_KEY" yaml:"youtube_api_key"`
	NewsAPIKey    string        `env:"NEWSAPI_KEY"     yaml:"newsapi_key"`
	SamplePath    string        `env:"SAMPLE_PATH"     yaml:"sample_path"`
	Timeout       time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// Load loads configuration from the specified path and applies defaults.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	setDefaults(cfg)
	// Env always wins, including over defaults.
	applyEnvOverrides(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setGeminiDefaults(&cfg.Gemini)
	setSourcesDefaults(&cfg.Sources)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = defaultDBDriver
	}
	if d.Path == "" {
		d.Path = defaultDBPath
	}
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setGeminiDefaults(g *GeminiConfig) {
	if g.Model == "" {
		g.Model = defaultGeminiModel
	}
	if g.MaxSentimentCalls == 0 {
		g.MaxSentimentCalls = defaultGeminiMaxCalls
	}
	if g.Timeout == 0 {
		g.Timeout = defaultGeminiTimeout
	}
}

func setSourcesDefaults(s *SourcesConfig) {
	if s.SamplePath == "" {
		s.SamplePath = defaultSamplePath
	}
	if s.Timeout == 0 {
		s.Timeout = defaultSourceTimeout
	}
}
