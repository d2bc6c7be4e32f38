package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Knowledge KnowledgeConfig
	Embedding EmbeddingConfig
	Engine    EngineConfig
	Session   SessionConfig
	Redis     RedisConfig
	SQLite    SQLiteConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

// KnowledgeConfig points at the static knowledge file. When Path is empty
// the builtin campus dataset is loaded instead.
type KnowledgeConfig struct {
	Path string
}

type EmbeddingConfig struct {
	Provider   string
	APIKey     string
	Model      string
	Dimension  int
	TimeoutSec int
	CacheTTL   int
}

// EngineConfig carries the resolution thresholds. The defaults mirror the
// values the system has always shipped with; they are tunables, not
// derived quantities.
type EngineConfig struct {
	AcceptThreshold float64
	SimilarityFloor float64
	TopK            int
}

type SessionConfig struct {
	MaxHistory int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type SQLiteConfig struct {
	Path string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/orb-ai")

	viper.SetEnvPrefix("ORB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("knowledge.path", "")

	viper.SetDefault("embedding.provider", "local")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.dimension", 384)
	viper.SetDefault("embedding.timeoutSec", 10)
	viper.SetDefault("embedding.cacheTTL", 3600)

	viper.SetDefault("engine.acceptThreshold", 0.6)
	viper.SetDefault("engine.similarityFloor", 0.5)
	viper.SetDefault("engine.topK", 3)

	viper.SetDefault("session.maxHistory", 50)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("sqlite.path", "./data/orb.db")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
