package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LLM providers
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

type (
	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		WorkDir      string
		RollbarToken string

		Server    ServerConfig
		Database  DatabaseConfig
		LLM       LLMConfig
		Retrieval RetrievalConfig
	}

	ServerConfig struct {
		Host            string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine     string // postgres | sqlite3
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		DisableTLS bool
		Path       string // sqlite3 only
	}

	// LLMConfig selects the text-generation and embedding backends.
	// It is built once at startup and handed to llm.NewClient.
	LLMConfig struct {
		Provider      string
		ChatModel     string
		EmbedProvider string
		EmbedModel    string
		BaseURL       string
		EmbedBaseURL  string
		APIKey        string
		EmbedAPIKey   string
		Temperature   float32
		Timeout       time.Duration
		MaxRetries    int
	}

	RetrievalConfig struct {
		DocsDir      string // empty: use the embedded docs
		ChunkSize    int
		ChunkOverlap int
		TopK         int
		RedisAddr    string // empty: in-memory index
		RedisPrefix  string
	}
)

func (dbConf DatabaseConfig) Address() string {
	return dbConf.Host + ":" + dbConf.Port
}

// NewConfig loads the configuration for the current ENV.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	setDefaults(v, env)

	v.SetEnvPrefix("MENTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		WorkDir:      Getwd(),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			Name:       v.GetString("database.name"),
			DisableTLS: v.GetBool("database.disableTLS"),
			Path:       v.GetString("database.path"),
		},
		LLM: LLMConfig{
			Provider:      CleanString(v.GetString("llm.provider"), true /* lower */),
			ChatModel:     v.GetString("llm.chatModel"),
			EmbedProvider: CleanString(v.GetString("llm.embedProvider"), true /* lower */),
			EmbedModel:    v.GetString("llm.embedModel"),
			BaseURL:       v.GetString("llm.baseURL"),
			EmbedBaseURL:  v.GetString("llm.embedBaseURL"),
			APIKey:        v.GetString("llm.apiKey"),
			EmbedAPIKey:   v.GetString("llm.embedAPIKey"),
			Temperature:   float32(v.GetFloat64("llm.temperature")),
			Timeout:       v.GetDuration("llm.timeout"),
			MaxRetries:    v.GetInt("llm.maxRetries"),
		},
		Retrieval: RetrievalConfig{
			DocsDir:      v.GetString("retrieval.docsDir"),
			ChunkSize:    v.GetInt("retrieval.chunkSize"),
			ChunkOverlap: v.GetInt("retrieval.chunkOverlap"),
			TopK:         v.GetInt("retrieval.topK"),
			RedisAddr:    v.GetString("retrieval.redisAddr"),
			RedisPrefix:  v.GetString("retrieval.redisPrefix"),
		},
	}
	conf.LLM.fillDefaults()
	return conf
}

func setDefaults(v *viper.Viper, env string) {
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "Mentor")
	v.SetDefault("build", "develop")

	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 3*time.Minute) // mentor answers can be slow
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "sqlite3")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "student_dashboard")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", "student_dashboard.db")

	v.SetDefault("llm.provider", ProviderOllama)
	v.SetDefault("llm.embedProvider", ProviderOllama) // whatever the chat provider is
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", 3*time.Minute)
	v.SetDefault("llm.maxRetries", 3)

	v.SetDefault("retrieval.chunkSize", 800)
	v.SetDefault("retrieval.chunkOverlap", 100)
	v.SetDefault("retrieval.topK", 4)
	v.SetDefault("retrieval.redisPrefix", "mentor:index:")
}

var defaultChatModels = map[string]string{
	ProviderOllama: "mistral",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderGroq:   "llama-3.1-8b-instant",
	ProviderGemini: "gemini-1.5-flash",
}

var defaultEmbedModels = map[string]string{
	ProviderOllama: "nomic-embed-text",
	ProviderOpenAI: "text-embedding-3-small",
	ProviderGemini: "text-embedding-004",
}

var providerKeyEnvs = map[string]string{
	ProviderOpenAI: "OPENAI_API_KEY",
	ProviderGroq:   "GROQ_API_KEY",
	ProviderGemini: "GOOGLE_API_KEY",
}

func (c *LLMConfig) fillDefaults() {
	if c.ChatModel == "" {
		c.ChatModel = defaultChatModels[c.Provider]
	}
	if c.EmbedModel == "" {
		c.EmbedModel = defaultEmbedModels[c.EmbedProvider]
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv(providerKeyEnvs[c.Provider])
	}
	if c.EmbedAPIKey == "" {
		if c.EmbedProvider == c.Provider {
			c.EmbedAPIKey = c.APIKey
		} else {
			c.EmbedAPIKey = os.Getenv(providerKeyEnvs[c.EmbedProvider])
		}
	}
}

// ProviderKeyEnv returns the conventional API key env var of a hosted provider.
func ProviderKeyEnv(provider string) string {
	return providerKeyEnvs[provider]
}
