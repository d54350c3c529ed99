package services

import (
	"log/slog"

	"github.com/spf13/viper"

	"github.com/prepview-ai/backend/models"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	AI        AIConfig
	Interview InterviewConfig
	JWT       JWTConfig
	WebSocket WebSocketConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL          string
	Seed         bool
	MaxIdleConns int
	MaxOpenConns int
}

type AIConfig struct {
	GeminiAPIKey       string
	ModelName          string
	Temperature        float64
	MaxTokens          int
	TranscriptionModel string
}

// InterviewConfig covers the interview behavior surface: which positions and
// question types are offered, how sessions are scored, and how much history
// prompts carry.
type InterviewConfig struct {
	AvailablePositions     []string
	MaxQuestionsPerSession int
	QuestionTypes          []string
	EnableScoring          bool
	ScoringCriteria        []string
	MaxConversationHistory int
	DefaultPersonality     models.Personality
	IdleTimeoutMinutes     int
}

type JWTConfig struct {
	Secret string
}

type WebSocketConfig struct {
	AllowedOrigins string
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("websocket.allowed_origins", "")
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.seed", "true")
	viper.SetDefault("database.max_idle_conns", "10")
	viper.SetDefault("database.max_open_conns", "100")
	viper.SetDefault("model.name", "gemini-2.0-flash")
	viper.SetDefault("model.temperature", "0.7")
	viper.SetDefault("model.max_tokens", "1000")
	viper.SetDefault("model.transcription", "gemini-2.0-flash")
	viper.SetDefault("interview.available_positions", []string{
		"Software Engineer",
		"Data Scientist",
		"Product Manager",
		"DevOps Engineer",
		"Frontend Developer",
		"Backend Developer",
		"Full Stack Developer",
		"Machine Learning Engineer",
	})
	viper.SetDefault("interview.max_questions_per_session", "10")
	viper.SetDefault("interview.question_types", []string{
		"behavioral",
		"technical",
		"situational",
		"problem-solving",
	})
	viper.SetDefault("interview.enable_scoring", "true")
	viper.SetDefault("interview.scoring_criteria", []string{
		"clarity",
		"specificity",
		"relevance",
		"structure",
		"confidence",
	})
	viper.SetDefault("interview.max_conversation_history", "20")
	viper.SetDefault("interview.default_personality", string(models.PersonalityProfessionalFriendly))
	viper.SetDefault("interview.idle_timeout_minutes", "30")

	// Map environment variables to config keys
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("websocket.allowed_origins", "WEBSOCKET_ALLOWED_ORIGINS")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("database.seed", "DATABASE_SEED")
	viper.BindEnv("database.max_idle_conns", "DATABASE_MAX_IDLE_CONNS")
	viper.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")
	viper.BindEnv("model.name", "MODEL_NAME")
	viper.BindEnv("model.temperature", "MODEL_TEMPERATURE")
	viper.BindEnv("model.max_tokens", "MODEL_MAX_TOKENS")
	viper.BindEnv("model.transcription", "TRANSCRIPTION_MODEL")
	viper.BindEnv("interview.max_questions_per_session", "INTERVIEW_MAX_QUESTIONS")
	viper.BindEnv("interview.enable_scoring", "INTERVIEW_ENABLE_SCORING")
	viper.BindEnv("interview.max_conversation_history", "INTERVIEW_MAX_HISTORY")
	viper.BindEnv("interview.default_personality", "INTERVIEW_DEFAULT_PERSONALITY")
	viper.BindEnv("interview.idle_timeout_minutes", "INTERVIEW_IDLE_TIMEOUT_MINUTES")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Error reading config file", "error", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
		},
		Database: DatabaseConfig{
			URL:          viper.GetString("database.url"),
			Seed:         viper.GetBool("database.seed"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
		},
		AI: AIConfig{
			GeminiAPIKey:       viper.GetString("gemini.api_key"),
			ModelName:          viper.GetString("model.name"),
			Temperature:        viper.GetFloat64("model.temperature"),
			MaxTokens:          viper.GetInt("model.max_tokens"),
			TranscriptionModel: viper.GetString("model.transcription"),
		},
		Interview: InterviewConfig{
			AvailablePositions:     viper.GetStringSlice("interview.available_positions"),
			MaxQuestionsPerSession: viper.GetInt("interview.max_questions_per_session"),
			QuestionTypes:          viper.GetStringSlice("interview.question_types"),
			EnableScoring:          viper.GetBool("interview.enable_scoring"),
			ScoringCriteria:        viper.GetStringSlice("interview.scoring_criteria"),
			MaxConversationHistory: viper.GetInt("interview.max_conversation_history"),
			DefaultPersonality:     models.Personality(viper.GetString("interview.default_personality")),
			IdleTimeoutMinutes:     viper.GetInt("interview.idle_timeout_minutes"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt.secret"),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: viper.GetString("websocket.allowed_origins"),
		},
	}
}
