package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	SMTP   SMTPConfig
	OpenAI OpenAIConfig
	Loan   LoanConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	SessionLogFilePath string
	CorsAllowedOrigins string
}

type SMTPConfig struct {
	Host        string
	Port        int
	Email       string
	Password    string
	SenderName  string
	SendTimeout time.Duration
}

type OpenAIConfig struct {
	APIKey          string
	RealtimeURL     string
	RealtimeModel   string
	Voice           string
	CompletionURL   string
	CompletionModel string
	ExtractTimeout  time.Duration
}

type LoanConfig struct {
	AnnualInterestRate float64 // percent, e.g. 9.0
	SalaryMultiple     float64 // max loan = monthly salary * 12 * multiple
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			SessionLogFilePath: getEnv("SESSION_LOG_FILE_PATH", "logs/sessions.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:        getEnvAsInt("SMTP_PORT", 465),
			Email:       getEnv("SMTP_EMAIL", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			SenderName:  getEnv("SMTP_SENDER_NAME", "Home Loan Assistant"),
			SendTimeout: getEnvAsDuration("EMAIL_SEND_TIMEOUT", 10*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			RealtimeURL:     getEnv("OPENAI_REALTIME_URL", "wss://api.openai.com/v1/realtime"),
			RealtimeModel:   getEnv("OPENAI_REALTIME_MODEL", "gpt-4o-realtime-preview"),
			Voice:           getEnv("OPENAI_REALTIME_VOICE", "cedar"),
			CompletionURL:   getEnv("OPENAI_COMPLETION_URL", "https://api.openai.com/v1"),
			CompletionModel: getEnv("OPENAI_COMPLETION_MODEL", "gpt-4o-mini"),
			ExtractTimeout:  getEnvAsDuration("OPENAI_EXTRACT_TIMEOUT", 10*time.Second),
		},
		Loan: LoanConfig{
			AnnualInterestRate: getEnvAsFloat("LOAN_ANNUAL_INTEREST_RATE", 9.0),
			SalaryMultiple:     getEnvAsFloat("LOAN_SALARY_MULTIPLE", 5.0),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
