package model

import "time"

// ================ Config ================
type GatewayConfig struct {
	BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:5000"`
	Timeout time.Duration `envconfig:"API_TIMEOUT" default:"120s"`
}

type WeatherConfig struct {
	DefaultCity string `envconfig:"WEATHER_DEFAULT_CITY" default:"Bhopal"`
}

type ChatConfig struct {
	Greeting        string `envconfig:"CHAT_GREETING" default:"नमस्ते! मैं फसल साथी AI हूं 🌱 आपकी कृषि संबंधी जिज्ञासाओं का समाधान करने में मदद कर सकता हूं। कृपया अपना प्रश्न पूछें।"`
	MaxHistoryTurns int    `envconfig:"CHAT_MAX_HISTORY_TURNS" default:"20"`
	TranscriptTTL   string `envconfig:"CHAT_TRANSCRIPT_TTL" default:"24h"`
}
