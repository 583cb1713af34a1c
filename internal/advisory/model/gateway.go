package model

import "context"

// Gateway is the uniform entry point to the remote advisory services. Every
// method may block on the network and fails with an errx.AppError whose Kind
// is validation, network or server. Implementations never retry.
type Gateway interface {
	ScanGateway
	CropGateway
	FertilizerGateway
	WeatherGateway
	ChatGateway
}

type ScanGateway interface {
	ScanImage(ctx context.Context, img ImageUpload) (ScanDiagnosis, error)
}

type CropGateway interface {
	RecommendCrop(ctx context.Context, req CropRequest) (CropRecommendation, error)
}

type FertilizerGateway interface {
	RecommendFertilizer(ctx context.Context, req FertilizerRequest) (FertilizerRecommendation, error)
}

type WeatherGateway interface {
	GetWeather(ctx context.Context, sel LocationSelector) (WeatherSnapshot, error)
}

type ChatGateway interface {
	// SendChatMessage sends text with the prior turns as context. A nil
	// history omits the field entirely.
	SendChatMessage(ctx context.Context, text string, history []HistoryEntry, opts ...ChatOption) (ChatReply, error)
}

// ChatOptions tune a single chat request.
type ChatOptions struct {
	// Fallback replaces the default failure text when the service gives
	// none of its own.
	Fallback string
}

type ChatOption func(*ChatOptions)

func WithFallback(text string) ChatOption {
	return func(o *ChatOptions) { o.Fallback = text }
}

func ApplyChatOptions(opts ...ChatOption) ChatOptions {
	var o ChatOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
