package gateway

import (
	"strings"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

type scanResponse struct {
	PredictedDisease *string `json:"predicted_disease"`
	Confidence       *string `json:"confidence"`
}

func (r scanResponse) decode(op operation) (model.ScanDiagnosis, error) {
	if r.PredictedDisease == nil || strings.TrimSpace(*r.PredictedDisease) == "" {
		return model.ScanDiagnosis{}, schemaError(op, "predicted_disease")
	}
	if r.Confidence == nil {
		return model.ScanDiagnosis{}, schemaError(op, "confidence")
	}
	return model.ScanDiagnosis{DiseaseLabel: *r.PredictedDisease, Confidence: *r.Confidence}, nil
}

type cropResponse struct {
	RecommendedCrop *string `json:"recommended_crop"`
}

func (r cropResponse) decode(op operation) (model.CropRecommendation, error) {
	if r.RecommendedCrop == nil || strings.TrimSpace(*r.RecommendedCrop) == "" {
		return model.CropRecommendation{}, schemaError(op, "recommended_crop")
	}
	return model.CropRecommendation{CropName: *r.RecommendedCrop}, nil
}

type fertilizerResponse struct {
	RecommendedFertilizer *string `json:"recommended_fertilizer"`
}

func (r fertilizerResponse) decode(op operation) (model.FertilizerRecommendation, error) {
	if r.RecommendedFertilizer == nil || strings.TrimSpace(*r.RecommendedFertilizer) == "" {
		return model.FertilizerRecommendation{}, schemaError(op, "recommended_fertilizer")
	}
	return model.FertilizerRecommendation{FertilizerName: *r.RecommendedFertilizer}, nil
}

type chatRequest struct {
	Message string               `json:"message"`
	History []model.HistoryEntry `json:"history,omitempty"`
}

type chatResponse struct {
	Response *string `json:"response"`
}

func (r chatResponse) decode(op operation) (model.ChatReply, error) {
	if r.Response == nil {
		return model.ChatReply{}, schemaError(op, "response")
	}
	return model.ChatReply{Text: *r.Response}, nil
}

// weatherResponse mirrors /get_weather. The service drops keys whose value
// is unknown, so only city, temperature and humidity are required.
type weatherResponse struct {
	City          *string  `json:"city"`
	Country       string   `json:"country"`
	Temperature   *float64 `json:"temperature"`
	FeelsLike     *float64 `json:"feels_like"`
	TempMin       *float64 `json:"temp_min"`
	TempMax       *float64 `json:"temp_max"`
	Humidity      *float64 `json:"humidity"`
	Pressure      *float64 `json:"pressure"`
	Visibility    *float64 `json:"visibility"`
	Clouds        *float64 `json:"clouds"`
	WindSpeed     *float64 `json:"wind_speed"`
	WindDirection string   `json:"wind_direction"`
	Sunrise       string   `json:"sunrise"`
	Sunset        string   `json:"sunset"`
	Description   string   `json:"description"`
	IconURL       string   `json:"icon_url"`
	Rain1h        *float64 `json:"rain_1h"`
}

func (r weatherResponse) decode(op operation) (model.WeatherSnapshot, error) {
	switch {
	case r.City == nil || strings.TrimSpace(*r.City) == "":
		return model.WeatherSnapshot{}, schemaError(op, "city")
	case r.Temperature == nil:
		return model.WeatherSnapshot{}, schemaError(op, "temperature")
	case r.Humidity == nil:
		return model.WeatherSnapshot{}, schemaError(op, "humidity")
	}
	return model.WeatherSnapshot{
		City:          *r.City,
		Country:       r.Country,
		Temperature:   *r.Temperature,
		FeelsLike:     deref(r.FeelsLike),
		TempMin:       deref(r.TempMin),
		TempMax:       deref(r.TempMax),
		Humidity:      *r.Humidity,
		Pressure:      deref(r.Pressure),
		Visibility:    r.Visibility,
		Clouds:        deref(r.Clouds),
		WindSpeed:     deref(r.WindSpeed),
		WindDirection: r.WindDirection,
		Sunrise:       r.Sunrise,
		Sunset:        r.Sunset,
		Description:   r.Description,
		IconURL:       r.IconURL,
		Rain1h:        r.Rain1h,
	}, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
