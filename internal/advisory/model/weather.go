package model

import "fmt"

// SelectorKind tags which variant of LocationSelector is populated.
type SelectorKind string

const (
	SelectByName        SelectorKind = "name"
	SelectByCoordinates SelectorKind = "coordinates"
)

// LocationSelector identifies the place a weather snapshot is requested for.
type LocationSelector struct {
	Kind SelectorKind
	City string
	Lat  float64
	Lon  float64
}

func ByName(city string) LocationSelector {
	return LocationSelector{Kind: SelectByName, City: city}
}

func ByCoordinates(lat, lon float64) LocationSelector {
	return LocationSelector{Kind: SelectByCoordinates, Lat: lat, Lon: lon}
}

func (s LocationSelector) String() string {
	if s.Kind == SelectByCoordinates {
		return fmt.Sprintf("%.4f,%.4f", s.Lat, s.Lon)
	}
	return s.City
}

// WeatherSnapshot is the resolved weather for one LocationSelector. Values are
// handed out by the weather store and must be treated as read-only.
type WeatherSnapshot struct {
	City          string   `json:"city"`
	Country       string   `json:"country"`
	Temperature   float64  `json:"temperature"`
	FeelsLike     float64  `json:"feels_like"`
	TempMin       float64  `json:"temp_min"`
	TempMax       float64  `json:"temp_max"`
	Humidity      float64  `json:"humidity"`
	Pressure      float64  `json:"pressure"`
	Visibility    *float64 `json:"visibility,omitempty"`
	Clouds        float64  `json:"clouds"`
	WindSpeed     float64  `json:"wind_speed"`
	WindDirection string   `json:"wind_direction,omitempty"`
	Sunrise       string   `json:"sunrise"`
	Sunset        string   `json:"sunset"`
	Description   string   `json:"description"`
	IconURL       string   `json:"icon_url,omitempty"`
	Rain1h        *float64 `json:"rain_1h,omitempty"`

	Selector LocationSelector `json:"-"`
}
