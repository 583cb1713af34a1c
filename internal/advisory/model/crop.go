package model

// Choice lists accepted by the crop recommendation service.
var (
	CropSoilTypes       = []string{"Black (Vertisol)", "Laterite", "Loamy", "Red", "Sandy"}
	CropIrrigationTypes = []string{"Drip", "Groundwater", "Mixed", "Rainfed", "Sprinkler"}
	CropPreviousCrops   = []string{"Dal", "Fallow", "Ganna", "Makka", "Moongfali", "Rice", "Sarson", "Wheat", "Other"}
)

// PreviousCropOther is the form choice sent to the service as PreviousCropUnknown.
const (
	PreviousCropOther   = "Other"
	PreviousCropUnknown = "Unknown"
)

// CropForm holds raw, unvalidated field values as typed by the user.
type CropForm struct {
	SoilType         string
	IrrigationType   string
	PreviousCrop     string
	SoilPH           string
	NitrogenKgHa     string
	PhosphorusKgHa   string
	PotassiumKgHa    string
	AnnualRainfallMm string
	AvgTempC         string
	AvgHumidityPct   string
}

// CropRequest is the validated /recommend_crop payload.
type CropRequest struct {
	SoilType         string  `json:"soil_type"`
	IrrigationType   string  `json:"irrigation_type"`
	PreviousCrop     string  `json:"previous_crop"`
	SoilPH           float64 `json:"soil_ph"`
	NitrogenKgHa     float64 `json:"nitrogen_kg_ha"`
	PhosphorusKgHa   float64 `json:"phosphorus_kg_ha"`
	PotassiumKgHa    float64 `json:"potassium_kg_ha"`
	AnnualRainfallMm float64 `json:"annual_rainfall_mm"`
	AvgTempC         float64 `json:"avg_temp_c"`
	AvgHumidityPct   float64 `json:"avg_humidity_pct"`
}

type CropRecommendation struct {
	CropName string `json:"recommended_crop"`
}
