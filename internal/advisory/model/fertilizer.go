package model

// Choice lists accepted by the fertilizer recommendation service.
var (
	FertilizerSoilTypes = []string{"Black", "Clayey", "Loamy", "Red", "Sandy"}
	FertilizerCropTypes = []string{
		"Barley", "Cotton", "Ground Nuts", "Maize", "Millets", "Oil seeds", "Paddy", "Pulses",
		"Sugarcane", "Tobacco", "Wheat", "coffee", "kidneybeans", "orange", "pomegranate", "rice", "watermelon",
	}
)

// FertilizerForm holds raw field values. Field names follow the service keys,
// including its "Temparature" spelling.
type FertilizerForm struct {
	Temparature string
	Humidity    string
	Moisture    string
	Nitrogen    string
	Potassium   string
	Phosphorous string
	SoilType    string
	CropType    string
}

// FertilizerRequest is the validated /recommend_fertilizer payload.
type FertilizerRequest struct {
	Temparature float64 `json:"Temparature"`
	Humidity    float64 `json:"Humidity"`
	Moisture    float64 `json:"Moisture"`
	Nitrogen    float64 `json:"Nitrogen"`
	Potassium   float64 `json:"Potassium"`
	Phosphorous float64 `json:"Phosphorous"`
	SoilType    string  `json:"Soil_Type"`
	CropType    string  `json:"Crop_Type"`
}

type FertilizerRecommendation struct {
	FertilizerName string `json:"recommended_fertilizer"`
}
