package orchestrators

import (
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
)

const (
	missingCropChoices = "Please select Soil Type, Irrigation Type, and Previous Crop."
	invalidImage       = "Please upload a valid image file (JPG, PNG, JPEG)."
)

var imageTypes = []string{"image/jpeg", "image/jpg", "image/png"}

// parseNumber accepts only a complete, finite decimal number.
func parseNumber(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errx.Validation(fmt.Sprintf("Invalid input for %s. Please enter a valid number.", field))
	}
	return v, nil
}

func requireChoice(field, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return errx.Validation(fmt.Sprintf("Invalid input for %s. Please choose one of: %s.", field, strings.Join(allowed, ", ")))
	}
	return nil
}

type numericField struct {
	name string
	raw  string
	dst  *float64
}

func parseNumbers(fields []numericField) error {
	for _, f := range fields {
		v, err := parseNumber(f.name, f.raw)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

// buildCropRequest validates the form and maps "Other" to "Unknown" for
// previous_crop. Numeric fields are checked before choices.
func buildCropRequest(form model.CropForm) (model.CropRequest, error) {
	var req model.CropRequest
	err := parseNumbers([]numericField{
		{"soil_ph", form.SoilPH, &req.SoilPH},
		{"nitrogen_kg_ha", form.NitrogenKgHa, &req.NitrogenKgHa},
		{"phosphorus_kg_ha", form.PhosphorusKgHa, &req.PhosphorusKgHa},
		{"potassium_kg_ha", form.PotassiumKgHa, &req.PotassiumKgHa},
		{"annual_rainfall_mm", form.AnnualRainfallMm, &req.AnnualRainfallMm},
		{"avg_temp_c", form.AvgTempC, &req.AvgTempC},
		{"avg_humidity_pct", form.AvgHumidityPct, &req.AvgHumidityPct},
	})
	if err != nil {
		return model.CropRequest{}, err
	}

	soil := strings.TrimSpace(form.SoilType)
	irrigation := strings.TrimSpace(form.IrrigationType)
	previous := strings.TrimSpace(form.PreviousCrop)
	if soil == "" || irrigation == "" || previous == "" {
		return model.CropRequest{}, errx.Validation(missingCropChoices)
	}
	if err := requireChoice("soil_type", soil, model.CropSoilTypes); err != nil {
		return model.CropRequest{}, err
	}
	if err := requireChoice("irrigation_type", irrigation, model.CropIrrigationTypes); err != nil {
		return model.CropRequest{}, err
	}
	if err := requireChoice("previous_crop", previous, model.CropPreviousCrops); err != nil {
		return model.CropRequest{}, err
	}
	if previous == model.PreviousCropOther {
		previous = model.PreviousCropUnknown
	}

	req.SoilType = soil
	req.IrrigationType = irrigation
	req.PreviousCrop = previous
	return req, nil
}

func buildFertilizerRequest(form model.FertilizerForm) (model.FertilizerRequest, error) {
	var req model.FertilizerRequest
	err := parseNumbers([]numericField{
		{"Temparature", form.Temparature, &req.Temparature},
		{"Humidity", form.Humidity, &req.Humidity},
		{"Moisture", form.Moisture, &req.Moisture},
		{"Nitrogen", form.Nitrogen, &req.Nitrogen},
		{"Potassium", form.Potassium, &req.Potassium},
		{"Phosphorous", form.Phosphorous, &req.Phosphorous},
	})
	if err != nil {
		return model.FertilizerRequest{}, err
	}

	soil := strings.TrimSpace(form.SoilType)
	crop := strings.TrimSpace(form.CropType)
	if err := requireChoice("Soil_Type", soil, model.FertilizerSoilTypes); err != nil {
		return model.FertilizerRequest{}, err
	}
	if err := requireChoice("Crop_Type", crop, model.FertilizerCropTypes); err != nil {
		return model.FertilizerRequest{}, err
	}
	req.SoilType = soil
	req.CropType = crop
	return req, nil
}

// validateImage fills in a missing content type from the data and accepts
// JPEG and PNG only.
func validateImage(img model.ImageUpload) (model.ImageUpload, error) {
	if len(img.Data) == 0 {
		return img, errx.Validation(invalidImage)
	}
	ct := strings.ToLower(strings.TrimSpace(img.ContentType))
	if ct == "" {
		ct = http.DetectContentType(img.Data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !slices.Contains(imageTypes, ct) {
		return img, errx.Validation(invalidImage)
	}
	img.ContentType = ct
	return img, nil
}
