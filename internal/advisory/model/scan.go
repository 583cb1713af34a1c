package model

import "strings"

// ImageUpload is a leaf image handed to the disease scanner.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ScanDiagnosis is the disease classifier's answer for one image.
type ScanDiagnosis struct {
	DiseaseLabel string `json:"predicted_disease"`
	Confidence   string `json:"confidence"`
}

// DisplayName renders the classifier label the way people write it,
// e.g. "Tomato___Late_blight" becomes "Tomato   Late blight".
func (d ScanDiagnosis) DisplayName() string {
	return strings.ReplaceAll(d.DiseaseLabel, "_", " ")
}
