package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
)

func TestRenderCureUsesReadableDiseaseName(t *testing.T) {
	got, err := RenderCure(context.Background(), model.ScanDiagnosis{DiseaseLabel: "Corn_Common_rust", Confidence: "91.00%"})
	if err != nil {
		t.Fatalf("render cure: %v", err)
	}
	if !strings.HasPrefix(got, "Meri fasal ko Corn Common rust ho gaya hai.") {
		t.Fatalf("unexpected prompt %q", got)
	}
	if !strings.HasSuffix(got, "response only in hindi.") {
		t.Fatalf("template tail missing: %q", got)
	}
}

func TestRenderAdviceNamesCrop(t *testing.T) {
	got, err := RenderAdvice(context.Background(), model.CropRecommendation{CropName: "Sarson"})
	if err != nil {
		t.Fatalf("render advice: %v", err)
	}
	if !strings.HasPrefix(got, "Mujhe Sarson ugane ke liye") {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestRenderRejectsEmptyInput(t *testing.T) {
	if _, err := RenderCure(context.Background(), model.ScanDiagnosis{}); errx.KindOf(err) != errx.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := RenderAdvice(context.Background(), model.CropRecommendation{CropName: "  "}); errx.KindOf(err) != errx.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
