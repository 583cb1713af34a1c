package views

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	"github.com/fasal-sarthi-core/client/internal/advisory/orchestrators"
	"github.com/fasal-sarthi-core/client/internal/advisory/weather"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
)

type stubGateway struct {
	weatherErr error
}

func (s stubGateway) ScanImage(ctx context.Context, img model.ImageUpload) (model.ScanDiagnosis, error) {
	return model.ScanDiagnosis{DiseaseLabel: "Apple___Black_rot", Confidence: "91.2%"}, nil
}

func (s stubGateway) RecommendCrop(ctx context.Context, req model.CropRequest) (model.CropRecommendation, error) {
	return model.CropRecommendation{CropName: "Sarson"}, nil
}

func (s stubGateway) RecommendFertilizer(ctx context.Context, req model.FertilizerRequest) (model.FertilizerRecommendation, error) {
	return model.FertilizerRecommendation{FertilizerName: "DAP"}, nil
}

func (s stubGateway) GetWeather(ctx context.Context, sel model.LocationSelector) (model.WeatherSnapshot, error) {
	if s.weatherErr != nil {
		return model.WeatherSnapshot{}, s.weatherErr
	}
	rain := 2.5
	return model.WeatherSnapshot{City: sel.City, Country: "IN", Temperature: 31.4, Humidity: 48, Rain1h: &rain, Description: "light rain"}, nil
}

func (s stubGateway) SendChatMessage(ctx context.Context, text string, history []model.HistoryEntry, opts ...model.ChatOption) (model.ChatReply, error) {
	return model.ChatReply{Text: "Upchaar: Captan spray."}, nil
}

func TestWeatherTable(t *testing.T) {
	store := weather.NewStore(stubGateway{}, model.WeatherConfig{DefaultCity: "Indore"})
	snap := store.Activate(context.Background())

	var buf bytes.Buffer
	if err := New(&buf, false).Weather(snap); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Weather: Indore", "Indore, IN", "31.4°C", "Rain (1h)", "2.5 mm"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "Visibility") {
		t.Fatalf("absent visibility must not be rendered\n%s", out)
	}
}

func TestWeatherErrorAndIdle(t *testing.T) {
	store := weather.NewStore(stubGateway{weatherErr: errx.Server(errors.New("http 404"), 404, "city not found")}, model.WeatherConfig{})

	var buf bytes.Buffer
	r := New(&buf, false)
	if err := r.Weather(store.Snapshot()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Nothing to show yet.") {
		t.Fatalf("unexpected idle view\n%s", buf.String())
	}

	buf.Reset()
	if err := r.Weather(store.SelectCity(context.Background(), "Atlantis")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Error: City not found. Check spelling.") {
		t.Fatalf("unexpected error view\n%s", buf.String())
	}
}

func TestScanWithCure(t *testing.T) {
	scan := orchestrators.NewScan(stubGateway{})
	scan.Submit(context.Background(), model.ImageUpload{ContentType: "image/png", Data: []byte("png")})
	snap, err := scan.RequestCure(context.Background())
	if err != nil {
		t.Fatalf("cure: %v", err)
	}

	var buf bytes.Buffer
	if err := New(&buf, false).Scan(snap); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Apple   Black rot", "91.2%", "Cure", "Captan"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}

func TestCropWithoutAdviceOmitsSecondTable(t *testing.T) {
	crop := orchestrators.NewCropRec(stubGateway{})
	snap := crop.Submit(context.Background(), model.CropForm{
		SoilType: "Red", IrrigationType: "Rainfed", PreviousCrop: "Dal",
		SoilPH: "7", NitrogenKgHa: "50", PhosphorusKgHa: "30", PotassiumKgHa: "30",
		AnnualRainfallMm: "600", AvgTempC: "22", AvgHumidityPct: "60",
	})

	var buf bytes.Buffer
	if err := New(&buf, false).Crop(snap); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Sarson") || strings.Contains(buf.String(), "Farming advice") {
		t.Fatalf("unexpected crop view\n%s", buf.String())
	}
}

func TestFertilizerJSON(t *testing.T) {
	fert := orchestrators.NewFertilizer(stubGateway{})
	snap := fert.Submit(context.Background(), model.FertilizerForm{
		Temparature: "30", Humidity: "60", Moisture: "40", Nitrogen: "10", Potassium: "5", Phosphorous: "20",
		SoilType: "Black", CropType: "Cotton",
	})

	var buf bytes.Buffer
	if err := New(&buf, true).Fertilizer(snap); err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded struct {
		State struct {
			Status string `json:"status"`
			Result struct {
				Name string `json:"recommended_fertilizer"`
			} `json:"result"`
		} `json:"state"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.State.Status != "succeeded" || decoded.State.Result.Name != "DAP" {
		t.Fatalf("unexpected json %s", buf.String())
	}
}

func TestChatAndTranscript(t *testing.T) {
	chat := orchestrators.NewChat(stubGateway{}, model.ChatConfig{Greeting: "Namaste!"}, nil)
	snap, err := chat.Send(context.Background(), "patte peele kyun?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	var buf bytes.Buffer
	r := New(&buf, false)
	if err := r.Chat(snap); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Namaste!", "You", "patte peele kyun?", "Sarthi AI"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}

	buf.Reset()
	if err := r.Turn(snap.Turns[len(snap.Turns)-1]); err != nil {
		t.Fatalf("turn: %v", err)
	}
	if buf.String() != "Sarthi AI: Upchaar: Captan spray.\n" {
		t.Fatalf("unexpected turn %q", buf.String())
	}

	buf.Reset()
	msgs := []*schema.Message{schema.UserMessage("hi"), nil, schema.AssistantMessage("hello", nil)}
	if err := r.Transcript("s1", msgs); err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if !strings.Contains(buf.String(), "Transcript s1") || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("unexpected transcript\n%s", buf.String())
	}
}
