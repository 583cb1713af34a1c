package orchestrators

import (
	"context"
	"sync"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
)

type chatCall struct {
	text     string
	history  []model.HistoryEntry
	fallback string
}

// fakeGateway records every call and answers through the optional hooks.
type fakeGateway struct {
	mu        sync.Mutex
	scanCalls []model.ImageUpload
	cropCalls []model.CropRequest
	fertCalls []model.FertilizerRequest
	chatCalls []chatCall
	onScan    func(ctx context.Context, img model.ImageUpload) (model.ScanDiagnosis, error)
	onCrop    func(ctx context.Context, req model.CropRequest) (model.CropRecommendation, error)
	onFert    func(ctx context.Context, req model.FertilizerRequest) (model.FertilizerRecommendation, error)
	onChat    func(ctx context.Context, call chatCall) (model.ChatReply, error)
}

func (f *fakeGateway) ScanImage(ctx context.Context, img model.ImageUpload) (model.ScanDiagnosis, error) {
	f.mu.Lock()
	f.scanCalls = append(f.scanCalls, img)
	f.mu.Unlock()
	if f.onScan != nil {
		return f.onScan(ctx, img)
	}
	return model.ScanDiagnosis{DiseaseLabel: "Tomato___Late_blight", Confidence: "97.5%"}, nil
}

func (f *fakeGateway) RecommendCrop(ctx context.Context, req model.CropRequest) (model.CropRecommendation, error) {
	f.mu.Lock()
	f.cropCalls = append(f.cropCalls, req)
	f.mu.Unlock()
	if f.onCrop != nil {
		return f.onCrop(ctx, req)
	}
	return model.CropRecommendation{CropName: "Wheat"}, nil
}

func (f *fakeGateway) RecommendFertilizer(ctx context.Context, req model.FertilizerRequest) (model.FertilizerRecommendation, error) {
	f.mu.Lock()
	f.fertCalls = append(f.fertCalls, req)
	f.mu.Unlock()
	if f.onFert != nil {
		return f.onFert(ctx, req)
	}
	return model.FertilizerRecommendation{FertilizerName: "Urea"}, nil
}

func (f *fakeGateway) SendChatMessage(ctx context.Context, text string, history []model.HistoryEntry, opts ...model.ChatOption) (model.ChatReply, error) {
	call := chatCall{text: text, history: history, fallback: model.ApplyChatOptions(opts...).Fallback}
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, call)
	f.mu.Unlock()
	if f.onChat != nil {
		return f.onChat(ctx, call)
	}
	return model.ChatReply{Text: "Theek hai."}, nil
}

func (f *fakeGateway) counts() (scan, crop, fert, chat int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scanCalls), len(f.cropCalls), len(f.fertCalls), len(f.chatCalls)
}

func (f *fakeGateway) lastChat() chatCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatCalls[len(f.chatCalls)-1]
}

func validCropForm() model.CropForm {
	return model.CropForm{
		SoilType:         "Loamy",
		IrrigationType:   "Drip",
		PreviousCrop:     "Wheat",
		SoilPH:           "6.5",
		NitrogenKgHa:     "90",
		PhosphorusKgHa:   "42",
		PotassiumKgHa:    "43",
		AnnualRainfallMm: "800",
		AvgTempC:         "25",
		AvgHumidityPct:   "70",
	}
}

func validFertilizerForm() model.FertilizerForm {
	return model.FertilizerForm{
		Temparature: "26",
		Humidity:    "52",
		Moisture:    "38",
		Nitrogen:    "37",
		Potassium:   "0",
		Phosphorous: "0",
		SoilType:    "Sandy",
		CropType:    "Maize",
	}
}
