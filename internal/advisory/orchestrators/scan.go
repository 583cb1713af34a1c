package orchestrators

import (
	"context"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	"github.com/fasal-sarthi-core/client/internal/advisory/prompts"
)

const cureFailureText = "Sarthi AI se ilaaj poochhne mein error hua. Kripya dobara try karein."

type ScanSnapshot = ChainSnapshot[model.ScanDiagnosis, model.ChatReply]

type scanGateway interface {
	model.ScanGateway
	model.ChatGateway
}

// Scan diagnoses a leaf image and, when asked, fetches a cure for the
// diagnosed disease.
type Scan struct {
	gw    scanGateway
	chain *Chain[model.ScanDiagnosis, model.ChatReply]
}

func NewScan(gw scanGateway) *Scan {
	return &Scan{gw: gw, chain: NewChain[model.ScanDiagnosis, model.ChatReply]("scan")}
}

// Submit validates the image and scans it. A new submit discards any
// earlier diagnosis and cure.
func (s *Scan) Submit(ctx context.Context, img model.ImageUpload) ScanSnapshot {
	img, err := validateImage(img)
	if err != nil {
		return s.chain.Reject(err)
	}
	return s.chain.RunPrimary(ctx, func(ctx context.Context) (model.ScanDiagnosis, error) {
		return s.gw.ScanImage(ctx, img)
	})
}

// RequestCure asks the advisor how to treat the current diagnosis.
func (s *Scan) RequestCure(ctx context.Context) (ScanSnapshot, error) {
	return s.chain.RunSecondary(ctx, func(ctx context.Context, d model.ScanDiagnosis) (model.ChatReply, error) {
		question, err := prompts.RenderCure(ctx, d)
		if err != nil {
			return model.ChatReply{}, err
		}
		return s.gw.SendChatMessage(ctx, question, nil, model.WithFallback(cureFailureText))
	})
}

func (s *Scan) Clear() ScanSnapshot { return s.chain.Clear() }

func (s *Scan) Snapshot() ScanSnapshot { return s.chain.Snapshot() }

func (s *Scan) Subscribe() (<-chan ScanSnapshot, func()) { return s.chain.Subscribe() }
