package orchestrators

import (
	"context"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	"github.com/fasal-sarthi-core/client/internal/advisory/prompts"
)

const adviceFailureText = "Sarthi AI se salah lene mein error hua. Kripya dobara try karein."

type CropSnapshot = ChainSnapshot[model.CropRecommendation, model.ChatReply]

type cropGateway interface {
	model.CropGateway
	model.ChatGateway
}

// CropRec recommends a crop for the submitted soil profile and, when asked,
// fetches a growing guide for it.
type CropRec struct {
	gw    cropGateway
	chain *Chain[model.CropRecommendation, model.ChatReply]
}

func NewCropRec(gw cropGateway) *CropRec {
	return &CropRec{gw: gw, chain: NewChain[model.CropRecommendation, model.ChatReply]("crop_rec")}
}

func (c *CropRec) Submit(ctx context.Context, form model.CropForm) CropSnapshot {
	req, err := buildCropRequest(form)
	if err != nil {
		return c.chain.Reject(err)
	}
	return c.chain.RunPrimary(ctx, func(ctx context.Context) (model.CropRecommendation, error) {
		return c.gw.RecommendCrop(ctx, req)
	})
}

func (c *CropRec) RequestAdvice(ctx context.Context) (CropSnapshot, error) {
	return c.chain.RunSecondary(ctx, func(ctx context.Context, rec model.CropRecommendation) (model.ChatReply, error) {
		question, err := prompts.RenderAdvice(ctx, rec)
		if err != nil {
			return model.ChatReply{}, err
		}
		return c.gw.SendChatMessage(ctx, question, nil, model.WithFallback(adviceFailureText))
	})
}

func (c *CropRec) Clear() CropSnapshot { return c.chain.Clear() }

func (c *CropRec) Snapshot() CropSnapshot { return c.chain.Snapshot() }

func (c *CropRec) Subscribe() (<-chan CropSnapshot, func()) { return c.chain.Subscribe() }
