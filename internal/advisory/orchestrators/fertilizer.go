package orchestrators

import (
	"context"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
)

type FertilizerSnapshot = SingleSnapshot[model.FertilizerRecommendation]

type Fertilizer struct {
	gw     model.FertilizerGateway
	single *Single[model.FertilizerRecommendation]
}

func NewFertilizer(gw model.FertilizerGateway) *Fertilizer {
	return &Fertilizer{gw: gw, single: NewSingle[model.FertilizerRecommendation]("fertilizer")}
}

func (f *Fertilizer) Submit(ctx context.Context, form model.FertilizerForm) FertilizerSnapshot {
	req, err := buildFertilizerRequest(form)
	if err != nil {
		return f.single.Reject(err)
	}
	return f.single.Run(ctx, func(ctx context.Context) (model.FertilizerRecommendation, error) {
		return f.gw.RecommendFertilizer(ctx, req)
	})
}

func (f *Fertilizer) Clear() FertilizerSnapshot { return f.single.Clear() }

func (f *Fertilizer) Snapshot() FertilizerSnapshot { return f.single.Snapshot() }

func (f *Fertilizer) Subscribe() (<-chan FertilizerSnapshot, func()) { return f.single.Subscribe() }
