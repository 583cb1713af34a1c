package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
)

//go:embed template/cure_prompt.txt
var curePrompt string

//go:embed template/advice_prompt.txt
var advicePrompt string

// RenderCure builds the question asking the advisor how to treat a diagnosed disease.
func RenderCure(ctx context.Context, diagnosis model.ScanDiagnosis) (string, error) {
	disease := strings.TrimSpace(diagnosis.DisplayName())
	if disease == "" {
		return "", errx.Validation("No diagnosis available to ask a cure for.")
	}
	return render(ctx, "cure_prompt", curePrompt, map[string]any{"Disease": disease})
}

// RenderAdvice builds the question asking the advisor for a growing guide.
func RenderAdvice(ctx context.Context, rec model.CropRecommendation) (string, error) {
	crop := strings.TrimSpace(rec.CropName)
	if crop == "" {
		return "", errx.Validation("No crop recommendation available to ask advice for.")
	}
	return render(ctx, "advice_prompt", advicePrompt, map[string]any{"Crop": crop})
}

// render formats a user message through the Eino prompt component so the
// prompt callbacks fire.
func render(ctx context.Context, name, text string, vars map[string]any) (string, error) {
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      name,
		Type:      "advisory",
		Component: components.ComponentOfPrompt,
	}, newPromptHandler())

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(strings.TrimSpace(text)),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("%s render: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("%s render: empty result", name)
	}
	return msgs[0].Content, nil
}
