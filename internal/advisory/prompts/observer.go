package prompts

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/fasal-sarthi-core/client/pkg/logger"
)

// newPromptHandler logs prompt render lifecycle events.
func newPromptHandler() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Prompt(&callbackHelper.PromptCallbackHandler{
			OnStart: func(ctx context.Context, info *einocb.RunInfo, input *prompt.CallbackInput) context.Context {
				if input != nil {
					logx.Debug().Str("prompt", info.Name).Int("vars", len(input.Variables)).Msg("prompt render start")
				}
				return ctx
			},
			OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
				if output != nil && len(output.Result) > 0 && output.Result[0] != nil {
					logx.Debug().Str("prompt", info.Name).Int("chars", len(output.Result[0].Content)).Msg("prompt rendered")
				}
				return ctx
			},
			OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
				logx.Error().Err(err).Str("prompt", info.Name).Msg("prompt render failed")
				return ctx
			},
		}).
		Handler()
}
