package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	"github.com/fasal-sarthi-core/client/internal/advisory/orchestrators"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
	logx "github.com/fasal-sarthi-core/client/pkg/logger"
)

func chatCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask Sarthi AI farming questions (/reset starts over, /quit exits)",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			var archive model.TranscriptRepository
			if a.cfg.Redis.Enabled() {
				r, err := a.openArchive()
				if err != nil {
					logx.Warn().Err(err).Msg("chat transcripts disabled")
				} else {
					archive = r
				}
			}

			chat := orchestrators.NewChat(a.gw, a.cfg.Chat, archive)
			snap := chat.Snapshot()
			if session != "" {
				var err error
				if snap, err = chat.Resume(ctx, session); err != nil {
					return err
				}
			}
			if err := a.render.Chat(snap); err != nil {
				return err
			}
			return runChat(ctx, chat, a, os.Stdin, os.Stdout)
		}),
	}
	cmd.Flags().StringVar(&session, "session", "", "resume an archived session")
	return cmd
}

// runChat reads one message per line until EOF, /quit or cancellation.
func runChat(ctx context.Context, chat *orchestrators.Chat, a *app, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			if err := a.render.Chat(chat.Reset()); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintln(out, "Sarthi AI:", model.PlaceholderText)
		snap, err := chat.Send(ctx, line)
		if err != nil {
			fmt.Fprintln(out, errx.UserMessage(err))
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		if n := len(snap.Turns); n > 0 {
			if err := a.render.Turn(snap.Turns[n-1]); err != nil {
				return err
			}
		}
	}
}
