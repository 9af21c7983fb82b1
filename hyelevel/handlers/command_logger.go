package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/hyelevel/hyelevel"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/logger"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
)

const commandTimeout = 10 * time.Second

// WrapWithLogging wraps a command handler with structured start/finish
// logging, a hard timeout, and panic recovery. The handler runs on its own
// goroutine, outside the gateway dispatcher's recover, so a panicking
// handler must be caught here: it becomes a reported error, never a dead
// process.
func WrapWithLogging(b *hyelevel.Bot, name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					err := fmt.Errorf("command %s panicked: %v", name, r)
					logger.LogError("Recovered command panic", err,
						slog.String("stack", string(debug.Stack())))

					reportCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					if b.Platform != nil {
						platform.ReportError(reportCtx, b.Platform, err)
					}
					done <- err
				}
			}()
			done <- h(e)
		}()

		select {
		case err := <-done:
			duration := time.Since(start)

			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.Duration("took", duration),
			}

			if err != nil {
				slog.Error("Command failed", append(attrs,
					slog.Any("error", err),
					slog.String("status", "failed"),
				)...)
			} else if duration > 2*time.Second {
				slog.Warn("Command executed slowly", append(attrs,
					slog.String("status", "slow"),
				)...)
			} else {
				slog.Info("Command completed", append(attrs,
					slog.String("status", "success"),
				)...)
			}
			return err

		case <-time.After(commandTimeout):
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.String("status", "timeout"),
			)
			return fmt.Errorf("command timed out after %s", commandTimeout)
		}
	}
}
