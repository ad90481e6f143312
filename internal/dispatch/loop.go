package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tartampluch/go-contacts/internal/config"
)

// Loop reads commands from r and writes prompts, replies, and one-line error
// renderings to w until close/exit, end of input, or context cancellation.
// Core failures are rendered and swallowed here; only I/O failures propagate.
func (d *Dispatcher) Loop(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)

	for {
		if err := ctx.Err(); err != nil {
			slog.Info(config.MsgLoopStop, config.LogKeyComponent, config.CompDispatch)
			return nil
		}

		fmt.Fprintf(w, "\n%s", config.Prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("%s: %w", config.ErrReadInput, err)
			}
			slog.Info(config.MsgLoopStop, config.LogKeyComponent, config.CompDispatch)
			return nil
		}

		reply, quit, err := d.Execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		if reply != "" {
			fmt.Fprintln(w, reply)
		}
		if quit {
			return nil
		}
	}
}
