// Package command defines the operator control-input surface: a small
// interface decoupling the engine lifecycle from however commands
// actually arrive (stdin locally, a chat bot or HTTP endpoint in
// production).
package command

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/sherwood-core/engine/internal/models"
	"github.com/sherwood-core/engine/internal/tracing"
)

// Source delivers operator commands to the engine lifecycle.
type Source interface {
	Commands() <-chan models.EngineCommand
}

var tokens = map[string]models.EngineCommand{
	"start":          models.CmdStart,
	"stop":           models.CmdStop,
	"pause":          models.CmdPause,
	"resume":         models.CmdResume,
	"reset_drawdown": models.CmdResetDrawdown,
	"reset-drawdown": models.CmdResetDrawdown,
}

// StdinSource reads newline-delimited command words from an io.Reader,
// normally os.Stdin. It is a reference implementation standing in for
// a real operator console (e.g. a chat bot): the engine only ever
// depends on Source.
type StdinSource struct {
	out chan models.EngineCommand
}

// NewStdinSource starts a goroutine reading commands from r until r is
// exhausted, an error occurs, or ctx is cancelled.
func NewStdinSource(ctx context.Context, r io.Reader) *StdinSource {
	s := &StdinSource{out: make(chan models.EngineCommand)}
	go s.run(ctx, r)
	return s
}

func (s *StdinSource) run(ctx context.Context, r io.Reader) {
	defer close(s.out)
	log := tracing.Logger(ctx)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		cmd, ok := tokens[line]
		if !ok {
			log.Warn().Str("input", line).Msg("unrecognized command, ignoring")
			continue
		}
		select {
		case s.out <- cmd:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("command source read error")
	}
}

// Commands returns the channel of parsed commands. It closes when the
// underlying reader is exhausted or ctx is cancelled.
func (s *StdinSource) Commands() <-chan models.EngineCommand {
	return s.out
}
