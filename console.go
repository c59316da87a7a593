package main

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// consoleTarget is what the operator console talks to.
type consoleTarget interface {
	Submit(ctx context.Context, sender, text string) (string, error)
	Say(ctx context.Context, text string) error
}

// relayConsole sends every input line to the lobby chat. Lines starting with
// the command prefix are also run as commands from the operator.
func relayConsole(ctx context.Context, in io.Reader, target consoleTarget, prefix, operator string) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := target.Say(ctx, line); err != nil {
			log.Error("Failed to relay console line", "error", err)
			if ctx.Err() != nil {
				return
			}
			continue
		}
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		reply, err := target.Submit(ctx, operator, line)
		if err != nil {
			log.Warn("Console command failed", "command", line, "error", err)
			continue
		}
		log.Info("Console command", "command", line, "reply", reply)
	}
	if err := scanner.Err(); err != nil {
		log.Error("Console input closed", "error", err)
	}
}
