// Package main is an interactive terminal client for the guided dialogue engine.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/easeaico/project-integrate/internal/app"
	"github.com/easeaico/project-integrate/internal/command"
	"github.com/easeaico/project-integrate/internal/config"
	"github.com/easeaico/project-integrate/internal/dialogue"
	"github.com/easeaico/project-integrate/internal/types"
)

func main() {
	protocol := flag.String("protocol", string(types.ProtocolSixFs), "protocol to run: six_fs, polyvagal or johnson")
	resume := flag.String("session", "", "resume an existing session id")
	flag.Parse()

	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err.Error())
		os.Exit(1)
	}
	defer a.Close()

	if err := run(ctx, a, types.Protocol(*protocol), *resume, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("companion stopped", "error", err.Error())
		os.Exit(1)
	}
	fmt.Println("\nTake care. Goodbye.")
}

func run(ctx context.Context, a *app.App, protocol types.Protocol, resume string, in io.Reader, out io.Writer) error {
	id := resume
	if id == "" {
		doc, err := a.Engine.Start(ctx, protocol)
		if err != nil {
			return err
		}
		id = doc.ID
		fmt.Fprintf(out, "session %s (type /help for commands)\n\n", id)
		last, _ := doc.LastAssistant()
		fmt.Fprintf(out, "%s\n", last.Text)
	} else {
		doc, err := a.Engine.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to resume session %s: %w", id, err)
		}
		if last, ok := doc.LastAssistant(); ok {
			fmt.Fprintf(out, "%s\n", last.Text)
		}
	}

	dispatcher := command.NewDispatcher(a.Engine, a.Library)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if cmd, ok := command.Parse(text); ok {
			if cmd.Name == command.Quit {
				return nil
			}
			reply, err := dispatcher.Run(ctx, id, cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n", reply)
			continue
		}

		turn, err := a.Engine.Turn(ctx, id, text)
		if errors.Is(err, dialogue.ErrFinished) {
			fmt.Fprintln(out, "This session is finished. Use /restart to begin again or /quit to leave.")
			continue
		}
		if err != nil {
			return err
		}
		printTurn(out, turn)
	}
}

func printTurn(out io.Writer, turn dialogue.Turn) {
	fmt.Fprintf(out, "\n%s\n", turn.Reply.Text)
	if p := turn.Practice; p != nil {
		fmt.Fprintf(out, "\n  Suggested practice: %s (%d min, %s)\n", p.Title, p.DurationMinutes, p.Urgency)
		for i, step := range p.Steps {
			fmt.Fprintf(out, "    %d. %s\n", i+1, step)
		}
	}
	if turn.PhaseAfter != turn.PhaseFrom {
		fmt.Fprintf(out, "\n  [%s -> %s]\n", turn.PhaseFrom, turn.PhaseAfter)
	}
}
