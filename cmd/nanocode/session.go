package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/petasbytes/nanocode/internal/config"
	"github.com/petasbytes/nanocode/internal/prompt"
	"github.com/petasbytes/nanocode/internal/provider"
	"github.com/petasbytes/nanocode/internal/runner"
	"github.com/petasbytes/nanocode/internal/telemetry"
	"github.com/petasbytes/nanocode/internal/transport"
	"github.com/petasbytes/nanocode/internal/ui"
	"github.com/petasbytes/nanocode/memory"
	"github.com/petasbytes/nanocode/tools"
)

func runSession(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pc, model, err := cfg.ResolveProvider()
	if err != nil {
		return err
	}
	key, err := config.Credential(pc)
	if err != nil {
		return err
	}

	root := cfg.Root
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return err
		}
	}
	if root, err = filepath.Abs(root); err != nil {
		return err
	}
	telemetry.Configure(cfg.ObserveJSON, cfg.PersistPayloads, telemetry.SessionArtifactsDir(root, cfg.ArtifactsDir))

	reg, err := tools.Default(tools.Options{
		Root:        root,
		Confine:     cfg.Confine,
		BashTimeout: cfg.BashTimeout,
		HTTPTimeout: cfg.WebTimeout,
		SearchURL:   cfg.SearchURL,
	})
	if err != nil {
		return err
	}
	reg.WithLogger(logger)

	httpClient := transport.NewClient()
	httpClient.Timeout = cfg.HTTPTimeout
	prov, err := provider.New(pc, provider.Options{
		Model:      model,
		Thinking:   cfg.Thinking,
		APIKey:     key,
		HTTPClient: httpClient,
		ExtraBody:  cfg.ExtraBody[pc.Name],
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	sys, err := prompt.Build(root, cfg.SkillsDir)
	if err != nil {
		return fmt.Errorf("system prompt: %w", err)
	}

	printer := ui.NewPrinter(os.Stdout, reg.Specs())
	r := runner.New(prov, reg, memory.New())
	r.System = sys.Text
	r.Model = model
	r.Parallel = cfg.ParallelTools
	r.Observer = printer
	r.Log = logger

	printer.Banner(pc.Name, model, cfg.Thinking, root)
	if sys.AgentLoaded {
		printer.Notice("Loaded " + prompt.AgentFile + "\n")
	}
	if n := len(sys.Skills); n > 0 {
		printer.Notice(fmt.Sprintf("Loaded %d skill(s), /skills to list\n", n))
	}
	logger.Debug().Str("provider", pc.Name).Str("model", model).Str("root", root).Msg("session started")

	return repl(ctx, r, printer, sys.Skills)
}

func historyPath() string {
	p := config.DefaultPath()
	if p == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(p), "history")
}

// repl reads lines until /q, exit, EOF or Ctrl+C at the prompt. Ctrl+C
// during a turn cancels only that turn.
func repl(ctx context.Context, r *runner.Runner, printer *ui.Printer, skills []prompt.Skill) error {
	in := ui.NewInput(historyPath())
	defer in.Close()

	var (
		mu         sync.Mutex
		cancelTurn context.CancelFunc
	)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for sig := range sigChan {
			mu.Lock()
			cancel := cancelTurn
			cancelTurn = nil
			mu.Unlock()
			if cancel != nil {
				cancel()
				continue
			}
			if sig == syscall.SIGTERM {
				// Restore the terminal before leaving.
				in.Close()
				os.Exit(143)
			}
		}
	}()

	for {
		printer.Separator()
		line, err := in.ReadLine()
		if err != nil {
			if errors.Is(err, ui.ErrAborted) || ui.IsEOF(err) {
				return nil
			}
			return err
		}
		printer.Separator()

		if strings.TrimSpace(line) == "/skills" {
			printer.Plain(prompt.FormatSkills(skills))
			continue
		}

		turnCtx, cancel := context.WithCancel(ctx)
		mu.Lock()
		cancelTurn = cancel
		mu.Unlock()

		outcome, err := r.Submit(turnCtx, line)

		mu.Lock()
		cancelTurn = nil
		mu.Unlock()
		cancel()

		switch outcome {
		case runner.OutcomeExit:
			return nil
		case runner.OutcomeCleared:
			printer.Success("Cleared conversation")
			continue
		}
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			printer.Notice("[cancelled]")
		default:
			logger.Debug().Err(err).Msg("turn failed")
			printer.Error(err)
		}
		if outcome == runner.OutcomeTurn {
			printer.Plain("")
		}
	}
}
