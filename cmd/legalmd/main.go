// Command legalmd converts a tree of Indonesian regulatory PDFs into
// structured Markdown plus companion metadata, one document directory per
// input file.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/legalmd/internal/legalmd"
	"github.com/hazyhaar/legalmd/internal/legalmd/ledger"
	"github.com/hazyhaar/legalmd/internal/legalmd/mcpserve"
	"github.com/hazyhaar/legalmd/internal/legalmd/statussrv"
)

func main() {
	if len(os.Args) < 3 {
		printUsage()
		os.Exit(1)
	}

	inputRoot := os.Args[1]
	outputRoot := os.Args[2]
	cfg, keepLinePatterns, configPath, perDocDirFlag, err := parseFlags(os.Args[3:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.InputRoot = inputRoot
	cfg.OutputRoot = outputRoot
	cfg.KeepLines = legalmd.CompileKeepLines(keepLinePatterns)

	perDocDirSet := perDocDirFlag != nil
	if perDocDirSet {
		cfg.PerDocDir = *perDocDirFlag
	}

	var fc *legalmd.FileConfig
	if configPath != "" {
		fc, err = legalmd.LoadFileConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config %s: %v\n", configPath, err)
			os.Exit(1)
		}
		cfg = legalmd.ApplyFileConfig(cfg, fc, perDocDirSet)
	}
	if !perDocDirSet && (fc == nil || fc.PerDocDir == nil) {
		cfg.PerDocDir = true
	}

	cfg.Logger = legalmd.NewSlogLogger(env("LOG_FORMAT", "text"), env("LOG_LEVEL", "info"))
	if n, err := strconv.Atoi(os.Getenv("CI_SAMPLE_SUSPECTS")); err == nil && n > 0 {
		cfg.CISampleSuspects = n
	}
	cfg = legalmd.NewConfig(cfg)

	invocationID := uuid.Must(uuid.NewV7()).String()
	cfg.Logger = cfg.Logger.With("invocation_id", invocationID)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := legalmd.NewLogger(cfg.Logger)
	caps := legalmd.ProbeCapabilities(ctx, logger)

	led, err := ledger.Open(env("LEGALMD_LEDGER", outputRoot+"/.legalmd-ledger.db"))
	if err != nil {
		cfg.Logger.Error("open ledger", "error", err)
		os.Exit(1)
	}
	defer led.Close()

	switch cfg.Serve {
	case "mcp":
		runMCPServer(ctx, cfg, caps)
		return
	case "http":
		runHTTPServer(ctx, cfg, led)
		return
	}

	paths, err := legalmd.EnumeratePDFs(inputRoot)
	if err != nil {
		cfg.Logger.Error("enumerate", "error", err)
		os.Exit(1)
	}

	pipeline := legalmd.NewPipeline(cfg, caps)
	summaries := pipeline.RunAll(ctx, paths)

	strictViolation := false
	for _, s := range summaries {
		status := "ok"
		detail := ""
		if s.Err != nil {
			status = "error"
			detail = s.Err.Error()
			cfg.Logger.Error("document failed", "doc_id", s.DocID, "error", s.Err)
		} else if len(s.Violations) > 0 {
			status = "violation"
			detail = strings.Join(s.Violations, "; ")
			if cfg.Strict {
				strictViolation = true
			}
			cfg.Logger.Warn("kpi violation", "doc_id", s.DocID, "violations", s.Violations)
		}
		if err := led.Record(ctx, ledger.RunRecord{
			DocID:           s.Meta.DocID,
			MetaFingerprint: s.Meta.MetaFingerprint,
			StartedMS:       s.Meta.Timestamps.StartedMS,
			FinishedMS:      s.Meta.Timestamps.FinishedMS,
			Status:          status,
			Detail:          detail,
		}); err != nil {
			cfg.Logger.Warn("ledger record failed", "doc_id", s.DocID, "error", err)
		}
	}

	if cfg.Strict && strictViolation {
		os.Exit(5)
	}
}

func runMCPServer(ctx context.Context, cfg legalmd.Config, caps legalmd.Capabilities) {
	srv := mcp.NewServer(&mcp.Implementation{Name: "legalmd", Version: "1.0.0"}, nil)
	mcpserve.New(cfg, caps).RegisterTools(srv)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
		cfg.Logger.Error("mcp server", "error", err)
		os.Exit(1)
	}
}

func runHTTPServer(ctx context.Context, cfg legalmd.Config, led *ledger.Ledger) {
	r := chi.NewRouter()
	r.Mount("/", statussrv.New(led).Router())
	srv := &http.Server{Addr: cfg.ServeAddr, Handler: r}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	cfg.Logger.Info("status server listening", "addr", cfg.ServeAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		cfg.Logger.Error("status server", "error", err)
		os.Exit(1)
	}
}

// parseFlags returns perDocDir as nil when --per-doc-dir was never passed,
// so the caller can tell "flag omitted" apart from "flag explicitly set to
// its default value" when reconciling against a config file.
func parseFlags(args []string) (cfg legalmd.Config, keepLines []string, configPath string, perDocDir *bool, err error) {
	for _, arg := range args {
		name, value, hasValue := splitFlag(arg)
		switch name {
		case "--config":
			configPath = value
		case "--with-ocr":
			cfg.WithOCR = value
		case "--ocr-lang":
			cfg.OCRLang = value
		case "--ocr-dpi":
			dpi, err := strconv.Atoi(value)
			if err != nil {
				return cfg, nil, "", nil, fmt.Errorf("--ocr-dpi: %w", err)
			}
			cfg.OCRDPI = dpi
		case "--law-mode":
			cfg.LawMode = value
		case "--keep-lines":
			keepLines = append(keepLines, value)
		case "--dump-steps":
			cfg.DumpSteps = boolFlag(value, hasValue)
		case "--artifacts":
			cfg.Artifacts = value == "on"
		case "--per-doc-dir":
			v := value != "off"
			perDocDir = &v
		case "--strict":
			cfg.Strict = boolFlag(value, hasValue)
		case "--workers":
			n, err := strconv.Atoi(value)
			if err != nil {
				return cfg, nil, "", nil, fmt.Errorf("--workers: %w", err)
			}
			cfg.Workers = n
		case "--serve":
			cfg.Serve = value
		case "--serve-addr":
			cfg.ServeAddr = value
		default:
			return cfg, nil, "", nil, fmt.Errorf("unknown flag: %s", arg)
		}
	}
	return cfg, keepLines, configPath, perDocDir, nil
}

// splitFlag splits "--flag=value" into ("--flag", "value", true) or
// "--flag" into ("--flag", "", false).
func splitFlag(arg string) (name, value string, hasValue bool) {
	if idx := strings.Index(arg, "="); idx >= 0 {
		return arg[:idx], arg[idx+1:], true
	}
	return arg, "", false
}

func boolFlag(value string, hasValue bool) bool {
	if !hasValue {
		return true
	}
	return value == "on" || value == "true"
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func printUsage() {
	fmt.Fprint(os.Stderr, `legalmd — convert Indonesian regulatory PDFs to structured Markdown

usage:
  legalmd <input_root> <output_root> [flags]

flags:
  --config=<path>            YAML config file, flags override its values
  --with-ocr=on|off|auto     default auto
  --ocr-lang=<tag>           default ind
  --ocr-dpi=<n>              default 300
  --law-mode=auto            default auto
  --keep-lines=<regex>       repeatable
  --dump-steps               off by default, requires --artifacts=on
  --artifacts=on|off         default off
  --per-doc-dir=on|off       default on
  --strict                   off by default
  --workers=<n>              default 1
  --serve=off|mcp|http       default off
  --serve-addr=<addr>        default :8085
`)
}
