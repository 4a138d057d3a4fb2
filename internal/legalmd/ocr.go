package legalmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ocrTimeout bounds one page's rasterize+recognize round trip.
const ocrTimeout = 120 * time.Second

// OCRResult is the outcome of running OCR over the suspect pages of one
// document.
type OCRResult struct {
	Record       OCRRunRecord
	Texts        map[int]string // 1-based page index -> recognized text
	PerPageMS    map[int]int64
	Errors       []*OCRPageError
}

// RunOCR rasterizes and recognizes each suspect page in strictly ascending
// index order, honoring the CI sample cap and the artifacts flag. When the
// rasterizer or OCR tool is unavailable, it returns Record.Ran=false with a
// populated SkippedReason and leaves suspect pages untouched by the caller.
func RunOCR(ctx context.Context, path string, suspects []int, caps Capabilities, cfg OCRConfig, sampleCap int, artifactsDir string, logger Logger) OCRResult {
	res := OCRResult{
		Record: OCRRunRecord{
			Enabled:  true,
			Lang:     cfg.Lang,
			PSM:      cfg.PSM,
			OEM:      cfg.OEM,
			DPI:      cfg.DPI,
			RunPages: []int{},
		},
		Texts:     make(map[int]string),
		PerPageMS: make(map[int]int64),
	}

	if len(suspects) == 0 {
		res.Record.Ran = true
		return res
	}

	if !caps.HasRasterizer || !caps.HasOCR {
		res.Record.Ran = false
		res.Record.SkippedReason = "rasterizer_or_ocr_unavailable"
		return res
	}

	pages := suspects
	if sampleCap > 0 && sampleCap < len(pages) {
		pages = pages[:sampleCap]
	}

	res.Record.Ran = true
	for _, page := range pages {
		start := time.Now()
		text, err := ocrOnePage(ctx, path, page, cfg, artifactsDir)
		res.PerPageMS[page] = time.Since(start).Milliseconds()
		if err != nil {
			logger.warn("ocr page failed", "page", page, "error", err)
			res.Errors = append(res.Errors, &OCRPageError{Page: page, Err: err})
			continue
		}
		res.Texts[page] = text
		res.Record.RunPages = append(res.Record.RunPages, page)
	}
	return res
}

// ocrOnePage rasterizes page (1-based) to a PNG and runs Tesseract with the
// primary config, falling back once to the adaptive configuration
// (lang=ind+eng, psm=6) if the primary run fails or its result is empty
// after trimming.
func ocrOnePage(ctx context.Context, pdfPath string, page int, cfg OCRConfig, artifactsDir string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, ocrTimeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "legalmd-ocr-*")
	if err != nil {
		return "", fmt.Errorf("tempdir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	renderedPNG := prefix + ".png"

	if err := rasterizePage(cctx, pdfPath, page, cfg.DPI, prefix); err != nil {
		return "", err
	}

	text, err := recognize(cctx, renderedPNG, cfg.Lang, cfg.PSM, cfg.OEM)
	if err == nil && strings.TrimSpace(text) != "" {
		return persistArtifact(renderedPNG, page, artifactsDir, text)
	}

	fallback := FallbackOCRConfig(cfg)
	text, err = recognize(cctx, renderedPNG, fallback.Lang, fallback.PSM, fallback.OEM)
	if err != nil {
		return "", err
	}
	return persistArtifact(renderedPNG, page, artifactsDir, text)
}

func persistArtifact(renderedPNG string, page int, artifactsDir, text string) (string, error) {
	if artifactsDir != "" {
		ocrDir := filepath.Join(artifactsDir, "ocr")
		if err := os.MkdirAll(ocrDir, 0o755); err == nil {
			dst := filepath.Join(ocrDir, fmt.Sprintf("page-%d.png", page))
			if data, err := os.ReadFile(renderedPNG); err == nil {
				_ = os.WriteFile(dst, data, 0o644)
			}
		}
	}
	return text, nil
}

// rasterizePage renders one PDF page to <prefix>.png at dpi using pdftoppm.
func rasterizePage(ctx context.Context, pdfPath string, page, dpi int, prefix string) error {
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-png", "-singlefile",
		pdfPath, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &ToolError{Tool: "pdftoppm", ExitCode: exitCode, StderrTail: tail(stderr.String(), 400), Err: err}
	}
	if info, err := os.Stat(prefix + ".png"); err != nil || info.Size() == 0 {
		return &ToolError{Tool: "pdftoppm", Err: fmt.Errorf("rendered image missing or empty")}
	}
	return nil
}

// recognize runs Tesseract over the given PNG and returns the recognized
// text (not yet trimmed).
func recognize(ctx context.Context, pngPath, lang string, psm, oem int) (string, error) {
	cmd := exec.CommandContext(ctx, "tesseract", pngPath, "stdout",
		"-l", lang,
		"--psm", strconv.Itoa(psm),
		"--oem", strconv.Itoa(oem))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return "", &ToolError{Tool: "tesseract", ExitCode: exitCode, StderrTail: tail(stderr.String(), 400), Err: err}
	}
	return stdout.String(), nil
}
