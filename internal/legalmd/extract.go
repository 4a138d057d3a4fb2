package legalmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// extractTimeout bounds one extractor invocation.
const extractTimeout = 60 * time.Second

// formFeed is the page separator pdftotext -layout emits between pages.
const formFeed = "\f"

// ExtractPages invokes the external text extractor in layout-preserving
// mode and splits its output into an ordered, 1-based page sequence.
func ExtractPages(ctx context.Context, path string) ([]string, error) {
	cctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "pdftotext", "-layout", path, "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if cctx.Err() != nil {
			return nil, &ToolError{Tool: "pdftotext", Err: fmt.Errorf("timed out")}
		}
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return nil, &ToolError{Tool: "pdftotext", ExitCode: exitCode, StderrTail: tail(stderr.String(), 400), Err: err}
	}

	pages := strings.Split(stdout.String(), formFeed)
	// pdftotext emits a trailing form feed after the last page; drop the
	// resulting empty tail element so page count matches the PDF exactly.
	if len(pages) > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	if len(pages) == 0 {
		pages = []string{""}
	}
	return pages, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// PDFStructuralInfo is a diagnostic-only cross-check of the source PDF
// using pdfcpu, the teacher's native PDF parser. It never gates the
// deterministic extract/suspect/OCR decision; a failure to parse simply
// omits the diagnostic (ok=false) and never fails the document, since the
// authoritative page split comes from the external text extractor.
type PDFStructuralInfo struct {
	OK              bool
	PageCount       int
	HasImageStreams bool
}

// InspectPDFStructure runs pdfcpu over path purely for diagnostics.
// Adapted from docpipe/pdf.go's extractPDF/detectImageStreams.
func InspectPDFStructure(path string) PDFStructuralInfo {
	f, err := os.Open(path)
	if err != nil {
		return PDFStructuralInfo{}
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return PDFStructuralInfo{}
	}
	return PDFStructuralInfo{
		OK:              true,
		PageCount:       ctx.PageCount,
		HasImageStreams: detectImageStreams(ctx),
	}
}

// detectImageStreams checks the PDF's cross-reference table for image
// XObjects, adapted from docpipe.detectImageStreams.
func detectImageStreams(ctx *model.Context) bool {
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}
