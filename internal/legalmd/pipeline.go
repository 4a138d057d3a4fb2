package legalmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// RunSummary is what the driver needs after processing one document: the
// emitted metadata (for the run ledger) and any KPI violations. Violations
// are computed for every document; the driver exits non-zero on them only
// under --strict.
type RunSummary struct {
	DocID       string
	Meta        Meta
	Violations  []string
	Err         error
}

// Pipeline runs the full extract -> ... -> emit sequence over a set of
// documents, honoring Config.Workers for document-level parallelism. Per
// spec.md §5, stages within one document are strictly sequential; only
// whole documents run concurrently.
type Pipeline struct {
	cfg  Config
	caps Capabilities
}

// NewPipeline binds a probed Capabilities set to a Config.
func NewPipeline(cfg Config, caps Capabilities) *Pipeline {
	return &Pipeline{cfg: cfg, caps: caps}
}

// RunAll processes every path in paths, at most cfg.Workers at a time, and
// returns one RunSummary per document in the same order as paths (not
// completion order) so downstream writers never observe a result ordering
// that depends on scheduling.
func (p *Pipeline) RunAll(ctx context.Context, paths []string) []RunSummary {
	results := make([]RunSummary, len(paths))
	sem := make(chan struct{}, p.cfg.Workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = RunSummary{Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			results[i] = p.RunOne(ctx, path)
		}(i, path)
	}
	wg.Wait()
	return results
}

// RunOne runs the pipeline for a single document. started_ms/finished_ms
// come from nowMS.
func (p *Pipeline) RunOne(ctx context.Context, path string) RunSummary {
	docID, err := DocIDFor(p.cfg.InputRoot, path)
	if err != nil {
		return RunSummary{Err: err}
	}

	startedMS := nowMS()
	logger := NewLogger(p.cfg.Logger)

	docDir := p.cfg.OutputRoot
	if p.cfg.PerDocDir {
		docDir = DocDir(p.cfg.OutputRoot, docID)
	}
	dumpSteps := p.cfg.DumpSteps && p.cfg.Artifacts
	if err := PruneStaleOCRArtifacts(docDir); err != nil {
		logger.warn("prune stale ocr artifacts", "doc_id", docID, "error", err)
	}

	rawPages, err := ExtractPages(ctx, path)
	if err != nil {
		logger.warn("extract failed", "doc_id", docID, "error", err)
		return RunSummary{
			DocID: docID,
			Meta: Meta{
				DocID:           docID,
				Engine:          "pdftotext",
				Diagnostic:      (&ExtractError{DocID: docID, Err: err}).Error(),
				SuspectPages:    []int{},
				OCR:             OCRRunRecord{RunPages: []int{}},
				TimingMSPerPage: []int64{},
				Timestamps:      Timestamps{StartedMS: startedMS, FinishedMS: nowMS()},
			},
			Err: err,
		}
	}
	pageCount := len(rawPages)
	if dumpSteps {
		if err := WriteStepArtifact(docDir, "step1_extract.txt", strings.Join(rawPages, "\n")); err != nil {
			logger.warn("write step1 artifact", "doc_id", docID, "error", err)
		}
	}

	suspects := DetectSuspects(rawPages)

	ocrEnabled := p.cfg.WithOCR != "off"
	pages := make([]string, pageCount)
	copy(pages, rawPages)
	var ocrRecord OCRRunRecord
	timingPerPage := []int64{}

	if ocrEnabled {
		ocrCfg := OCRConfig{Lang: p.cfg.OCRLang, PSM: DefaultOCRConfig().PSM, OEM: DefaultOCRConfig().OEM, DPI: p.cfg.OCRDPI}
		artifactsDir := ""
		if p.cfg.Artifacts {
			artifactsDir = docDir + "/artifacts"
		}
		result := RunOCR(ctx, path, suspects, p.caps, ocrCfg, p.cfg.CISampleSuspects, artifactsDir, logger)
		ocrRecord = result.Record
		for page, text := range result.Texts {
			pages[page-1] = text
		}
		timingPerPage = orderedTimings(result.PerPageMS)
	} else {
		ocrRecord = OCRRunRecord{Enabled: false, RunPages: []int{}}
	}

	suppressed, suppressStats, noiseCandidates := SuppressRepeatedLines(pages, pageCount, p.cfg.KeepLines)
	if dumpSteps {
		if err := WriteStepArtifact(docDir, "step2_merge.txt", strings.Join(suppressed, "\n")); err != nil {
			logger.warn("write step2 artifact", "doc_id", docID, "error", err)
		}
		if err := WriteStepArtifact(docDir, "suppressor_preview.txt", strings.Join(noiseCandidates, "\n")); err != nil {
			logger.warn("write suppressor preview artifact", "doc_id", docID, "error", err)
		}
	}
	cleanedText, cleanStats := CleanPages(suppressed)
	cleanStats.RemovedHeader += suppressStats.RemovedHeader
	cleanStats.RemovedFooter += suppressStats.RemovedFooter

	structInfo := InspectPDFStructure(path)
	cleanStats.HasImageStreams = structInfo.HasImageStreams

	markdown, found := PromoteHeadings(cleanedText)
	if dumpSteps {
		if err := WriteStepArtifact(docDir, "step3_md.txt", markdown); err != nil {
			logger.warn("write step3 artifact", "doc_id", docID, "error", err)
		}
	}

	metrics := ComputeMetrics(rawPages, markdown, suspects, ocrRecord.RunPages, pageCount)

	finishedMS := nowMS()
	meta := Meta{
		DocID:               docID,
		Engine:              "pdftotext+pdfcpu",
		SuspectPages:        suspects,
		OCR:                 ocrRecord,
		Found:                found,
		Stats:               cleanStats,
		Metrics:             metrics,
		PageCount:           pageCount,
		TimingMSPerPage:     timingPerPage,
		P95LatencyMSPerPage: P95LatencyMS(timingPerPage),
		Timestamps:          Timestamps{StartedMS: startedMS, FinishedMS: finishedMS},
	}
	fingerprint, err := MetaFingerprint(meta)
	if err != nil {
		logger.warn("fingerprint failed", "doc_id", docID, "error", err)
	}
	meta.MetaFingerprint = fingerprint

	if err := EmitDocument(docDir, docID, markdown, meta, p.cfg.Artifacts); err != nil {
		logger.error("emit failed", "doc_id", docID, "error", err)
		_ = os.Remove(filepath.Join(docDir, docID+".md"))
		_ = os.Remove(filepath.Join(docDir, docID+".meta.json"))
		return RunSummary{DocID: docID, Meta: meta, Err: err}
	}

	return RunSummary{DocID: docID, Meta: meta, Violations: kpiViolations(meta, p.cfg)}
}

// orderedTimings flattens a page-index -> latency map into a slice
// ordered by ascending page index, so timing_ms_per_page (and therefore
// meta_fingerprint) never depends on map iteration order.
func orderedTimings(perPageMS map[int]int64) []int64 {
	pages := make([]int, 0, len(perPageMS))
	for page := range perPageMS {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	out := make([]int64, 0, len(pages))
	for _, page := range pages {
		out = append(out, perPageMS[page])
	}
	return out
}

// kpiViolations evaluates the --strict KPI checks from spec.md §7: missing
// landmarks, incomplete OCR coverage, and any leak.
func kpiViolations(meta Meta, cfg Config) []string {
	var v []string
	if len(meta.SuspectPages) > 0 && meta.OCR.Ran && meta.Metrics.CoveragePages < 1.0 && cfg.CISampleSuspects == 0 {
		v = append(v, fmt.Sprintf("coverage_pages=%.3f with suspects present", meta.Metrics.CoveragePages))
	}
	if meta.Metrics.LeakRate > 0 {
		v = append(v, fmt.Sprintf("leak_rate=%.4f", meta.Metrics.LeakRate))
	}
	if meta.Found.BAB == 0 && meta.Found.Pasal == 0 {
		v = append(v, "no bab or pasal landmarks found")
	}
	return v
}
