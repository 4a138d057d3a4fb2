package legalmd

import "time"

// nowMS supplies the wall-clock reads for started_ms/finished_ms. The only
// other wall-clock read is the per-page OCR latency measured in ocr.go;
// both are excluded from meta_fingerprint.
func nowMS() int64 {
	return time.Now().UnixMilli()
}
