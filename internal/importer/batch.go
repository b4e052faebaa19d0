package importer

import (
	"go.uber.org/zap"
)

// Failure records why one file of a batch was not imported.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"error"`
	Err    error  `json:"-"`
}

// BatchResult is the outcome of ImportFiles.
type BatchResult struct {
	Imported []*Record `json:"imported"`
	Failures []Failure `json:"failures"`
}

// ImportFiles imports each path in order into folder. A file that cannot be
// decoded or fails validation is logged and recorded in Failures; it never
// stops the rest of the batch.
func ImportFiles(paths []string, folder string, log *zap.Logger) *BatchResult {
	if log == nil {
		log = zap.NewNop()
	}
	res := &BatchResult{}
	for _, p := range paths {
		rec, err := ImportFile(p)
		if err != nil {
			log.Warn("skip image", zap.String("path", p), zap.Error(err))
			res.Failures = append(res.Failures, Failure{Path: p, Reason: err.Error(), Err: err})
			continue
		}
		rec.Folder = folder
		log.Debug("imported image",
			zap.String("path", p),
			zap.Int("width", rec.Width),
			zap.Int("height", rec.Height),
			zap.Int("colors", len(rec.Colors)),
			zap.Int("scale", rec.Scale))
		res.Imported = append(res.Imported, rec)
	}
	log.Info("import finished",
		zap.Int("imported", len(res.Imported)),
		zap.Int("failed", len(res.Failures)))
	return res
}
