package merge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pxf-manager/core/history"
	"pxf-manager/core/storage"
	"pxf-manager/feature/pxf"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Service runs merges and handles the surrounding plumbing: tolerant input
// reading, output writing, and best-effort history recording.
type Service struct {
	logger  *zap.Logger
	policy  Policy
	history *history.Store
}

// NewService creates a new merge service. The history store may be nil, in
// which case runs are not recorded.
func NewService(logger *zap.Logger, policy Policy, store *history.Store) *Service {
	if !policy.Valid() {
		policy = PolicyTheirs
	}
	return &Service{
		logger:  logger,
		policy:  policy,
		history: store,
	}
}

// MergeDocuments merges three in-memory revisions. This is the core entry
// point: pure, deterministic, and total over malformed input. The returned
// text is the complete merged document with a recomputed num_glyphs header
// field and glyph blocks in ascending codepoint order.
func (s *Service) MergeDocuments(base, ours, theirs string, choices ChoiceMap) (string, *Report) {
	return mergeDocuments(base, ours, theirs, choices, s.policy)
}

func mergeDocuments(base, ours, theirs string, choices ChoiceMap, policy Policy) (string, *Report) {
	base = pxf.NormalizeLineEndings(base)
	ours = pxf.NormalizeLineEndings(ours)
	theirs = pxf.NormalizeLineEndings(theirs)

	baseHeader, baseBody := pxf.SplitHeaderBody(base)
	oursHeader, oursBody := pxf.SplitHeaderBody(ours)
	theirsHeader, theirsBody := pxf.SplitHeaderBody(theirs)

	// The header itself is not merged field by field: ours is the side being
	// edited, so its header wins, falling back to theirs and then base when
	// a revision is missing entirely. Only num_glyphs is recomputed.
	header := oursHeader
	if header == "" {
		header = theirsHeader
	}
	if header == "" {
		header = baseHeader
	}

	baseSet := pxf.ParseRecords(baseBody)
	outcome := Reconcile(baseSet, pxf.ParseRecords(oursBody), pxf.ParseRecords(theirsBody), choices, policy)

	header = pxf.RewriteGlyphCount(header, len(outcome.Records))
	return pxf.Assemble(header, outcome.Records), BuildReport(outcome, baseSet)
}

// MergeFiles merges three revisions read from the filesystem and writes the
// result to outPath, creating parent directories as needed. Missing or
// unreadable inputs contribute empty text; a missing choices file yields an
// empty choice map. Only the output write can fail.
func (s *Service) MergeFiles(ctx context.Context, basePath, oursPath, theirsPath, outPath, choicesPath string) (*Report, error) {
	base := s.readFileOrEmpty(basePath)
	ours := s.readFileOrEmpty(oursPath)
	theirs := s.readFileOrEmpty(theirsPath)

	choices := ChoiceMap{}
	if choicesPath != "" {
		choices = LoadChoices(choicesPath)
		s.logger.Info("Loaded merge choices",
			zap.String("path", choicesPath),
			zap.Int("count", len(choices)))
	}

	merged, report := s.MergeDocuments(base, ours, theirs, choices)

	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, []byte(merged), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write merged document: %w", err)
	}

	s.recordRun(ctx, "cli", basePath, oursPath, theirsPath, outPath, s.policy, report)
	return report, nil
}

// MergeObjects is MergeFiles against object storage: the three revisions and
// the optional choices document are objects in bucket, and the merged output
// is uploaded as outObject.
func (s *Service) MergeObjects(ctx context.Context, client storage.Client, bucket, baseObject, oursObject, theirsObject, outObject, choicesObject string) (*Report, error) {
	// Individual object reads degrade to empty, so a missing bucket would
	// otherwise silently merge three empty revisions. Check it up front.
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	base := s.readObjectOrEmpty(ctx, client, bucket, baseObject)
	ours := s.readObjectOrEmpty(ctx, client, bucket, oursObject)
	theirs := s.readObjectOrEmpty(ctx, client, bucket, theirsObject)

	choices := ChoiceMap{}
	if choicesObject != "" {
		choices = parseChoicesJSON([]byte(s.readObjectOrEmpty(ctx, client, bucket, choicesObject)))
	}

	merged, report := s.MergeDocuments(base, ours, theirs, choices)

	_, err = client.PutObject(ctx, bucket, outObject,
		bytes.NewReader([]byte(merged)), int64(len(merged)), minio.PutObjectOptions{
			ContentType: "text/plain",
		})
	if err != nil {
		return nil, fmt.Errorf("failed to upload merged document: %w", err)
	}

	s.recordRun(ctx, "storage", baseObject, oursObject, theirsObject, outObject, s.policy, report)
	return report, nil
}

// readFileOrEmpty treats a missing or unreadable revision as empty text, so
// that side simply contributes no glyphs instead of aborting the merge.
func (s *Service) readFileOrEmpty(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("Treating unreadable revision as empty",
			zap.String("path", path),
			zap.Error(err))
		return ""
	}
	return string(data)
}

func (s *Service) readObjectOrEmpty(ctx context.Context, client storage.Client, bucket, object string) string {
	reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		s.logger.Warn("Treating unreadable object as empty",
			zap.String("object", object),
			zap.Error(err))
		return ""
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		s.logger.Warn("Treating unreadable object as empty",
			zap.String("object", object),
			zap.Error(err))
		return ""
	}
	return string(data)
}

// recordRun writes one history row. Recording is best effort: failures are
// logged and the merge result stands.
func (s *Service) recordRun(ctx context.Context, source, base, ours, theirs, out string, policy Policy, report *Report) {
	if s.history == nil {
		return
	}
	run := &history.Run{
		Source:            source,
		Base:              base,
		Ours:              ours,
		Theirs:            theirs,
		Out:               out,
		Policy:            string(policy),
		Added:             report.Summary.Added,
		Removed:           report.Summary.Removed,
		ChangedSingleSide: report.Summary.ChangedSingleSide,
		ChangedBothSides:  report.Summary.ChangedBothSides,
		GlyphCount:        report.Summary.GlyphCount,
	}
	if err := s.history.Record(ctx, run); err != nil {
		s.logger.Warn("Failed to record merge run", zap.Error(err))
	}
}
