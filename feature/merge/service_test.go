package merge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pxf-manager/core/history"
	"pxf-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const baseDoc = `format: pxf1
name: Test Font
num_glyphs: 2
glyphs:
	65:
		width: 5
		rows:
			#####
	66:
		width: 4
		rows:
			####
`

func newTestService(t *testing.T, policy Policy, store *history.Store) *Service {
	t.Helper()
	return NewService(zap.NewNop(), policy, store)
}

func newTestStore(t *testing.T) *history.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	store, err := history.Open(history.Config{Enabled: true, Path: dsn})
	require.NoError(t, err)
	return store
}

func TestMergeDocumentsNoChanges(t *testing.T) {
	svc := newTestService(t, PolicyTheirs, nil)

	merged, report := svc.MergeDocuments(baseDoc, baseDoc, baseDoc, ChoiceMap{})

	assert.Equal(t, baseDoc, merged, "merging identical revisions is the identity")
	assert.Equal(t, 2, report.Summary.GlyphCount)
	assert.Empty(t, report.Added)
	assert.Empty(t, report.Removed)
	assert.Empty(t, report.ChangedSingleSide)
	assert.Empty(t, report.ChangedBothSides)
}

func TestMergeDocumentsRewritesCounter(t *testing.T) {
	ours := strings.Replace(baseDoc, "\t66:\n\t\twidth: 4\n\t\trows:\n\t\t\t####\n", "", 1)
	svc := newTestService(t, PolicyTheirs, nil)

	merged, report := svc.MergeDocuments(baseDoc, ours, baseDoc, ChoiceMap{})

	assert.Contains(t, merged, "num_glyphs: 1\n")
	assert.NotContains(t, merged, "num_glyphs: 2")
	assert.Equal(t, 1, report.Summary.GlyphCount)
	assert.Equal(t, []int{66}, report.Removed)
}

func TestMergeDocumentsHeaderPrecedence(t *testing.T) {
	ours := strings.Replace(baseDoc, "name: Test Font", "name: Ours Font", 1)
	theirs := strings.Replace(baseDoc, "name: Test Font", "name: Theirs Font", 1)
	svc := newTestService(t, PolicyTheirs, nil)

	t.Run("ours header wins", func(t *testing.T) {
		merged, _ := svc.MergeDocuments(baseDoc, ours, theirs, ChoiceMap{})
		assert.Contains(t, merged, "name: Ours Font")
	})

	t.Run("theirs header when ours is empty", func(t *testing.T) {
		merged, _ := svc.MergeDocuments(baseDoc, "", theirs, ChoiceMap{})
		assert.Contains(t, merged, "name: Theirs Font")
	})

	t.Run("base header when both sides are empty", func(t *testing.T) {
		merged, _ := svc.MergeDocuments(baseDoc, "", "", ChoiceMap{})
		assert.Contains(t, merged, "name: Test Font")
		assert.Contains(t, merged, "num_glyphs: 0\n")
	})
}

func TestMergeDocumentsNormalizesLineEndings(t *testing.T) {
	crlf := strings.ReplaceAll(baseDoc, "\n", "\r\n")
	svc := newTestService(t, PolicyTheirs, nil)

	merged, report := svc.MergeDocuments(baseDoc, crlf, baseDoc, ChoiceMap{})

	assert.Equal(t, baseDoc, merged, "line ending differences are not changes")
	assert.Empty(t, report.ChangedSingleSide)
}

func TestMergeDocumentsOrdersGlyphs(t *testing.T) {
	theirs := baseDoc + "\t33:\n\t\twidth: 1\n"
	svc := newTestService(t, PolicyTheirs, nil)

	merged, report := svc.MergeDocuments(baseDoc, baseDoc, theirs, ChoiceMap{})

	pos33 := strings.Index(merged, "\t33:")
	pos65 := strings.Index(merged, "\t65:")
	require.True(t, pos33 >= 0 && pos65 >= 0)
	assert.Less(t, pos33, pos65, "glyph blocks are emitted in ascending codepoint order")
	assert.Equal(t, []int{33}, report.Added)
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.pxf")
	oursPath := filepath.Join(dir, "ours.pxf")
	theirsPath := filepath.Join(dir, "theirs.pxf")
	outPath := filepath.Join(dir, "nested", "out", "merged.pxf")

	ours := strings.Replace(baseDoc, "width: 5", "width: 6", 1)
	require.NoError(t, os.WriteFile(basePath, []byte(baseDoc), 0o644))
	require.NoError(t, os.WriteFile(oursPath, []byte(ours), 0o644))
	require.NoError(t, os.WriteFile(theirsPath, []byte(baseDoc), 0o644))

	svc := newTestService(t, PolicyTheirs, nil)
	report, err := svc.MergeFiles(context.Background(), basePath, oursPath, theirsPath, outPath, "")
	require.NoError(t, err)

	assert.Equal(t, []int{65}, report.ChangedSingleSide)

	merged, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(merged), "width: 6")
}

func TestMergeFilesMissingInputsAreEmpty(t *testing.T) {
	dir := t.TempDir()
	theirsPath := filepath.Join(dir, "theirs.pxf")
	outPath := filepath.Join(dir, "merged.pxf")
	require.NoError(t, os.WriteFile(theirsPath, []byte(baseDoc), 0o644))

	svc := newTestService(t, PolicyTheirs, nil)
	report, err := svc.MergeFiles(context.Background(),
		filepath.Join(dir, "no-base.pxf"),
		filepath.Join(dir, "no-ours.pxf"),
		theirsPath, outPath, "")
	require.NoError(t, err, "missing inputs degrade to empty revisions")

	assert.Equal(t, 2, report.Summary.GlyphCount)
	assert.Equal(t, []int{65, 66}, report.Added)
	assert.Empty(t, report.ChangedSingleSide)

	merged, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, baseDoc, string(merged))
}

func TestMergeFilesWithChoices(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.pxf")
	oursPath := filepath.Join(dir, "ours.pxf")
	theirsPath := filepath.Join(dir, "theirs.pxf")
	choicesPath := filepath.Join(dir, "choices.json")
	outPath := filepath.Join(dir, "merged.pxf")

	ours := strings.Replace(baseDoc, "width: 5", "width: 6", 1)
	theirs := strings.Replace(baseDoc, "width: 5", "width: 7", 1)
	require.NoError(t, os.WriteFile(basePath, []byte(baseDoc), 0o644))
	require.NoError(t, os.WriteFile(oursPath, []byte(ours), 0o644))
	require.NoError(t, os.WriteFile(theirsPath, []byte(theirs), 0o644))
	require.NoError(t, os.WriteFile(choicesPath, []byte(`{"65": "ours"}`), 0o644))

	svc := newTestService(t, PolicyTheirs, nil)
	report, err := svc.MergeFiles(context.Background(), basePath, oursPath, theirsPath, outPath, choicesPath)
	require.NoError(t, err)

	assert.Equal(t, []int{65}, report.ChangedBothSides)

	merged, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(merged), "width: 6", "explicit choice picked ours")
}

// newObjectMock builds a mock storage client serving each object once.
// Unknown objects error. PutObject to "merged.pxf" captures the uploaded
// bytes.
func newObjectMock(t *testing.T, objects map[string]string, uploaded *[]byte) *mocks.Client {
	t.Helper()
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "fonts").Return(true, nil)
	for object, content := range objects {
		mockClient.On("GetObject", mock.Anything, "fonts", object, mock.Anything).
			Return(io.NopCloser(strings.NewReader(content)), nil).Once()
	}
	mockClient.On("GetObject", mock.Anything, "fonts", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("object not found"))
	mockClient.On("PutObject", mock.Anything, "fonts", "merged.pxf",
		mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
			*uploaded = data
		}).
		Return(minio.UploadInfo{}, nil)
	return mockClient
}

func TestMergeObjects(t *testing.T) {
	ours := strings.Replace(baseDoc, "width: 5", "width: 6", 1)
	svc := newTestService(t, PolicyTheirs, nil)

	t.Run("merges and uploads", func(t *testing.T) {
		var uploaded []byte
		mockClient := newObjectMock(t, map[string]string{
			"base.pxf":   baseDoc,
			"ours.pxf":   ours,
			"theirs.pxf": baseDoc,
		}, &uploaded)

		report, err := svc.MergeObjects(context.Background(), mockClient, "fonts",
			"base.pxf", "ours.pxf", "theirs.pxf", "merged.pxf", "")
		require.NoError(t, err)

		assert.Equal(t, []int{65}, report.ChangedSingleSide)
		assert.Contains(t, string(uploaded), "width: 6")
		mockClient.AssertCalled(t, "PutObject", mock.Anything, "fonts", "merged.pxf",
			mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing object is empty revision", func(t *testing.T) {
		var uploaded []byte
		mockClient := newObjectMock(t, map[string]string{
			"theirs.pxf": baseDoc,
		}, &uploaded)

		report, err := svc.MergeObjects(context.Background(), mockClient, "fonts",
			"base.pxf", "ours.pxf", "theirs.pxf", "merged.pxf", "")
		require.NoError(t, err)

		assert.Equal(t, 2, report.Summary.GlyphCount)
		assert.Equal(t, []int{65, 66}, report.Added)
		assert.Equal(t, baseDoc, string(uploaded))
	})

	t.Run("choices object", func(t *testing.T) {
		theirs := strings.Replace(baseDoc, "width: 5", "width: 7", 1)
		var uploaded []byte
		mockClient := newObjectMock(t, map[string]string{
			"base.pxf":     baseDoc,
			"ours.pxf":     ours,
			"theirs.pxf":   theirs,
			"choices.json": `{"65": "ours"}`,
		}, &uploaded)

		report, err := svc.MergeObjects(context.Background(), mockClient, "fonts",
			"base.pxf", "ours.pxf", "theirs.pxf", "merged.pxf", "choices.json")
		require.NoError(t, err)

		assert.Equal(t, []int{65}, report.ChangedBothSides)
		assert.Contains(t, string(uploaded), "width: 6")
	})
}

func TestMergeObjectsMissingBucket(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "fonts").Return(false, nil)

	svc := newTestService(t, PolicyTheirs, nil)
	_, err := svc.MergeObjects(context.Background(), mockClient, "fonts",
		"base.pxf", "ours.pxf", "theirs.pxf", "merged.pxf", "")
	assert.ErrorContains(t, err, "does not exist")
	mockClient.AssertNotCalled(t, "GetObject",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMergeObjectsUploadFailure(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "fonts").Return(true, nil)
	mockClient.On("GetObject", mock.Anything, "fonts", mock.Anything, mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(baseDoc))), nil)
	mockClient.On("PutObject", mock.Anything, "fonts", "merged.pxf",
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, fmt.Errorf("bucket gone"))

	svc := newTestService(t, PolicyTheirs, nil)
	_, err := svc.MergeObjects(context.Background(), mockClient, "fonts",
		"base.pxf", "ours.pxf", "theirs.pxf", "merged.pxf", "")
	assert.ErrorContains(t, err, "failed to upload")
}

func TestMergeFilesRecordsHistory(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "merged.pxf")
	basePath := filepath.Join(dir, "base.pxf")
	require.NoError(t, os.WriteFile(basePath, []byte(baseDoc), 0o644))

	svc := newTestService(t, PolicyOurs, store)
	_, err := svc.MergeFiles(context.Background(), basePath, basePath, basePath, outPath, "")
	require.NoError(t, err)

	runs, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "cli", runs[0].Source)
	assert.Equal(t, "ours", runs[0].Policy)
	assert.Equal(t, basePath, runs[0].Base)
	assert.Equal(t, outPath, runs[0].Out)
	assert.Equal(t, 2, runs[0].GlyphCount)
	assert.NotEmpty(t, runs[0].ID)
}
