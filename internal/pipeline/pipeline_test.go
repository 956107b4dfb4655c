package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/paper-extractor/constants"
	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/entity"
	"github.com/joseph-ayodele/paper-extractor/internal/extract"
	"github.com/joseph-ayodele/paper-extractor/internal/llm"
)

const secret = "sk-test-0123456789abcdef"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExtractor returns the file's base name as its text, or an error for names containing "corrupt".
type fakeExtractor struct{}

func (fakeExtractor) Extract(_ context.Context, path string) (extract.Result, error) {
	name := filepath.Base(path)
	if strings.Contains(name, "corrupt") {
		return extract.Result{}, common.ExtractionError(path, errors.New("not a valid pdf"))
	}
	return extract.Result{Text: "text of " + name, Pages: 1, Method: extract.MethodPDFText}, nil
}

// fakeCompleter answers with a canned response that echoes the document name.
// Prompts for names containing "unreachable" fail terminally with the key in the message.
type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	delay   time.Duration
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, maxRetries int) (llm.CompletionResult, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if strings.Contains(prompt, "unreachable") {
		last := common.RemoteServiceError(401, errors.New("bad key "+secret))
		return llm.CompletionResult{}, common.TerminalError(maxRetries, last)
	}
	name := prompt[strings.LastIndex(prompt, "text of ")+len("text of "):]
	name = strings.TrimSpace(name)
	return llm.CompletionResult{
		Content:  "**Title**\nTitle for " + name + "\n**Abstract**\nAbstract text long enough to parse properly.\n",
		Attempts: 1,
	}, nil
}

type memLedger struct {
	mu       sync.Mutex
	started  int
	saved    map[int]entity.Record
	finished constants.RunStatus
	failures int
}

func (m *memLedger) StartRun(context.Context, uuid.UUID, string, time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	return nil
}

func (m *memLedger) SaveRecord(_ context.Context, _ uuid.UUID, index int, _ entity.Document, rec entity.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = map[int]entity.Record{}
	}
	m.saved[index] = rec
	return nil
}

func (m *memLedger) FinishRun(_ context.Context, _ uuid.UUID, _ time.Time, _, failures int, status constants.RunStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = status
	m.failures = failures
	return nil
}

type failingLedger struct{}

func (failingLedger) StartRun(context.Context, uuid.UUID, string, time.Time) error {
	return common.ErrDatabase
}
func (failingLedger) SaveRecord(context.Context, uuid.UUID, int, entity.Document, entity.Record) error {
	return common.ErrDatabase
}
func (failingLedger) FinishRun(context.Context, uuid.UUID, time.Time, int, int, constants.RunStatus) error {
	return common.ErrDatabase
}

func makeFolder(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newBatch(c llm.Completer, workers int) *Batch {
	p := NewProcessor(quietLogger(), fakeExtractor{}, c, 1000, 3, secret)
	return NewBatch(quietLogger(), p, workers, true)
}

func TestRun_OneRecordPerDocument(t *testing.T) {
	dir := makeFolder(t, "a.pdf", "b-corrupt.pdf", "c-unreachable.pdf", "d.pdf", "readme.txt")

	got, err := newBatch(&fakeCompleter{}, 1).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got.Records) != 4 {
		t.Fatalf("got %d records, want 4", len(got.Records))
	}

	wantNames := []string{"a.pdf", "b-corrupt.pdf", "c-unreachable.pdf", "d.pdf"}
	wantStatus := []constants.RecordStatus{
		constants.RecordStatusOK,
		constants.RecordStatusExtractFailed,
		constants.RecordStatusCompletionFailed,
		constants.RecordStatusOK,
	}
	for i, rec := range got.Records {
		if rec.FileName != wantNames[i] {
			t.Errorf("record %d file = %q, want %q", i, rec.FileName, wantNames[i])
		}
		if rec.Status != wantStatus[i] {
			t.Errorf("record %d status = %q, want %q", i, rec.Status, wantStatus[i])
		}
		if len(rec.Values) != len(constants.Fields()) {
			t.Errorf("record %d has %d values", i, len(rec.Values))
		}
	}

	if got.Records[0].Get(constants.Title) != "Title for a.pdf" {
		t.Errorf("title = %q", got.Records[0].Get(constants.Title))
	}
	if s := got.Records[1].Summary; !strings.HasPrefix(s, constants.ExtractionErrorMarker+": ") {
		t.Errorf("extraction summary = %q", s)
	}
	failed := got.Records[2]
	if !strings.HasPrefix(failed.Summary, constants.CompletionErrorMarker+": ") {
		t.Errorf("completion summary = %q", failed.Summary)
	}
	if strings.Contains(failed.Summary, secret) {
		t.Errorf("summary leaks the key: %q", failed.Summary)
	}
	if failed.Get(constants.Title) != constants.NotAvailable {
		t.Errorf("degraded record has title %q", failed.Get(constants.Title))
	}
	if got.Failures() != 2 {
		t.Errorf("failures = %d", got.Failures())
	}
}

func TestRun_ProcessorLogsCarryRunID(t *testing.T) {
	dir := makeFolder(t, "a.pdf", "b-corrupt.pdf")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewProcessor(logger, fakeExtractor{}, &fakeCompleter{}, 1000, 3, secret)

	got, err := NewBatch(quietLogger(), p, 1, true).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	seen := map[string]bool{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry struct {
			Msg   string `json:"msg"`
			RunID string `json:"run_id"`
		}
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if entry.RunID != got.RunID.String() {
			t.Errorf("%s run_id = %q, want %q", entry.Msg, entry.RunID, got.RunID)
		}
		seen[entry.Msg] = true
	}
	for _, msg := range []string{"processor.file.ok", "processor.extract.failed"} {
		if !seen[msg] {
			t.Errorf("missing %s log", msg)
		}
	}
}

func TestRun_TruncatesPrompt(t *testing.T) {
	dir := makeFolder(t, "a.pdf")
	c := &fakeCompleter{}
	p := NewProcessor(quietLogger(), fakeExtractor{}, c, 4, 3)
	if _, err := NewBatch(quietLogger(), p, 1, true).Run(context.Background(), dir); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(c.prompts) != 1 {
		t.Fatalf("prompts = %d", len(c.prompts))
	}
	if !strings.HasSuffix(c.prompts[0], "\ntext\n") {
		t.Fatalf("document text not truncated: %q", c.prompts[0][len(c.prompts[0])-20:])
	}
}

func TestRun_ConcurrentKeepsOrder(t *testing.T) {
	names := []string{"01.pdf", "02.pdf", "03.pdf", "04.pdf", "05.pdf", "06.pdf", "07.pdf", "08.pdf"}
	dir := makeFolder(t, names...)

	sequential, err := newBatch(&fakeCompleter{}, 1).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	concurrent, err := newBatch(&fakeCompleter{delay: 5 * time.Millisecond}, 4).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(concurrent.Records) != len(names) {
		t.Fatalf("got %d records", len(concurrent.Records))
	}
	for i := range names {
		a, b := sequential.Records[i], concurrent.Records[i]
		if a.FileName != names[i] || b.FileName != names[i] {
			t.Fatalf("record %d: %q / %q, want %q", i, a.FileName, b.FileName, names[i])
		}
		for _, f := range constants.Fields() {
			if a.Get(f) != b.Get(f) {
				t.Errorf("record %d field %s differs", i, f)
			}
		}
		if a.Summary != b.Summary {
			t.Errorf("record %d summary differs", i)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	dir := makeFolder(t, "x.pdf", "y-corrupt.pdf", "z.pdf")
	first, err := newBatch(&fakeCompleter{}, 1).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newBatch(&fakeCompleter{}, 1).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if first.RunID == second.RunID {
		t.Fatal("expected a fresh run id")
	}
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.FileName != b.FileName || a.Summary != b.Summary || a.Status != b.Status {
			t.Fatalf("record %d differs: %+v vs %+v", i, a, b)
		}
		for k, v := range a.Values {
			if b.Values[k] != v {
				t.Fatalf("record %d field %s differs", i, k)
			}
		}
	}
}

func TestRun_Ledger(t *testing.T) {
	dir := makeFolder(t, "a.pdf", "b-corrupt.pdf")
	l := &memLedger{}
	got, err := newBatch(&fakeCompleter{}, 2).WithLedger(l).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if l.started != 1 || len(l.saved) != 2 || l.finished != constants.RunStatusFinished || l.failures != 1 {
		t.Fatalf("unexpected ledger state %+v", l)
	}
	if l.saved[1].Status != got.Records[1].Status {
		t.Fatalf("ledger index mismatch")
	}
}

func TestRun_LedgerFailuresAreNotFatal(t *testing.T) {
	dir := makeFolder(t, "a.pdf")
	got, err := newBatch(&fakeCompleter{}, 1).WithLedger(failingLedger{}).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got.Records) != 1 || got.Records[0].Status != constants.RecordStatusOK {
		t.Fatalf("unexpected records %+v", got.Records)
	}
}

func TestRun_MissingFolder(t *testing.T) {
	_, err := newBatch(&fakeCompleter{}, 1).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected listing error")
	}
}

func TestRun_EmptyFolder(t *testing.T) {
	got, err := newBatch(&fakeCompleter{}, 3).Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(got.Records))
	}
}
