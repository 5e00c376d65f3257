package ledger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// CSVHeader is the flat tabular field set, same order as the JSONL keys.
var CSVHeader = []string{
	"ts", "student_id", "session_id", "mq_id", "item_id", "lo_ids",
	"pass_fail", "attempts", "time_ms", "error_class", "remedial_clicked",
	"marks_awarded", "marks_possible",
}

// FileStore persists the ledger as two append-only files: line-delimited
// JSON (authoritative) and a CSV mirror with the same rows in the same
// order. A single writer lock serialises appends; on a partial failure the
// JSONL file is truncated back to its pre-append length so the two files
// never diverge.
type FileStore struct {
	mu       sync.Mutex
	jsonPath string
	csvPath  string
}

func NewFileStore(jsonPath, csvPath string) (*FileStore, error) {
	if jsonPath == "" || csvPath == "" {
		return nil, fmt.Errorf("ledger paths required (jsonl=%q csv=%q)", jsonPath, csvPath)
	}
	for _, p := range []string{jsonPath, csvPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("ledger dir: %w", err)
		}
	}
	return &FileStore{jsonPath: jsonPath, csvPath: csvPath}, nil
}

func (s *FileStore) Append(ctx context.Context, records []AttemptRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Encode everything up front so an encoding error cannot leave a
	// half-written submission behind.
	var jsonBuf bytes.Buffer
	for _, r := range records {
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		jsonBuf.Write(line)
		jsonBuf.WriteByte('\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jf, err := os.OpenFile(s.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open jsonl: %w", err)
	}
	defer jf.Close()

	mark, err := jf.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek jsonl: %w", err)
	}
	if _, err := jf.Write(jsonBuf.Bytes()); err != nil {
		_ = jf.Truncate(mark)
		return fmt.Errorf("append jsonl: %w", err)
	}
	if err := jf.Sync(); err != nil {
		_ = jf.Truncate(mark)
		return fmt.Errorf("sync jsonl: %w", err)
	}

	if err := s.appendCSV(records); err != nil {
		// roll the JSONL side back so both files stay row-for-row equal
		_ = jf.Truncate(mark)
		_ = jf.Sync()
		return err
	}
	return nil
}

func (s *FileStore) appendCSV(records []AttemptRecord) error {
	cf, err := os.OpenFile(s.csvPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer cf.Close()

	mark, err := cf.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek csv: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if mark == 0 {
		if err := w.Write(CSVHeader); err != nil {
			return fmt.Errorf("csv header: %w", err)
		}
	}
	for _, r := range records {
		if err := w.Write(csvRow(r)); err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv encode: %w", err)
	}

	if _, err := cf.Write(buf.Bytes()); err != nil {
		_ = cf.Truncate(mark)
		return fmt.Errorf("append csv: %w", err)
	}
	if err := cf.Sync(); err != nil {
		_ = cf.Truncate(mark)
		return fmt.Errorf("sync csv: %w", err)
	}
	return nil
}

func (s *FileStore) ReadAll(ctx context.Context, f Filter) ([]AttemptRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// ReadAll takes the writer lock: appends are short and this guarantees
	// a reader never sees a row mid-write or mid-rollback.
	s.mu.Lock()
	defer s.mu.Unlock()

	jf, err := os.Open(s.jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open jsonl: %w", err)
	}
	defer jf.Close()

	var out []AttemptRecord
	sc := bufio.NewScanner(jf)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var r AttemptRecord
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("corrupt ledger line: %w", err)
		}
		if f.matches(r) {
			out = append(out, r)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan jsonl: %w", err)
	}
	return out, nil
}

func csvRow(r AttemptRecord) []string {
	return []string{
		strconv.FormatInt(r.Ts, 10),
		r.StudentID,
		r.SessionID,
		r.MQID,
		r.ItemID,
		JoinLOIDs(r.LOIDs),
		strconv.Itoa(r.PassFail),
		strconv.Itoa(r.Attempts),
		strconv.FormatInt(r.TimeMs, 10),
		r.ErrorClass,
		strconv.FormatBool(r.RemedialClicked),
		strconv.Itoa(r.MarksAwarded),
		strconv.Itoa(r.MarksPossible),
	}
}

// JoinLOIDs encodes learning-outcome ids pipe-separated, the flat format
// lecturers get in the CSV export (e.g. "1|2|9").
func JoinLOIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "|")
}

// WriteCSV streams records in the tabular format, header first. The export
// endpoint uses this so both export formats come from the authoritative
// JSONL rows.
func WriteCSV(w *csv.Writer, records []AttemptRecord) error {
	if err := w.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(csvRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
