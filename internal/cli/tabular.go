package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// TabReader reads tab-delimited tables with an optional header row.
type TabReader struct {
	reader     *bufio.Reader
	headers    []string
	hasHeader  bool
	headerRead bool
	line       int
}

// NewTabReader creates a new tab-delimited reader.
func NewTabReader(r io.Reader, hasHeader bool) *TabReader {
	return &TabReader{
		reader:    bufio.NewReader(r),
		hasHeader: hasHeader,
	}
}

// Headers returns the header row, or nil for headerless input.
func (t *TabReader) Headers() ([]string, error) {
	if t.headerRead {
		return t.headers, nil
	}
	t.headerRead = true

	if !t.hasHeader {
		return nil, nil
	}

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	t.headers = strings.Split(line, "\t")
	return t.headers, nil
}

// Read returns the next row. It returns io.EOF when the table is exhausted.
func (t *TabReader) Read() ([]string, error) {
	if !t.headerRead {
		if _, err := t.Headers(); err != nil {
			return nil, err
		}
	}

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	return strings.Split(line, "\t"), nil
}

// ReadAll returns the remaining rows.
func (t *TabReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := t.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Line returns the number of the line read last (1-based, header included).
func (t *TabReader) Line() int {
	return t.line
}

// FindColumn resolves a column given by header name or 1-based index.
// "0" or "" selects the last column and yields -1.
func (t *TabReader) FindColumn(col string) (int, error) {
	if col == "" || col == "0" {
		return -1, nil
	}

	if idx, err := strconv.Atoi(col); err == nil {
		if idx < 0 {
			return 0, fmt.Errorf("invalid column index: %d", idx)
		}
		return idx - 1, nil
	}

	for i, h := range t.headers {
		if h == col {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in headers", col)
}

// FindColumns resolves several columns with FindColumn.
func (t *TabReader) FindColumns(cols []string) ([]int, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		n, err := t.FindColumn(c)
		if err != nil {
			return nil, err
		}
		idx[i] = n
	}
	return idx, nil
}

// Columns maps header names to their indices. Missing required names are an
// error, missing optional names are left out of the map.
func (t *TabReader) Columns(required, optional []string) (map[string]int, error) {
	pos := make(map[string]int, len(t.headers))
	for i, h := range t.headers {
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}

	cols := make(map[string]int, len(required)+len(optional))
	for _, name := range required {
		i, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("required column %q not found in headers", name)
		}
		cols[name] = i
	}
	for _, name := range optional {
		if i, ok := pos[name]; ok {
			cols[name] = i
		}
	}
	return cols, nil
}

func (t *TabReader) readLine() (string, error) {
	for {
		line, err := t.reader.ReadString('\n')
		if err != nil && len(line) == 0 {
			return "", err
		}
		t.line++

		line = strings.TrimRight(line, "\r\n")
		if line == "" && err == nil {
			continue
		}
		return line, nil
	}
}

// Field returns the value of column idx in row. A negative index selects the
// last column; columns past the end of the row are empty.
func Field(row []string, idx int) string {
	if idx < 0 {
		if len(row) == 0 {
			return ""
		}
		return row[len(row)-1]
	}
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// Cell returns the value of the named column in row, or "" when the column
// is not in cols.
func Cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(Field(row, i))
}

// ParseCharge parses an optional integer charge cell. Empty cells yield nil.
func ParseCharge(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return nil, fmt.Errorf("invalid charge %q", s)
	}
	return &n, nil
}

// SplitValues splits a multi-valued cell on delim, dropping empty parts.
func SplitValues(s, delim string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, delim) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// TabWriter writes tab-delimited output.
type TabWriter struct {
	writer *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{writer: bufio.NewWriter(w)}
}

// WriteHeaders writes the header row.
func (t *TabWriter) WriteHeaders(headers []string) error {
	return t.WriteRow(headers...)
}

// WriteRow writes a single row.
func (t *TabWriter) WriteRow(fields ...string) error {
	_, err := t.writer.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (t *TabWriter) Flush() error {
	return t.writer.Flush()
}

// OpenInput opens the input file, or returns stdin if path is empty or "-".
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// OpenOutput creates the output file, or returns stdout if path is empty or "-".
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// Output is a tab-delimited table written to a file or stdout.
type Output struct {
	*TabWriter
	closer io.Closer
	closed bool
}

// CreateOutput opens path with OpenOutput and wraps it in a TabWriter.
func CreateOutput(path string) (*Output, error) {
	wc, err := OpenOutput(path)
	if err != nil {
		return nil, err
	}
	return newOutput(wc, wc), nil
}

func newOutput(w io.Writer, c io.Closer) *Output {
	return &Output{TabWriter: NewTabWriter(w), closer: c}
}

// Close flushes the buffered rows and closes the file, returning the first
// error. Later calls do nothing, so Close may also be deferred.
func (o *Output) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	err := o.Flush()
	if cerr := o.closer.Close(); err == nil {
		err = cerr
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
