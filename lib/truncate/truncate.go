// Package truncate drops trailing records from a delimited table.
package truncate

import (
	"bufio"
	"bytes"
	"os"

	"github.com/kpaschen/dgprep/lib/datatypes"
	"github.com/pkg/errors"
)

// Result reports what a truncation did.
type Result struct {
	Read    int
	Written int
}

// TruncateRows copies every record of readPath except the last n to
// writePath. Kept records are copied byte for byte, blank lines included,
// and a blank line counts as a record. Line breaks inside quoted cells do
// not end a record. If n is at least the number of records, writePath ends
// up empty. With useCRLF every kept record is terminated by \r\n, the way
// Python's csv writer does it.
// writePath is overwritten in place: if writing fails halfway the
// destination is left truncated.
func TruncateRows(readPath string, writePath string, n int, useCRLF bool) (Result, error) {
	if n < 0 {
		return Result{}, errors.Errorf("number of rows to drop must not be negative, got %d", n)
	}
	content, err := os.ReadFile(readPath)
	if err != nil {
		return Result{}, datatypes.IOFailure{Op: "open", Path: readPath, Err: err}
	}
	records := splitRecords(content)
	keep := len(records) - n
	if keep < 0 {
		keep = 0
	}
	if err := writeRecords(writePath, records[:keep], useCRLF); err != nil {
		return Result{Read: len(records)}, err
	}
	return Result{Read: len(records), Written: keep}, nil
}

// splitRecords cuts content into records, each including its terminator.
// A quote only opens a quoted cell at the start of a cell; elsewhere it is
// taken literally.
func splitRecords(content []byte) [][]byte {
	var records [][]byte
	start := 0
	quoted := false
	cellStart := true
	for i := 0; i < len(content); i++ {
		b := content[i]
		switch {
		case quoted:
			if b == '"' {
				if i+1 < len(content) && content[i+1] == '"' {
					i++
				} else {
					quoted = false
				}
			}
		case b == '"' && cellStart:
			quoted = true
			cellStart = false
		case b == '\n':
			records = append(records, content[start:i+1])
			start = i + 1
			cellStart = true
		case b == ',':
			cellStart = true
		default:
			cellStart = false
		}
	}
	if start < len(content) {
		records = append(records, content[start:])
	}
	return records
}

func writeRecords(path string, records [][]byte, useCRLF bool) error {
	file, err := os.Create(path)
	if err != nil {
		return datatypes.IOFailure{Op: "create", Path: path, Err: err}
	}
	buffered := bufio.NewWriterSize(file, 4<<20)
	for _, record := range records {
		if useCRLF {
			record = bytes.TrimSuffix(bytes.TrimSuffix(record, []byte("\n")), []byte("\r"))
			record = append(record[:len(record):len(record)], '\r', '\n')
		}
		if _, err := buffered.Write(record); err != nil {
			file.Close()
			return datatypes.IOFailure{Op: "write", Path: path, Err: err}
		}
	}
	if err := buffered.Flush(); err != nil {
		file.Close()
		return datatypes.IOFailure{Op: "flush", Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return datatypes.IOFailure{Op: "close", Path: path, Err: err}
	}
	return nil
}
