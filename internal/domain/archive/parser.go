// Package archive turns the zipped per-year name files into records.
package archive

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/okian/babynames/internal/domain/model"
)

// Filename layout: a 3-char prefix, the 4-digit year, then the suffix
// (e.g. "yob1880.txt").
const (
	yearOffset = 3
	yearDigits = 4
	fileSuffix = ".txt"
	fieldCount = 3
)

// FileInfo describes one parsed year file.
type FileInfo struct {
	Name    string `json:"name"`
	Year    int    `json:"year"`
	Records int    `json:"records"`
}

// Result is the concatenation of every year file, in archive order.
// Pct is left zero; normalisation runs over the whole result.
type Result struct {
	Records []model.Record
	Files   []FileInfo
	Ignored []string
}

// Parse reads every .txt entry of the zip and concatenates their records.
// Ingestion stops at the first malformed filename or line.
func Parse(data []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArchive, err)
	}

	res := &Result{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, fileSuffix) {
			res.Ignored = append(res.Ignored, f.Name)
			continue
		}

		year, err := YearFromFilename(f.Name)
		if err != nil {
			return nil, err
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrMalformedArchive, f.Name, err)
		}
		before := len(res.Records)
		res.Records, err = ParseFile(rc, f.Name, year, res.Records)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, FileInfo{Name: f.Name, Year: year, Records: len(res.Records) - before})
	}
	return res, nil
}

// YearFromFilename extracts the year from the base name of an entry.
func YearFromFilename(name string) (int, error) {
	base := path.Base(name)
	if len(base) < yearOffset+yearDigits {
		return 0, &FilenameError{Name: name}
	}
	digits := base[yearOffset : yearOffset+yearDigits]
	year := 0
	for _, c := range []byte(digits) {
		if c < '0' || c > '9' {
			return 0, &FilenameError{Name: name}
		}
		year = year*10 + int(c-'0')
	}
	return year, nil
}

// ParseFile appends the records of one headerless name,sex,count file to dst.
func ParseFile(r io.Reader, name string, year int, dst []model.Record) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fieldCount
	cr.ReuseRecord = true

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return dst, nil
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &RecordError{File: name, Line: line, Reason: "unreadable line", Err: err}
		}
		line, _ := cr.FieldPos(0)

		rec, reason, err := parseRow(row)
		if reason != "" {
			return nil, &RecordError{File: name, Line: line, Reason: reason, Err: err}
		}
		rec.Year = year
		dst = append(dst, rec)
	}
}

func parseRow(row []string) (model.Record, string, error) {
	if row[0] == "" {
		return model.Record{}, "empty name", nil
	}
	sex, ok := model.ParseSex(row[1])
	if !ok {
		return model.Record{}, fmt.Sprintf("unknown sex code %q", row[1]), nil
	}
	count, err := strconv.ParseInt(row[2], 10, 64)
	if err != nil {
		return model.Record{}, fmt.Sprintf("count %q is not an integer", row[2]), err
	}
	if count < 0 {
		return model.Record{}, fmt.Sprintf("count %d is negative", count), nil
	}
	// ReuseRecord recycles the backing array, not the strings themselves.
	return model.Record{Name: row[0], Sex: sex, Count: count}, "", nil
}
