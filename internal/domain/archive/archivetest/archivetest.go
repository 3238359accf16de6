// Package archivetest builds in-memory name archives for tests.
package archivetest

import (
	"bytes"

	"github.com/klauspost/compress/zip"
)

// File is one archive entry.
type File struct {
	Name string
	Body string
}

// Build zips files in the given order. It panics on writer errors, which
// only happen on programming mistakes with an in-memory buffer.
func Build(files ...File) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.Name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(f.Body)); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Scenario is the two-year fixture used across packages:
// Mary appears in 1900 and 1901, John only in 1901.
func Scenario() []byte {
	return Build(
		File{Name: "yob1900.txt", Body: "Mary,F,100\r\n"},
		File{Name: "yob1901.txt", Body: "Mary,F,50\r\nJohn,M,80\r\n"},
	)
}

// Sample is a slightly larger fixture with ties, a one-hit wonder of each
// sex and a non-text entry.
func Sample() []byte {
	return Build(
		File{Name: "NationalReadMe.pdf", Body: "%PDF-1.4"},
		File{Name: "yob1999.txt", Body: "Emily,F,300\nAnna,F,120\nJacob,M,400\nZelda,F,5\n"},
		File{Name: "yob2000.txt", Body: "Emily,F,250\nHannah,F,250\nAnna,F,90\nJacob,M,380\nMichael,M,380\nAnna,M,10\n"},
		File{Name: "yob2001.txt", Body: "Emily,F,240\nJacob,M,390\nOctavian,M,9\n"},
	)
}
