// backend/ingest/parser.go
package ingest

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/seaviz/maritime/backend/catalog"
)

// ParseError describes a structurally malformed raw file. It carries the
// cruise and a header snapshot so a failed file can be reprocessed by
// hand from the run log alone.
type ParseError struct {
	File   string
	Cruise string
	Header []string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Cruise != "" {
		return fmt.Sprintf("parse %s (cruise %s): %s", e.File, e.Cruise, e.Reason)
	}
	return fmt.Sprintf("parse %s: %s", e.File, e.Reason)
}

// RawFile is one decoded instrument-archive file, split into metadata,
// preamble and header-keyed data rows. It is consumed once by the
// normalizer and never persisted as-is.
type RawFile struct {
	Path string
	Info FileInfo

	Cruise  string
	PI      string
	PIEmail string

	// PreambleL1 and PreambleL2 are the two free-text legal/metadata
	// lines (file lines 0 and 2), kept verbatim for the header registry.
	PreambleL1 string
	PreambleL2 string

	// Header is the repaired raw column-header line, comma-split, with
	// any spurious "(int)" annotation already stripped.
	Header []string

	// Rows map raw header label -> string value, one entry per data line.
	Rows []map[string]string
}

// ParseFile reads and splits a single raw archive file. The archives are
// legacy Latin-1, so the bytes are decoded permissively rather than
// assumed to be UTF-8.
func ParseFile(path string) (*RawFile, error) {
	info, err := ParseName(path)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{File: path, Reason: fmt.Sprintf("read: %v", err)}
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return nil, &ParseError{File: path, Reason: fmt.Sprintf("decode latin-1: %v", err)}
	}

	lines := strings.Split(strings.ReplaceAll(string(decoded), "\r\n", "\n"), "\n")
	if len(lines) < 6 {
		return nil, &ParseError{File: path, Reason: fmt.Sprintf("file too short (%d lines)", len(lines))}
	}

	raw := &RawFile{
		Path:       path,
		Info:       info,
		PreambleL1: lines[0],
		PreambleL2: lines[2],
	}

	// Line 1: cruise identifier, text before the first comma.
	raw.Cruise = strings.Split(lines[1], ",")[0]

	// Line 4: column header. Some archive headers annotate
	// integer-precision channels with "(int)"; strip the annotation here
	// so downstream lookups see the real label. Read before the PI line
	// so later errors carry the header snapshot for the run log.
	for _, label := range strings.Split(strings.TrimSpace(lines[4]), ",") {
		raw.Header = append(raw.Header, catalog.StripAnnotation(label))
	}

	// Line 3: PI=<name>,...,Email=<email>. The record format is
	// comma-delimited, so embedded commas in either field are neutralized
	// to semicolons.
	piLine := lines[3]
	eqParts := strings.Split(piLine, "=")
	if len(eqParts) < 2 {
		return nil, &ParseError{File: path, Cruise: raw.Cruise, Header: raw.Header, Reason: fmt.Sprintf("malformed PI line %q", piLine)}
	}
	raw.PI = strings.ReplaceAll(strings.Split(eqParts[1], ",")[0], ",", ";")

	emailParts := strings.Split(piLine, ",Email=")
	if len(emailParts) < 2 {
		return nil, &ParseError{File: path, Cruise: raw.Cruise, Header: raw.Header, Reason: fmt.Sprintf("no Email token in PI line %q", piLine)}
	}
	raw.PIEmail = strings.ReplaceAll(emailParts[1], ",", ";")

	// Remaining lines are data rows zipped against the header. The format
	// is naive comma-delimited with no quoting, so a plain split is the
	// correct tokenizer.
	for _, line := range lines[5:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		values := strings.Split(line, ",")
		row := make(map[string]string, len(raw.Header))
		for i, label := range raw.Header {
			if i >= len(values) {
				break
			}
			row[label] = values[i]
		}
		raw.Rows = append(raw.Rows, row)
	}

	return raw, nil
}
