// backend/ingest/filename.go
package ingest

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/seaviz/maritime/backend/models"
)

// FileInfo is everything the filename convention encodes about a raw
// archive file: <site>_<frequency-tag>.<suffix>, where the tag is one of
// all_points/series/daily and the suffix carries retrieval kind plus
// quality level (lev15 = AOD 1.5, ONEILL_20 = SDA 2.0).
type FileInfo struct {
	Site      string
	Frequency models.Frequency
	Retrieval models.Retrieval
	Level     int
}

// frequencyTags in priority order: all_points must be tested before
// series and daily so an overlapping site name can never shadow the tag.
var frequencyTags = []struct {
	tag  string
	freq models.Frequency
}{
	{"all_points", models.FrequencyPoint},
	{"series", models.FrequencySeries},
	{"daily", models.FrequencyDaily},
}

// ParseName validates a raw file path against the archive filename
// grammar. The grammar is deliberately strict: a file that does not match
// is a ParseError at ingestion time, not something to guess about.
func ParseName(path string) (FileInfo, error) {
	base := filepath.Base(path)

	dot := strings.LastIndex(base, ".")
	if dot <= 0 || dot == len(base)-1 {
		return FileInfo{}, &ParseError{File: path, Reason: "missing retrieval suffix"}
	}
	stem, suffix := base[:dot], base[dot+1:]

	var info FileInfo
	switch {
	case strings.HasPrefix(suffix, "lev"):
		info.Retrieval = models.RetrievalAOD
		lvl, err := strconv.Atoi(strings.TrimPrefix(suffix, "lev"))
		if err != nil {
			return FileInfo{}, &ParseError{File: path, Reason: fmt.Sprintf("bad AOD level suffix %q", suffix)}
		}
		info.Level = lvl
	case strings.HasPrefix(suffix, "ONEILL_"):
		info.Retrieval = models.RetrievalSDA
		lvl, err := strconv.Atoi(strings.TrimPrefix(suffix, "ONEILL_"))
		if err != nil {
			return FileInfo{}, &ParseError{File: path, Reason: fmt.Sprintf("bad SDA level suffix %q", suffix)}
		}
		info.Level = lvl
	default:
		return FileInfo{}, &ParseError{File: path, Reason: fmt.Sprintf("unknown retrieval suffix %q", suffix)}
	}

	switch info.Level {
	case models.Level10, models.Level15, models.Level20:
	default:
		return FileInfo{}, &ParseError{File: path, Reason: fmt.Sprintf("unknown quality level %d", info.Level)}
	}

	for _, ft := range frequencyTags {
		if strings.HasSuffix(stem, "_"+ft.tag) {
			info.Frequency = ft.freq
			info.Site = strings.TrimSuffix(stem, "_"+ft.tag)
			break
		}
	}
	if info.Frequency == "" || info.Site == "" {
		return FileInfo{}, &ParseError{File: path, Reason: "no frequency tag (all_points/series/daily)"}
	}

	return info, nil
}
