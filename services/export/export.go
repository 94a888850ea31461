package exportsvc

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
)

// Folders under "Downloads/<AppName>".
const (
	DirExports  = "Exports"
	DirReports  = "Reports"
	DirProfiles = "Profiles"
)

var (
	NowFunc = time.Now // mockable

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_\-]+`)
)

// Exporter writes spreadsheets, CSV files and PDFs into the Downloads folder of the app.
type Exporter struct {
	conf *core.Config
}

func NewExporter(conf *core.Config) *Exporter {
	return &Exporter{conf: conf}
}

// path returns "Downloads/<AppName>/<dir>/<name>", creating the folder if needed.
func (e *Exporter) path(dir, name string) (string, error) {
	full := filepath.Join(e.conf.AppDownloadsDir(), dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s directory", dir)
	}
	return filepath.Join(full, name), nil
}

// fileName builds "<part1>_<part2>_..._<unixmillis>.<ext>" from sanitized parts.
func fileName(ext string, parts ...string) string {
	clean := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		if p = strings.Trim(unsafeChars.ReplaceAllString(p, "_"), "_"); p != "" {
			clean = append(clean, p)
		}
	}
	clean = append(clean, strconv.FormatInt(NowFunc().UnixMilli(), 10))
	return strings.Join(clean, "_") + "." + ext
}

// monthTitle renders "January 2026".
func monthTitle(month time.Month, year int) string {
	return month.String() + " " + strconv.Itoa(year)
}
