package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"market-analyst/models"
	"market-analyst/observability"
)

// ruleWidth is the width of the section separator rules
const ruleWidth = 60

// Writer formats and persists plaintext analysis reports
type Writer struct {
	outputDir      string
	currencySymbol string
}

// NewWriter creates a new Writer writing into outputDir
func NewWriter(outputDir, currencySymbol string) *Writer {
	return &Writer{
		outputDir:      outputDir,
		currencySymbol: currencySymbol,
	}
}

// Write formats the snapshot and narrative into the fixed report layout and
// persists it. The file is written to a temporary name and renamed into
// place, so a failure never leaves a truncated report behind.
func (w *Writer) Write(snapshot *models.MarketSnapshot, name models.DisplayName, narrative models.Narrative) (*models.Report, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", w.outputDir, err)
	}

	now := time.Now()
	path := w.reportPath(snapshot.Ticker, now)
	content := w.format(snapshot, name, narrative)

	if err := writeFileAtomic(path, []byte(content)); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	observability.GetMetrics().RecordReportWritten(snapshot.Ticker)
	return models.NewReport(snapshot.Ticker, name.Name, path), nil
}

// reportPath builds the report filename from the ticker and the write
// moment. Runs completing within the same second get a numeric suffix so a
// prior report is never overwritten.
func (w *Writer) reportPath(ticker string, now time.Time) string {
	base := fmt.Sprintf("%s_analysis_%s", ticker, now.Format("20060102_150405"))
	path := filepath.Join(w.outputDir, base+".txt")

	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(w.outputDir, base+"_"+strconv.Itoa(i)+".txt")
	}
}

// format renders the deterministic report layout
func (w *Writer) format(snapshot *models.MarketSnapshot, name models.DisplayName, narrative models.Narrative) string {
	rule := strings.Repeat("=", ruleWidth)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Stock Analysis Report: %s\n", snapshot.Ticker))
	sb.WriteString(fmt.Sprintf("Company: %s\n", name.Name))
	sb.WriteString(fmt.Sprintf("Generated: %s\n", snapshot.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Current Price: %s%s\n", w.currencySymbol, snapshot.CurrentPrice.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Previous Close: %s%s\n", w.currencySymbol, snapshot.PreviousClose.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Day Change: %s%%\n", snapshot.DayChangePercent.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("50-day MA: %s%s\n", w.currencySymbol, snapshot.MovingAverage50.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Current Trend: %s\n", snapshot.Trend))
	sb.WriteString(fmt.Sprintf("Volume: %s\n", formatThousands(snapshot.Volume)))
	sb.WriteString("\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(narrative.Analysis + "\n")
	sb.WriteString("\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(narrative.Recommendation + "\n")
	sb.WriteString("\n")
	sb.WriteString(rule + "\n")

	return sb.String()
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// formatThousands renders an integer with comma thousands separators
func formatThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var sb strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}

	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
