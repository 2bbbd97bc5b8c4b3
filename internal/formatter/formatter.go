// package formatter renders statistics, search results, and playlist history as plain text, CSV, or Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/seeds"
	"github.com/desertthunder/moodify/internal/stats"
	"github.com/dustin/go-humanize"
)

// ChartWidth is the number of cells of a full (100%) trendline bar.
const ChartWidth = 40

// FormatProfile renders the profile panel.
func FormatProfile(p *models.Profile) string {
	if p == nil {
		return ""
	}
	out := fmt.Sprintf("Signed in as %s\n", p.Name)
	if p.ImageURL != "" {
		out += fmt.Sprintf("Avatar: %s\n", p.ImageURL)
	}
	return out
}

// FormatTrendline renders a horizontal bar chart of features, one row per feature, with the
// rounded percentage at the end of each bar.
func FormatTrendline(title string, features models.AudioFeatures) string {
	var buf bytes.Buffer
	buf.WriteString(title + "\n")

	width := 0
	for _, f := range models.FeatureNames {
		width = max(width, len(f.Title()))
	}

	for _, f := range models.FeatureNames {
		pct := models.ChartValue(features.Get(f))
		cells := min(max(pct, 0), 100) * ChartWidth / 100
		buf.WriteString(fmt.Sprintf("  %-*s %s%s %3d%%\n",
			width, f.Title(), strings.Repeat("█", cells), strings.Repeat("·", ChartWidth-cells), pct))
	}
	return buf.String()
}

// FormatSliders renders feature targets the way the sliders display them.
func FormatSliders(features models.AudioFeatures) string {
	parts := make([]string, len(models.FeatureNames))
	for i, v := range features.Values() {
		parts[i] = fmt.Sprintf("%s=%s", models.FeatureNames[i], models.SliderValue(v))
	}
	return strings.Join(parts, " ")
}

// TermTitle names a term the way the panels are headed.
func TermTitle(term models.Term) string {
	switch term {
	case models.TermLong:
		return "All time"
	case models.TermMedium:
		return "Last 6 months"
	case models.TermShort:
		return "Last 4 weeks"
	}
	return string(term)
}

// FormatTopItems renders a numbered top-items panel with links to the web player.
func FormatTopItems(kind models.ItemKind, term models.Term, items []models.TopItem) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Top %ss: %s\n", kind, TermTitle(term)))
	if len(items) == 0 {
		buf.WriteString("  (none)\n")
		return buf.String()
	}

	for i, item := range items {
		line := item.Name
		if names := item.ArtistNames(); names != "" && kind == models.KindTrack {
			line += " - " + names
		}
		buf.WriteString(fmt.Sprintf("  %d. %s\n     %s\n", i+1, line, item.OpenURL(kind)))
	}
	return buf.String()
}

// FormatPanel renders any stats panel.
func FormatPanel(p stats.Panel) string {
	switch p.Kind {
	case stats.ProfilePanel:
		return FormatProfile(p.Profile)
	case stats.TrendlinePanel:
		return FormatTrendline(fmt.Sprintf("Last %d tracks", p.Window), p.Features)
	case stats.TopItemsPanel:
		return FormatTopItems(p.ItemKind, p.Term, p.Items)
	}
	return ""
}

// PanelWriter is a [stats.Renderer] that writes each panel to w as it arrives.
type PanelWriter struct {
	w   io.Writer
	err error
}

// NewPanelWriter creates a [PanelWriter].
func NewPanelWriter(w io.Writer) *PanelWriter {
	return &PanelWriter{w: w}
}

// Render writes p followed by a blank line.
func (pw *PanelWriter) Render(p stats.Panel) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintln(pw.w, FormatPanel(p))
}

// Err returns the first write error.
func (pw *PanelWriter) Err() error {
	return pw.err
}

// FormatSearchResults renders search results partitioned into artists and tracks.
func FormatSearchResults(r seeds.Results) string {
	if !r.Visible {
		return ""
	}
	if r.Empty() {
		return fmt.Sprintf("No results for %q\n", r.Query)
	}

	var buf bytes.Buffer
	section := func(title string, items []models.SeedItem) {
		if len(items) == 0 {
			return
		}
		buf.WriteString(title + "\n")
		for _, it := range items {
			buf.WriteString(fmt.Sprintf("  %-24s %s\n", it.ID, it.Label()))
		}
	}
	section("Artists", r.Artists)
	section("Tracks", r.Tracks)
	return buf.String()
}

// FormatRequest summarizes a recommendation request before it is sent.
func FormatRequest(req models.RecommendationRequest) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Seed artists: %s\n", joinOrNone(req.SeedArtistIDs)))
	buf.WriteString(fmt.Sprintf("Seed tracks:  %s\n", joinOrNone(req.SeedTrackIDs)))
	buf.WriteString(fmt.Sprintf("Targets:      %s\n", FormatSliders(req.AudioFeatures)))
	return buf.String()
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "(none)"
	}
	return strings.Join(ids, ", ")
}

// ExportHistoryToCSV converts submitted requests to CSV with columns: ID, Created, Artists, Tracks and one column per feature
func ExportHistoryToCSV(recs []*models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Created", "Artists", "Tracks"}
	for _, f := range models.FeatureNames {
		headers = append(headers, f.Title())
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range recs {
		record := []string{
			rec.ID,
			rec.CreatedAt.UTC().Format(time.RFC3339),
			strings.Join(rec.Request.SeedArtistIDs, " "),
			strings.Join(rec.Request.SeedTrackIDs, " "),
		}
		for _, f := range models.FeatureNames {
			record = append(record, models.SliderValue(rec.Request.Get(f)))
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportHistoryToMarkdown renders submitted requests as a Markdown list
func ExportHistoryToMarkdown(recs []*models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Playlist requests\n\n")
	buf.WriteString(fmt.Sprintf("**Requests**: %d\n\n", len(recs)))

	for i, rec := range recs {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec.CreatedAt.UTC().Format("2006-01-02 15:04")))
		buf.WriteString(fmt.Sprintf("   - Artists: %s\n", joinOrNone(rec.Request.SeedArtistIDs)))
		buf.WriteString(fmt.Sprintf("   - Tracks: %s\n", joinOrNone(rec.Request.SeedTrackIDs)))
		buf.WriteString(fmt.Sprintf("   - Targets: `%s`\n", FormatSliders(rec.Request.AudioFeatures)))
	}

	return buf.Bytes(), nil
}

// ExportHistoryToText renders submitted requests as plain text
func ExportHistoryToText(recs []*models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer

	if len(recs) == 0 {
		buf.WriteString("No playlist requests yet.\n")
		return buf.Bytes(), nil
	}

	for i, rec := range recs {
		buf.WriteString(fmt.Sprintf("%d. %s (%s)  %d seed(s)\n", i+1, rec.CreatedAt.Local().Format("2006-01-02 15:04"), humanize.Time(rec.CreatedAt), rec.Request.SeedCount()))
		buf.WriteString("   " + strings.ReplaceAll(FormatRequest(rec.Request), "\n", "\n   "))
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// Format is an output format of the history exporters.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts text, csv, markdown or md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, csv or markdown)", s)
}

// ExportHistory renders recs in format.
func ExportHistory(recs []*models.Recommendation, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportHistoryToCSV(recs)
	case FormatMarkdown:
		return ExportHistoryToMarkdown(recs)
	default:
		return ExportHistoryToText(recs)
	}
}

// WriteHistoryExport writes recs in format to path and returns path.
func WriteHistoryExport(recs []*models.Recommendation, format Format, path string) (string, error) {
	data, err := ExportHistory(recs, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
