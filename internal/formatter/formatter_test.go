package formatter

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/seeds"
	"github.com/desertthunder/moodify/internal/stats"
	th "github.com/desertthunder/moodify/internal/testing"
)

func sampleHistory() []*models.Recommendation {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	return []*models.Recommendation{
		{
			ID:        "rec1",
			DeviceID:  "device",
			UserID:    "user",
			CreatedAt: created,
			Request: models.RecommendationRequest{
				SeedArtistIDs: []string{"a1", "a2"},
				SeedTrackIDs:  []string{"t1"},
				AudioFeatures: models.AudioFeatures{Energy: 0.734, Valence: 0.25},
			},
		},
		{
			ID:        "rec2",
			DeviceID:  "device",
			UserID:    "user",
			CreatedAt: created.Add(time.Hour),
			Request: models.RecommendationRequest{
				SeedArtistIDs: []string{},
				SeedTrackIDs:  []string{"t9"},
			},
		},
	}
}

func TestStatsFormatting(t *testing.T) {
	t.Run("FormatTrendline", func(t *testing.T) {
		out := FormatTrendline("Last 3 tracks", models.AudioFeatures{Energy: 0.734, Valence: 1})

		if !strings.HasPrefix(out, "Last 3 tracks\n") {
			t.Errorf("expected title line, got %q", out)
		}
		if !strings.Contains(out, " 73%") {
			t.Errorf("expected energy as 73%%, got %q", out)
		}
		if !strings.Contains(out, "100%") {
			t.Errorf("expected valence as 100%%, got %q", out)
		}

		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != len(models.FeatureNames)+1 {
			t.Errorf("expected %d lines, got %d", len(models.FeatureNames)+1, len(lines))
		}
		if !strings.Contains(lines[1], "Acousticness") {
			t.Errorf("expected features in chart order, got %q", lines[1])
		}
	})

	t.Run("FormatTrendline Out Of Range", func(t *testing.T) {
		out := FormatTrendline("x", models.AudioFeatures{Energy: 1.5, Valence: -0.2})
		if !strings.Contains(out, "150%") {
			t.Errorf("expected raw percentage to be shown, got %q", out)
		}
	})

	t.Run("FormatSliders", func(t *testing.T) {
		out := FormatSliders(models.AudioFeatures{Energy: 0.734})
		if !strings.Contains(out, "energy=0.7") {
			t.Errorf("expected one decimal slider value, got %q", out)
		}
		if !strings.HasPrefix(out, "acousticness=0.0") {
			t.Errorf("expected chart order, got %q", out)
		}
	})

	t.Run("FormatTopItems", func(t *testing.T) {
		items := []models.TopItem{
			{ID: "t1", Name: "Song", Artists: []models.Artist{{Name: "A"}, {Name: "B"}}},
		}
		out := FormatTopItems(models.KindTrack, models.TermShort, items)

		if !strings.Contains(out, "Top tracks: Last 4 weeks") {
			t.Errorf("missing heading, got %q", out)
		}
		if !strings.Contains(out, "1. Song - A, B") {
			t.Errorf("missing item line, got %q", out)
		}
		if !strings.Contains(out, "https://open.spotify.com/track/t1") {
			t.Errorf("missing link, got %q", out)
		}

		if empty := FormatTopItems(models.KindArtist, models.TermLong, nil); !strings.Contains(empty, "(none)") {
			t.Errorf("expected empty marker, got %q", empty)
		}
	})

	t.Run("PanelWriter", func(t *testing.T) {
		var buf bytes.Buffer
		pw := NewPanelWriter(&buf)
		pw.Render(stats.Panel{Kind: stats.ProfilePanel, Profile: &models.Profile{Name: "Ada"}})
		pw.Render(stats.Panel{Kind: stats.TrendlinePanel, Window: 15})

		if pw.Err() != nil {
			t.Fatalf("unexpected error: %v", pw.Err())
		}
		out := buf.String()
		if !strings.Contains(out, "Signed in as Ada") || !strings.Contains(out, "Last 15 tracks") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("PanelWriter Keeps First Error", func(t *testing.T) {
		pw := NewPanelWriter(&th.FWriter{})
		pw.Render(stats.Panel{Kind: stats.ProfilePanel, Profile: &models.Profile{Name: "Ada"}})
		if pw.Err() == nil {
			t.Error("expected write error")
		}
	})
}

func TestFormatSearchResults(t *testing.T) {
	t.Run("Hidden", func(t *testing.T) {
		if out := FormatSearchResults(seeds.Results{}); out != "" {
			t.Errorf("expected nothing for hidden results, got %q", out)
		}
	})

	t.Run("No Results", func(t *testing.T) {
		out := FormatSearchResults(seeds.Results{Visible: true, Query: "zzz"})
		if !strings.Contains(out, `No results for "zzz"`) {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("Partitioned", func(t *testing.T) {
		out := FormatSearchResults(seeds.Results{
			Visible: true,
			Artists: []models.SeedItem{{Kind: models.KindArtist, ID: "a1", Name: "Daft Punk"}},
			Tracks:  []models.SeedItem{{Kind: models.KindTrack, ID: "t1", Name: "One More Time", Extra: "Daft Punk"}},
		})

		artists := strings.Index(out, "Artists")
		tracks := strings.Index(out, "Tracks")
		if artists < 0 || tracks < artists {
			t.Errorf("expected artists before tracks, got %q", out)
		}
		if !strings.Contains(out, "One More Time, Daft Punk") {
			t.Errorf("expected track label with artists, got %q", out)
		}
	})
}

func TestHistoryExporters(t *testing.T) {
	t.Run("ExportHistoryToCSV", func(t *testing.T) {
		data, err := ExportHistoryToCSV(sampleHistory())
		if err != nil {
			t.Fatalf("ExportHistoryToCSV failed: %v", err)
		}

		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(records))
		}
		if records[0][0] != "ID" || records[0][4] != "Acousticness" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if records[1][2] != "a1 a2" || records[1][3] != "t1" {
			t.Errorf("unexpected seeds %v", records[1])
		}
		if records[1][1] != "2024-03-01T12:30:00Z" {
			t.Errorf("unexpected timestamp %q", records[1][1])
		}
		if records[1][9] != "0.7" {
			t.Errorf("expected energy 0.7, got %q", records[1][9])
		}
	})

	t.Run("ExportHistoryToMarkdown", func(t *testing.T) {
		data, err := ExportHistoryToMarkdown(sampleHistory())
		if err != nil {
			t.Fatalf("ExportHistoryToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Playlist requests") {
			t.Errorf("missing heading")
		}
		if !strings.Contains(output, "**Requests**: 2") {
			t.Errorf("missing count")
		}
		if !strings.Contains(output, "Artists: (none)") {
			t.Errorf("expected empty artist marker for rec2, got %s", output)
		}
	})

	t.Run("ExportHistoryToText", func(t *testing.T) {
		data, err := ExportHistoryToText(sampleHistory())
		if err != nil {
			t.Fatalf("ExportHistoryToText failed: %v", err)
		}
		if !strings.Contains(string(data), "3 seed(s)") {
			t.Errorf("expected seed count, got %s", data)
		}
		if !strings.Contains(string(data), " ago)") {
			t.Errorf("expected relative creation time, got %s", data)
		}

		empty, _ := ExportHistoryToText(nil)
		if !strings.Contains(string(empty), "No playlist requests yet") {
			t.Errorf("unexpected empty output %s", empty)
		}
	})

	t.Run("ParseFormat", func(t *testing.T) {
		tests := map[string]Format{"": FormatText, "TXT": FormatText, "csv": FormatCSV, "md": FormatMarkdown, "markdown": FormatMarkdown}
		for in, want := range tests {
			got, err := ParseFormat(in)
			if err != nil || got != want {
				t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
			}
		}
		if _, err := ParseFormat("xml"); err == nil {
			t.Error("expected error for unknown format")
		}
	})

	t.Run("WriteHistoryExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.csv")

		got, err := WriteHistoryExport(sampleHistory(), FormatCSV, path)
		if err != nil {
			t.Fatalf("WriteHistoryExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "rec1") {
			t.Errorf("expected rec1 in file, got %s", content)
		}
	})

	t.Run("WriteHistoryExport Bad Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "history.csv")
		if _, err := WriteHistoryExport(nil, FormatText, path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
