package usecase

import (
	"fmt"
	"testing"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

func assetsOf(ids ...string) []domain.Asset {
	out := make([]domain.Asset, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Asset{SourceID: id, Handle: domain.AssetHandle{Key: id}})
	}
	return out
}

func TestClassifyCameraFilenameTitle(t *testing.T) {
	records, err := Classify(assetsOf("IMG_0042.jpg"), "Windows")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.Title != "Windows Project 0042" {
		t.Fatalf("expected title %q, got %q", "Windows Project 0042", got.Title)
	}
	if got.Category != "Windows" || got.SourceID != "IMG_0042.jpg" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Location != "Wheat Ridge" {
		t.Fatalf("expected location Wheat Ridge, got %q", got.Location)
	}
}

func TestClassifyDescriptiveFilenameTitle(t *testing.T) {
	records, err := Classify(assetsOf("back-door-install.png"), "Exterior")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if records[0].Title != "Back Door Install" {
		t.Fatalf("expected title %q, got %q", "Back Door Install", records[0].Title)
	}
}

func TestClassifyTitleRules(t *testing.T) {
	cases := []struct {
		sourceID string
		want     string
	}{
		{sourceID: "exterior/IMG-7731.jpeg", want: "Exterior Project 7731"},
		{sourceID: `C:\photos\IMG_12.JPG`, want: "Exterior Project 12"},
		{sourceID: "exterior/IMG_2024_final.jpg", want: "Exterior Project 2024"},
		{sourceID: "exterior/img_0042.jpg", want: "Img 0042"},
		{sourceID: "exterior/IMGX_0042.jpg", want: "IMGX 0042"},
		{sourceID: "exterior/new_siding__front.webp", want: "New Siding  Front"},
		{sourceID: "exterior/-deck.jpg", want: " Deck"},
		{sourceID: "exterior/porch_.jpg", want: "Porch "},
		{sourceID: "exterior/garage--door_.png", want: "Garage  Door "},
		{sourceID: "exterior/patio.door.jpg", want: "Patio.door"},
		{sourceID: "exterior/already Titled", want: "Already Titled"},
	}
	for _, tc := range cases {
		records, err := Classify(assetsOf(tc.sourceID), "Exterior")
		if err != nil {
			t.Fatalf("Classify(%q) error = %v", tc.sourceID, err)
		}
		if records[0].Title != tc.want {
			t.Fatalf("Classify(%q) title = %q, want %q", tc.sourceID, records[0].Title, tc.want)
		}
	}
}

func TestClassifyFallbackNumberingIsPerCall(t *testing.T) {
	records, err := Classify(assetsOf("a/kitchen.jpg", "a/IMG_.jpg", "a/IMG-final.jpg"), "Windows")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if records[1].Title != "Windows Project 0002" {
		t.Fatalf("expected fallback title for position 2, got %q", records[1].Title)
	}
	if records[2].Title != "Windows Project 0003" {
		t.Fatalf("expected fallback title for position 3, got %q", records[2].Title)
	}

	again, err := Classify(assetsOf("b/IMG_.jpg"), "Windows")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if again[0].Title != "Windows Project 0001" {
		t.Fatalf("expected numbering to restart per call, got %q", again[0].Title)
	}
}

func TestClassifyKeepsInputOrderAndDuplicateTitles(t *testing.T) {
	ids := []string{"z/porch.jpg", "a/porch.jpg", "m/deck.jpg"}
	records, err := Classify(assetsOf(ids...), "Exterior")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	for i, id := range ids {
		if records[i].SourceID != id {
			t.Fatalf("expected record %d to be %q, got %q", i, id, records[i].SourceID)
		}
	}
	if records[0].Title != records[1].Title {
		t.Fatalf("expected duplicate titles to be preserved, got %q and %q", records[0].Title, records[1].Title)
	}
}

func TestClassifyLocationUsesSourceAndCategory(t *testing.T) {
	records, err := Classify(assetsOf("windows/IMG_0042.jpg"), "Windows")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	want, _ := AssignLocation("windows/IMG_0042.jpgWindows", domain.DefaultGazetteer)
	if records[0].Location != want {
		t.Fatalf("expected location %q, got %q", want, records[0].Location)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	records, err := Classify(nil, "Windows")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", records)
	}
}

func TestClassifyEmptySourceID(t *testing.T) {
	_, err := Classify(assetsOf("ok.jpg", ""), "Windows")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestClassifyCoversWholeGazetteer(t *testing.T) {
	ids := make([]string, 0, 2000)
	for i := 0; i < 2000; i++ {
		ids = append(ids, fmt.Sprintf("batch/photo-%05d.jpg", i))
	}
	records, err := Classify(assetsOf(ids...), "Windows")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	seen := make(map[string]int)
	for _, r := range records {
		seen[r.Location]++
	}
	for _, name := range domain.DefaultGazetteer {
		if seen[name] == 0 {
			t.Fatalf("expected %q to appear at least once, distribution: %v", name, seen)
		}
	}
}

func TestNewClassifierRejectsEmptyGazetteer(t *testing.T) {
	if _, err := NewClassifier(nil); !domain.IsKind(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestClassifierUsesCustomGazetteer(t *testing.T) {
	c, err := NewClassifier([]string{"Pueblo"})
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}
	records, err := c.Classify(assetsOf("a.jpg", "b.jpg"), "Doors")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	for _, r := range records {
		if r.Location != "Pueblo" {
			t.Fatalf("expected Pueblo, got %q", r.Location)
		}
	}
}
