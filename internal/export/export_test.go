package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/taskit/internal/store"
)

func timep(t time.Time) *time.Time { return &t }
func strp(s string) *string        { return &s }

func sampleData() ([]store.Task, map[string]*store.Category) {
	created := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC)
	done := time.Date(2026, time.March, 10, 20, 15, 0, 0, time.UTC)

	tasks := []store.Task{
		{
			ID: "t1", Title: "Pay rent", Description: "Bank transfer",
			Priority: store.PriorityHigh, Status: store.StatusPending,
			CategoryID: strp("cat1"), DueDate: timep(due), CreatedAt: created,
		},
		{
			ID: "t2", Title: "Buy groceries",
			Priority: store.PriorityMedium, Status: store.StatusCompleted,
			CompletedAt: timep(done), CreatedAt: created,
		},
		{
			ID: "t3", Title: "Old task",
			Priority: store.PriorityLow, Status: store.StatusPending,
			CategoryID: strp("ghost"), CreatedAt: created,
		},
	}
	categories := map[string]*store.Category{
		"cat1": {ID: "cat1", Name: "Finance"},
	}
	return tasks, categories
}

// ============================================================
// CSV export
// ============================================================

func TestToCSV(t *testing.T) {
	tasks, categories := sampleData()
	path := filepath.Join(t.TempDir(), "tasks.csv")

	if err := ToCSV(tasks, categories, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}

	header := rows[0]
	want := []string{"ID", "Title", "Description", "Category", "Priority", "Status", "Due", "Completed", "Created"}
	for i, col := range want {
		if header[i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], col)
		}
	}

	first := rows[1]
	if first[0] != "t1" || first[1] != "Pay rent" || first[3] != "Finance" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if first[4] != "high" || first[5] != "pending" {
		t.Fatalf("unexpected priority/status: %v", first)
	}
	if first[6] == "" {
		t.Fatal("due column should be populated")
	}
	if first[7] != "" {
		t.Fatal("completed column should be empty for a pending task")
	}

	// Uncategorized task renders an empty category, a dangling id "Unknown".
	if rows[2][3] != "" {
		t.Fatalf("expected empty category, got %q", rows[2][3])
	}
	if rows[3][3] != "Unknown" {
		t.Fatalf("expected Unknown category, got %q", rows[3][3])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	tasks := []store.Task{{
		ID: "t1", Title: `Review "Q1, Q2" numbers`, Description: "line one\nline two",
		Priority: store.PriorityMedium, Status: store.StatusPending,
		CreatedAt: time.Now(),
	}}
	path := filepath.Join(t.TempDir(), "quoted.csv")
	if err := ToCSV(tasks, nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("output should stay parseable: %v", err)
	}
	if rows[1][1] != `Review "Q1, Q2" numbers` {
		t.Fatalf("title mangled: %q", rows[1][1])
	}
	if rows[1][2] != "line one\nline two" {
		t.Fatalf("description mangled: %q", rows[1][2])
	}
}

func TestToCSVBadPath(t *testing.T) {
	tasks, categories := sampleData()
	if err := ToCSV(tasks, categories, "/nonexistent-dir/out.csv"); err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}

// ============================================================
// JSON export
// ============================================================

func TestToJSON(t *testing.T) {
	tasks, categories := sampleData()
	path := filepath.Join(t.TempDir(), "tasks.json")

	if err := ToJSON(tasks, categories, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		ExportedAt string `json:"exported_at"`
		Count      int    `json:"count"`
		Tasks      []struct {
			ID          string `json:"id"`
			Title       string `json:"title"`
			Category    string `json:"category"`
			CategoryID  string `json:"category_id"`
			Priority    string `json:"priority"`
			Status      string `json:"status"`
			DueDate     string `json:"due_date"`
			CompletedAt string `json:"completed_at"`
			CreatedAt   string `json:"created_at"`
		} `json:"tasks"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if out.Count != 3 || len(out.Tasks) != 3 {
		t.Fatalf("count = %d, tasks = %d, want 3 each", out.Count, len(out.Tasks))
	}
	if _, err := time.Parse(time.RFC3339, out.ExportedAt); err != nil {
		t.Fatalf("exported_at not RFC3339: %q", out.ExportedAt)
	}

	first := out.Tasks[0]
	if first.ID != "t1" || first.Category != "Finance" || first.CategoryID != "cat1" {
		t.Fatalf("unexpected first task: %+v", first)
	}
	if first.Priority != "high" || first.Status != "pending" {
		t.Fatalf("unexpected priority/status: %+v", first)
	}
	if _, err := time.Parse(time.RFC3339, first.DueDate); err != nil {
		t.Fatalf("due_date not RFC3339: %q", first.DueDate)
	}
	if _, err := time.Parse(time.RFC3339, first.CreatedAt); err != nil {
		t.Fatalf("created_at not RFC3339: %q", first.CreatedAt)
	}

	second := out.Tasks[1]
	if second.CompletedAt == "" {
		t.Fatal("completed task should carry completed_at")
	}
	if second.DueDate != "" {
		t.Fatal("undated task should omit due_date")
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out["count"].(float64) != 0 {
		t.Fatalf("count = %v, want 0", out["count"])
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	tasks, categories := sampleData()
	path := filepath.Join(t.TempDir(), "pretty.json")
	if err := ToJSON(tasks, categories, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("expected indented output")
	}
}

func TestToJSONBadPath(t *testing.T) {
	tasks, categories := sampleData()
	if err := ToJSON(tasks, categories, "/nonexistent-dir/out.json"); err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}
