package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/taskit/internal/store"
)

func ToCSV(tasks []store.Task, categories map[string]*store.Category, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Description", "Category", "Priority", "Status", "Due", "Completed", "Created"}); err != nil {
		return err
	}

	for _, t := range tasks {
		row := []string{
			t.ID,
			t.Title,
			t.Description,
			categoryName(t, categories),
			string(t.Priority),
			string(t.Status),
			formatOptTime(t.DueDate),
			formatOptTime(t.CompletedAt),
			t.CreatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func categoryName(t store.Task, categories map[string]*store.Category) string {
	if t.CategoryID == nil {
		return ""
	}
	if c, ok := categories[*t.CategoryID]; ok {
		return c.Name
	}
	return "Unknown"
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}
