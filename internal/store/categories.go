package store

import (
	"fmt"
	"strings"
)

// CustomPrefix starts the id of every ad hoc category.
const CustomPrefix = "custom-"

var defaultCategories = []Category{
	{ID: "coding", Label: "Coding", Icon: "💻", Color: "#3B82F6"},
	{ID: "study", Label: "Study & Reading", Icon: "📚", Color: "#22C55E"},
	{ID: "meeting", Label: "Meetings", Icon: "🗣", Color: "#EAB308"},
	{ID: "writing", Label: "Writing & Docs", Icon: "✍", Color: "#A855F7"},
	{ID: "email", Label: "Email & Chores", Icon: "📧", Color: "#F97316"},
	{ID: "break", Label: "Break", Icon: "☕", Color: "#6B7280"},
	{ID: "fitness", Label: "Exercise", Icon: "🏃", Color: "#EF4444"},
	{ID: "design", Label: "Design", Icon: "🎨", Color: "#EC4899"},
}

// DefaultCategories returns the built-in category set.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// CategoryByID looks up a built-in category.
func CategoryByID(id string) (Category, bool) {
	for _, c := range defaultCategories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// IsCustom reports whether id belongs to an ad hoc category.
func IsCustom(id string) bool {
	return strings.HasPrefix(id, CustomPrefix)
}

// ColorFor returns the display color for a breakdown key. Custom and
// unknown categories share a neutral color.
func ColorFor(key string) string {
	if c, ok := CategoryByID(key); ok {
		return c.Color
	}
	return "#94A3B8"
}

// RecentCustomLabels lists distinct custom labels, most recently used first.
func (s *Store) RecentCustomLabels(limit int) ([]string, error) {
	query := `SELECT category_label FROM time_logs
		WHERE category_id LIKE 'custom-%'
		GROUP BY category_label
		ORDER BY MAX(seq) DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list custom labels: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}
