package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Binding ties a widget instance to the list it displays.
type Binding struct {
	WidgetID  string
	ListID    string
	UpdatedAt time.Time
}

// GetWidgetList returns the list bound to widgetID, or "" when unbound.
func (db *DB) GetWidgetList(widgetID string) (string, error) {
	var listID string
	err := db.QueryRow("SELECT list_id FROM widgets WHERE widget_id = ?", widgetID).Scan(&listID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading binding for %s: %w", widgetID, err)
	}
	return listID, nil
}

func (db *DB) SetWidgetList(widgetID, listID string) error {
	_, err := db.Exec(
		`INSERT INTO widgets (widget_id, list_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(widget_id) DO UPDATE SET list_id = excluded.list_id, updated_at = excluded.updated_at`,
		widgetID, listID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving binding for %s: %w", widgetID, err)
	}
	return nil
}

func (db *DB) DeleteWidget(widgetID string) error {
	_, err := db.Exec("DELETE FROM widgets WHERE widget_id = ?", widgetID)
	if err != nil {
		return fmt.Errorf("deleting binding for %s: %w", widgetID, err)
	}
	return nil
}

func (db *DB) ListWidgets() ([]Binding, error) {
	rows, err := db.Query("SELECT widget_id, list_id, updated_at FROM widgets ORDER BY widget_id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying widgets: %w", err)
	}
	defer rows.Close()

	var bindings []Binding
	for rows.Next() {
		var b Binding
		var updated sql.NullString
		if err := rows.Scan(&b.WidgetID, &b.ListID, &updated); err != nil {
			return nil, fmt.Errorf("scanning widget: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, updated.String); err == nil {
			b.UpdatedAt = t
		}
		bindings = append(bindings, b)
	}

	return bindings, rows.Err()
}
