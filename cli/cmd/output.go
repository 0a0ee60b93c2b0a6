// ABOUTME: Shared output helpers for human and JSON command output
// ABOUTME: Tables, status styling, and indented JSON encoding

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/markalston/fabric-designer/cli/internal/tui/styles"
)

func statusStyle(ok bool) lipgloss.Style {
	if ok {
		return styles.StatusOK
	}
	return styles.StatusCritical
}

func checkSymbol(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// renderTable draws rows under a bold header with a rounded border.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeader
			}
			return styles.TableCell
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

func writeJSON(w io.Writer, v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	fmt.Fprintln(w, string(data))
	return 0
}
