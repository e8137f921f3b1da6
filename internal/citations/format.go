package citations

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"researchmate/internal/models"
)

type Style string

const (
	StyleAPA     Style = "apa"
	StyleMLA     Style = "mla"
	StyleChicago Style = "chicago"
)

func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleAPA:
		return StyleAPA, nil
	case StyleMLA:
		return StyleMLA, nil
	case StyleChicago:
		return StyleChicago, nil
	default:
		return "", fmt.Errorf("unsupported citation style: %q", s)
	}
}

// Format renders a citation in the given style. The author is a fixed
// placeholder: no author metadata is ever extracted from documents, and the
// formatter does not pretend otherwise.
func Format(c models.Citation, style Style) string {
	author := "Author, A."
	year := c.DateAdded.Year()
	title := strings.TrimSuffix(c.DocumentName, filepath.Ext(c.DocumentName))

	switch style {
	case StyleAPA:
		return fmt.Sprintf("%s (%d). %s. p. %d.", author, year, title, c.Page)
	case StyleMLA:
		return fmt.Sprintf(`%s "%s." %d, p. %d.`, author, title, year, c.Page)
	case StyleChicago:
		return fmt.Sprintf(`%s, "%s," %d, %d.`, author, title, year, c.Page)
	default:
		return c.Text
	}
}

// Export writes the formatted citations joined by blank lines.
func Export(w io.Writer, cites []models.Citation, style Style) error {
	lines := make([]string, 0, len(cites))
	for _, c := range cites {
		lines = append(lines, Format(c, style))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n\n"))
	return err
}

func ExportFilename(style Style) string {
	return fmt.Sprintf("citations-%s.txt", style)
}
