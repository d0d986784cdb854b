package export

import "fmt"

// Format identifies an export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "csv" or "pdf"; an empty value means csv.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Summary []string
	Headers []string
	Rows    []map[string]string
}

// Renderer encodes a dataset.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// For returns the renderer for f.
func For(f Format) Renderer {
	if f == FormatPDF {
		return NewPDFExporter()
	}
	return NewCSVExporter()
}
