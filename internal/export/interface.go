// Package export renders stored sessions into portable formats.
package export

import (
	"fmt"
	"io"

	"github.com/ilikebug/ChatVortex/internal/domain"
)

// Exporter renders one session to a writer.
type Exporter interface {
	Export(sess *domain.Session, w io.Writer) error
	Extension() string
}

// New returns the exporter for a format name.
func New(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jsonl, md, yaml)", format)
	}
}
