package export

import (
	"encoding/json"
	"io"

	"github.com/ilikebug/ChatVortex/internal/domain"
)

// JSONExporter exports a session as pretty-printed JSON.
type JSONExporter struct{}

func (e *JSONExporter) Export(sess *domain.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sess)
}

func (e *JSONExporter) Extension() string {
	return "json"
}
