package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ilikebug/ChatVortex/internal/domain"
)

// JSONLExporter exports a session as one JSON object per message line.
type JSONLExporter struct{}

func (e *JSONLExporter) Export(sess *domain.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, msg := range sess.Messages {
		obj := map[string]any{
			"role":      msg.Role,
			"content":   msg.Content,
			"timestamp": msg.Timestamp.UTC().Format(time.RFC3339Nano),
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("encode message %s: %w", msg.ID, err)
		}
	}
	return nil
}

func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
