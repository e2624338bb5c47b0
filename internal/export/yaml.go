package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ilikebug/ChatVortex/internal/domain"
)

// YAMLExporter exports a session as YAML.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(sess *domain.Session, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(yamlSession(sess))
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}

// yamlSession flattens the session for YAML output; json.RawMessage config
// would otherwise serialize as a byte list.
func yamlSession(sess *domain.Session) map[string]any {
	msgs := make([]map[string]any, len(sess.Messages))
	for i, m := range sess.Messages {
		msgs[i] = map[string]any{
			"role":      m.Role,
			"content":   m.Content,
			"timestamp": m.Timestamp.UTC(),
		}
	}
	return map[string]any{
		"id":            sess.ID,
		"title":         sess.Title,
		"created_at":    sess.CreatedAt.UTC(),
		"updated_at":    sess.UpdatedAt.UTC(),
		"message_count": sess.MessageCount,
		"messages":      msgs,
	}
}
