package export

import (
	"fmt"
	"io"
	"time"

	"github.com/ilikebug/ChatVortex/internal/domain"
)

// MarkdownExporter exports a session as a readable transcript.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(sess *domain.Session, w io.Writer) error {
	title := sess.Title
	if title == "" {
		title = sess.ID
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", sess.ID)
	_, _ = fmt.Fprintf(w, "**Created:** %s  \n", sess.CreatedAt.UTC().Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(sess.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range sess.Messages {
		_, _ = fmt.Fprintf(w, "**%s** (%s)\n\n%s\n\n",
			msg.Role, msg.Timestamp.UTC().Format(time.RFC3339), msg.Content)
		if i < len(sess.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
	return nil
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
