package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/examkeeper/internal/client/services"
)

// consoleNotifier prints workflow notices as single lines.
type consoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func (n *consoleNotifier) Notify(kind services.NoticeKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch kind {
	case services.NoticeSuccess:
		fmt.Fprintf(n.w, "✓ %s\n", message)
	case services.NoticeError:
		fmt.Fprintf(n.w, "! %s\n", message)
	default:
		fmt.Fprintln(n.w, message)
	}
}
