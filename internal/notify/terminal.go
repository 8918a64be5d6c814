package notify

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

type TerminalOptions struct {
	// Enabled is the user's standing answer to the permission prompt.
	Enabled bool
	// Bell rings the terminal bell with every notification.
	Bell bool
	// AssumeTTY skips terminal detection.
	AssumeTTY bool
}

// TerminalNotifier raises desktop notifications through the terminal with
// OSC 777, which most modern terminal emulators forward to the OS.
type TerminalNotifier struct {
	out       *termenv.Output
	opts      TerminalOptions
	supported bool

	mu   sync.Mutex
	perm Permission
}

func NewTerminalNotifier(w io.Writer, opts TerminalOptions) *TerminalNotifier {
	supported := opts.AssumeTTY
	if f, ok := w.(*os.File); ok && !supported {
		supported = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &TerminalNotifier{
		out:       termenv.NewOutput(w, termenv.WithTTY(supported)),
		opts:      opts,
		supported: supported,
	}
}

func (n *TerminalNotifier) Permission() Permission {
	if !n.supported {
		return Unsupported
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.perm
}

func (n *TerminalNotifier) RequestPermission(context.Context) (Permission, error) {
	if !n.supported {
		return Unsupported, nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.perm == Default {
		if n.opts.Enabled {
			n.perm = Granted
		} else {
			n.perm = Denied
		}
	}
	return n.perm, nil
}

func (n *TerminalNotifier) Notify(_ context.Context, note Notification) error {
	if n.Permission() != Granted {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	// OSC 777 fields are ';'-separated.
	n.out.Notify(oscSafe(note.Title), oscSafe(note.Body))
	if n.opts.Bell {
		if _, err := n.out.WriteString("\a"); err != nil {
			return err
		}
	}
	return nil
}

func oscSafe(s string) string {
	return strings.NewReplacer(";", ",", "\x1b", "", "\a", "", "\n", " ").Replace(s)
}
