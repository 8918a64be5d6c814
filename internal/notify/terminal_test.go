package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalNotifier_WritesOSC777(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminalNotifier(&buf, TerminalOptions{Enabled: true, Bell: true, AssumeTTY: true})
	assert.Equal(t, Default, n.Permission())

	perm, err := n.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Granted, perm)

	require.NoError(t, n.Notify(context.Background(), Notification{Title: "⚠️ Task Overdue", Body: `"a;b" was due`}))
	assert.Equal(t, "\x1b]777;notify;⚠️ Task Overdue;\"a,b\" was due\x1b\\\a", buf.String())
}

func TestTerminalNotifier_DisabledIsDenied(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminalNotifier(&buf, TerminalOptions{AssumeTTY: true})
	perm, _ := n.RequestPermission(context.Background())
	assert.Equal(t, Denied, perm)
	require.NoError(t, n.Notify(context.Background(), Notification{Title: "x"}))
	assert.Empty(t, buf.String())
}

func TestTerminalNotifier_NonTTYIsUnsupported(t *testing.T) {
	n := NewTerminalNotifier(&bytes.Buffer{}, TerminalOptions{Enabled: true})
	assert.Equal(t, Unsupported, n.Permission())
}
