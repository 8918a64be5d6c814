package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Persisted preference keys. Values are JSON.
const (
	KeyLastSummaryTime         = "lastSummaryTime"
	KeyCharacterPreferences    = "characterPreferences"
	KeyChatHistory             = "taskyChatHistory"
	KeyCommentReactions        = "commentReactions"
	KeyHasSeenCharacterWelcome = "hasSeenCharacterWelcome"
	KeyBoardState              = "boardState"
)

// KnownKeys lists the keys the client reads and writes.
var KnownKeys = []string{
	KeyLastSummaryTime,
	KeyCharacterPreferences,
	KeyChatHistory,
	KeyCommentReactions,
	KeyHasSeenCharacterWelcome,
	KeyBoardState,
}

// Prefs is typed, best-effort access to a KV.
//
// Reads never fail: a missing key, a storage error or an unparsable value all
// read as "absent" so callers fall back to defaults.
type Prefs struct {
	kv KV
}

func NewPrefs(kv KV) *Prefs {
	if kv == nil {
		kv = NewMemoryKV()
	}
	return &Prefs{kv: kv}
}

// GetJSON decodes key into dst. It reports false when the value is missing or corrupt.
func (p *Prefs) GetJSON(ctx context.Context, key string, dst any) bool {
	raw, err := p.kv.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false
	}
	return true
}

func (p *Prefs) SetJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, key, string(b))
}

// Raw returns the stored JSON text for key.
func (p *Prefs) Raw(ctx context.Context, key string) (string, bool) {
	raw, err := p.kv.Get(ctx, key)
	if err != nil {
		return "", false
	}
	return raw, true
}

// SetRaw stores value after checking it is valid JSON.
func (p *Prefs) SetRaw(ctx context.Context, key, value string) error {
	if !json.Valid([]byte(value)) {
		return errors.New("value must be valid JSON")
	}
	return p.kv.Set(ctx, key, value)
}

func (p *Prefs) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, key)
}

func (p *Prefs) Keys(ctx context.Context) ([]string, error) {
	return p.kv.Keys(ctx)
}

// LastSummaryTime returns the persisted time of the last successful summary.
// Bare (non-JSON) ISO strings written by older clients are accepted too.
func (p *Prefs) LastSummaryTime(ctx context.Context) (time.Time, bool) {
	raw, err := p.kv.Get(ctx, KeyLastSummaryTime)
	if err != nil {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		s = raw
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (p *Prefs) SetLastSummaryTime(ctx context.Context, t time.Time) error {
	return p.SetJSON(ctx, KeyLastSummaryTime, t.UTC().Format(time.RFC3339Nano))
}

// BoardState is the small UI state restored when the board is reopened.
type BoardState struct {
	Version    int    `json:"version"`
	GroupBy    string `json:"groupBy,omitempty"`
	SortBy     string `json:"sortBy,omitempty"`
	ShowClosed bool   `json:"showClosed,omitempty"`
	// SelectedTaskID restores the cursor; stale ids are ignored by the board.
	SelectedTaskID string `json:"selectedTaskId,omitempty"`
}

func (p *Prefs) BoardState(ctx context.Context) BoardState {
	var st BoardState
	if !p.GetJSON(ctx, KeyBoardState, &st) {
		return BoardState{Version: 1}
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return st
}

func (p *Prefs) SaveBoardState(ctx context.Context, st BoardState) error {
	if st.Version == 0 {
		st.Version = 1
	}
	return p.SetJSON(ctx, KeyBoardState, st)
}
