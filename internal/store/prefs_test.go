package store

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestPrefs_CorruptValuesReadAsDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	p := NewPrefs(kv)

	_ = kv.Set(ctx, KeyBoardState, "{not json")
	if st := p.BoardState(ctx); st.Version != 1 || st.GroupBy != "" {
		t.Fatalf("expected default board state, got %#v", st)
	}

	_ = kv.Set(ctx, KeyLastSummaryTime, `"yesterday"`)
	if _, ok := p.LastSummaryTime(ctx); ok {
		t.Fatalf("expected unparsable timestamp to read as absent")
	}

	var reactions map[string][]string
	if p.GetJSON(ctx, KeyCommentReactions, &reactions) {
		t.Fatalf("expected missing key to report false")
	}
}

func TestPrefs_LastSummaryTimeAcceptsBareISO(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	p := NewPrefs(kv)

	_ = kv.Set(ctx, KeyLastSummaryTime, "2024-05-01T10:00:00.000Z")
	got, ok := p.LastSummaryTime(ctx)
	if !ok || !got.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("LastSummaryTime = %v, %v", got, ok)
	}
}

func TestPrefs_SQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv, err := OpenSQLiteKV(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLiteKV: %v", err)
	}
	defer kv.Close()
	p := NewPrefs(kv)

	want := BoardState{Version: 1, GroupBy: "priority", SortBy: "follow_up_date", ShowClosed: true, SelectedTaskID: "t9"}
	if err := p.SaveBoardState(ctx, want); err != nil {
		t.Fatalf("SaveBoardState: %v", err)
	}
	if got := p.BoardState(ctx); !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := p.SetLastSummaryTime(ctx, ts); err != nil {
		t.Fatalf("SetLastSummaryTime: %v", err)
	}
	if got, ok := p.LastSummaryTime(ctx); !ok || !got.Equal(ts) {
		t.Fatalf("LastSummaryTime = %v, %v", got, ok)
	}

	if err := p.SetRaw(ctx, KeyHasSeenCharacterWelcome, "nope{"); err == nil {
		t.Fatalf("expected SetRaw to reject invalid JSON")
	}
	keys, err := p.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{KeyBoardState, KeyLastSummaryTime}) {
		t.Fatalf("Keys = %v", keys)
	}
}
