package common

import (
	"testing"
	"time"

	"github.com/echowaves/chat/server/store/types"
	"github.com/google/go-cmp/cmp"
)

func TestTimeouts(t *testing.T) {
	q, tx := Timeouts(0)
	if q != 0 || tx != 0 {
		t.Errorf("expected no timeouts, got %v %v", q, tx)
	}
	q, tx = Timeouts(10)
	if q != 10*time.Second || tx != 15*time.Second {
		t.Errorf("unexpected timeouts %v %v", q, tx)
	}
}

func TestUpdateByMap(t *testing.T) {
	update := map[string]interface{}{
		"UpdatedAt":   "b",
		"ActivatedAt": "a",
		"Owner":       "c",
	}
	cols, args := UpdateByMap(update, func(col string, val interface{}) interface{} {
		if col == "owner" {
			return 42
		}
		return val
	})
	if diff := cmp.Diff([]string{"activatedat", "owner", "updatedat"}, cols); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]interface{}{"a", 42, "b"}, args); diff != "" {
		t.Error(diff)
	}

	cols, args = UpdateByMap(nil, nil)
	if len(cols) != 0 || len(args) != 0 {
		t.Error("expected empty result for empty update")
	}
}

func TestNormalizeUpdateMap(t *testing.T) {
	got := NormalizeUpdateMap(map[string]interface{}{"LastReadAt": 1, "User": "x"})
	if diff := cmp.Diff(map[string]interface{}{"lastreadat": 1, "user": "x"}, got); diff != "" {
		t.Error(diff)
	}
}

func TestUniqueTags(t *testing.T) {
	got := UniqueTags([]string{" go ", "", "db", "go", "  ", "db", "chat"})
	if diff := cmp.Diff([]string{"go", "db", "chat"}, got); diff != "" {
		t.Error(diff)
	}
	if UniqueTags(nil) != nil {
		t.Error("expected nil for no tags")
	}
}

func TestCountTags(t *testing.T) {
	got := CountTags([]types.Tagging{
		{Conversation: "c", User: "u1", Tag: "go"},
		{Conversation: "c", User: "u2", Tag: "go"},
		{Conversation: "c", User: "u1", Tag: "chat"},
	})
	want := []types.TagCount{{Tag: "chat", Count: 1}, {Tag: "go", Count: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
}

func TestCountUnread(t *testing.T) {
	read := time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)
	msgs := []types.Message{
		{ObjHeader: types.ObjHeader{CreatedAt: read.Add(-time.Minute)}},
		{ObjHeader: types.ObjHeader{CreatedAt: read}},
		{ObjHeader: types.ObjHeader{CreatedAt: read.Add(time.Minute)}},
		{ObjHeader: types.ObjHeader{CreatedAt: read.Add(time.Hour)}, AbuseReport: "x"},
		{ObjHeader: types.ObjHeader{CreatedAt: read.Add(2 * time.Hour)}},
	}
	if got := CountUnread(read, msgs); got != 2 {
		t.Errorf("expected 2 unread, got %d", got)
	}
}

func TestOrderByIds(t *testing.T) {
	rows := []types.Uid{30, 10, 20}
	order := OrderByIds([]types.Uid{10, 20, 40, 30}, func(i int) types.Uid { return rows[i] }, len(rows))
	if diff := cmp.Diff([]int{1, 2, 0}, order); diff != "" {
		t.Error(diff)
	}
}
