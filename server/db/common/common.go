// Package common contains helpers shared by the database adapters.
package common

import (
	"sort"
	"strings"
	"time"

	t "github.com/echowaves/chat/server/store/types"
)

// TxTimeoutMultiplier defines how much longer a transaction may run compared to a single query.
const TxTimeoutMultiplier = 1.5

// Timeouts converts the configured per-query timeout in seconds into query and transaction
// timeouts. Zero durations mean no timeout.
func Timeouts(sqlTimeout int) (query, tx time.Duration) {
	if sqlTimeout <= 0 {
		return 0, 0
	}
	return time.Duration(sqlTimeout) * time.Second,
		time.Duration(float64(sqlTimeout)*TxTimeoutMultiplier) * time.Second
}

// UpdateByMap converts an update map into lower-cased column names and values ordered by column.
// The optional convert function may rewrite individual values, e.g. to turn string Uids into
// database keys.
func UpdateByMap(update map[string]interface{},
	convert func(col string, val interface{}) interface{}) (cols []string, args []interface{}) {

	keys := make([]string, 0, len(update))
	for key := range update {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		col := strings.ToLower(key)
		arg := update[key]
		if convert != nil {
			arg = convert(col, arg)
		}
		cols = append(cols, col)
		args = append(args, arg)
	}
	return
}

// NormalizeUpdateMap returns a copy of the update with lower-cased keys.
func NormalizeUpdateMap(update map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(update))
	for key, val := range update {
		result[strings.ToLower(key)] = val
	}
	return result
}

// UniqueTags drops blank and repeated tags keeping the order of the first occurrence.
func UniqueTags(tags []string) []string {
	var result []string
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = t.NormalizeTag(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// CountTags counts taggings per tag. The result is sorted by tag.
func CountTags(taggings []t.Tagging) []t.TagCount {
	counts := make(map[string]int)
	for _, tg := range taggings {
		counts[tg.Tag]++
	}

	result := make([]t.TagCount, 0, len(counts))
	for tag, count := range counts {
		result = append(result, t.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Tag < result[j].Tag
	})
	return result
}

// CountUnread returns the number of published messages created after the given moment.
func CountUnread(lastReadAt time.Time, msgs []t.Message) int {
	count := 0
	for i := range msgs {
		if msgs[i].IsPublished() && msgs[i].CreatedAt.After(lastReadAt) {
			count++
		}
	}
	return count
}

// OrderByIds reorders objects to follow the order of ids, dropping the missing ones.
// Databases return rows of IN queries in no particular order.
func OrderByIds(ids []t.Uid, uidOf func(i int) t.Uid, count int) []int {
	pos := make(map[t.Uid]int, count)
	for i := 0; i < count; i++ {
		pos[uidOf(i)] = i
	}
	var order []int
	for _, id := range ids {
		if i, ok := pos[id]; ok {
			order = append(order, i)
		}
	}
	return order
}
