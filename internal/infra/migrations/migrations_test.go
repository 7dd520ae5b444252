package migrations

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notifyMigration = "00003_bounded_row_change_notify.sql"

// pgNotifyMax is the largest payload pg_notify accepts, exclusive.
const pgNotifyMax = 8000

func readNotifyFunction(t *testing.T) (limit int, keys []string) {
	t.Helper()

	raw, err := Migrations.ReadFile(notifyMigration)
	require.NoError(t, err)
	up := strings.SplitN(string(raw), "-- +goose Down", 2)[0]

	m := regexp.MustCompile(`payload_limit CONSTANT int := (\d+);`).FindStringSubmatch(up)
	require.Len(t, m, 2, "payload_limit not found")
	limit, err = strconv.Atoi(m[1])
	require.NoError(t, err)

	m = regexp.MustCompile(`(?s)key_columns CONSTANT text\[\] := ARRAY\[(.*?)\];`).FindStringSubmatch(up)
	require.Len(t, m, 2, "key_columns not found")
	for _, k := range strings.Split(m[1], ",") {
		keys = append(keys, strings.Trim(strings.TrimSpace(k), "'"))
	}
	return limit, keys
}

func TestNotifyPayloadLimitIsBelowPostgresMax(t *testing.T) {
	limit, _ := readNotifyFunction(t)
	assert.Less(t, limit, pgNotifyMax)
}

func TestPartialPayloadKeepsFilterColumns(t *testing.T) {
	_, keys := readNotifyFunction(t)

	// columns realtime subscriptions filter on, and the counters clients read
	for _, col := range []string{
		"id", "chat_id", "trip_id", "user_id", "creator_id",
		"follower_id", "following_id", "status", "spots", "spots_filled",
	} {
		assert.Contains(t, keys, col)
	}
}

func TestPartialPayloadFitsWorstCase(t *testing.T) {
	limit, keys := readNotifyFunction(t)

	row := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		switch {
		case k == "id" || strings.HasSuffix(k, "_id"):
			row[k] = uuid.NewString()
		case k == "deleted_at":
			row[k] = "2024-12-31T23:59:59.999999+00:00"
		case k == "status":
			row[k] = "rejected"
		default:
			row[k] = int64(math.MaxInt64)
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"table":   "trip_participants",
		"type":    "DELETE",
		"record":  row,
		"old":     row,
		"partial": true,
	})
	require.NoError(t, err)
	assert.Less(t, len(payload), limit)
}
