package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/sevakart/payments/internal/pkg/cache"
)

const webhookCountersKey = "webhook:counters"

// AddProcessed increments the processed-event counter for a gateway in Redis
func AddProcessed(gateway string) error {
	return incr(gateway, "processed")
}

// AddDuplicate increments the deduplicated-redelivery counter for a gateway
func AddDuplicate(gateway string) error {
	return incr(gateway, "duplicate")
}

// AddUnhandled increments the recognized-but-unhandled counter for a gateway
func AddUnhandled(gateway string) error {
	return incr(gateway, "unhandled")
}

// AddRejected increments the rejected-delivery counter for a gateway
func AddRejected(gateway string) error {
	return incr(gateway, "rejected")
}

func incr(gateway, outcome string) error {
	ctx := context.Background()
	field := fmt.Sprintf("%s:%s", gateway, outcome)
	return cache.GetClient().HIncrBy(ctx, webhookCountersKey, field, 1).Err()
}

// Snapshot returns the current counters keyed by "<gateway>:<outcome>",
// sorted field order for stable output.
func Snapshot() ([]Entry, error) {
	ctx := context.Background()
	data, err := cache.GetClient().HGetAll(ctx, webhookCountersKey).Result()
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(data))
	for f := range data {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	entries := make([]Entry, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseInt(data[f], 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Field: f, Count: n})
	}
	return entries, nil
}

// Entry is one gateway/outcome counter value.
type Entry struct {
	Field string `json:"field"`
	Count int64  `json:"count"`
}
