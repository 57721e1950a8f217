// Package cache keeps search results in redis and broadcasts invalidations
// to other API instances over pub/sub.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"ceylonhomes-api-io/api/pkg/notify"

	"github.com/redis/go-redis/v9"
)

const (
	ChannelGlobalCache = "CEYLONHOMES_CACHE"
	generationKey      = "search:generation"
)

type MessageType string

const (
	InvalidateListing  MessageType = "listing.invalidate"
	InvalidateListings MessageType = "listings.invalidate"
)

type Message struct {
	Type      MessageType `json:"type"`
	Payload   string      `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

func Connect(url string) (*redis.Client, error) {
	log.Printf("starting redis connection..")
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	log.Println("redis connection successful..")
	return client, nil
}

// SearchCache stores serialized search pages under a generation number.
// Bumping the generation orphans every cached page at once.
type SearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSearchCache(rdb *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{rdb: rdb, ttl: ttl}
}

func (c *SearchCache) key(ctx context.Context, k string) (string, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return entryKey(gen, k), nil
}

func entryKey(gen int64, k string) string {
	sum := sha1.Sum([]byte(k))
	return "search:" + strconv.FormatInt(gen, 10) + ":" + hex.EncodeToString(sum[:])
}

// Get decodes a cached value into dest. It also returns the slot the value
// lives in for the current generation; a write for the same lookup must go
// to that slot so a concurrent Invalidate orphans it. A miss returns false
// and no error.
func (c *SearchCache) Get(ctx context.Context, k string, dest any) (string, bool, error) {
	slot, err := c.key(ctx, k)
	if err != nil {
		return "", false, err
	}
	raw, err := c.rdb.Get(ctx, slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return slot, false, nil
	}
	if err != nil {
		return slot, false, err
	}
	return slot, true, json.Unmarshal(raw, dest)
}

// Set stores v in a slot returned by Get.
func (c *SearchCache) Set(ctx context.Context, slot string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, slot, raw, c.ttl).Err()
}

func (c *SearchCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, generationKey).Err()
}

// Invalidator drops cached searches and tells peers which listing changed.
type Invalidator struct {
	rdb    *redis.Client
	search *SearchCache
}

var _ notify.Notifier = (*Invalidator)(nil)

func NewInvalidator(rdb *redis.Client, search *SearchCache) *Invalidator {
	return &Invalidator{rdb: rdb, search: search}
}

func (i *Invalidator) Notify(ctx context.Context, msg notify.Message) error {
	if msg.Listing == nil {
		return nil
	}
	switch msg.Event {
	case notify.InquiryReceived, notify.ReportCreated:
		return nil
	}
	if err := i.search.Invalidate(ctx); err != nil {
		return err
	}
	return i.Publish(ctx, InvalidateListing, msg.Listing.ID)
}

// Publish sends a cache invalidation message as JSON.
func (i *Invalidator) Publish(ctx context.Context, messageType MessageType, payload string) error {
	raw, err := json.Marshal(Message{Type: messageType, Payload: payload, Timestamp: time.Now().Unix()})
	if err != nil {
		log.Printf("Failed to marshal cache message: %v", err)
		return err
	}
	if err := i.rdb.Publish(ctx, ChannelGlobalCache, string(raw)).Err(); err != nil {
		log.Printf("Failed to publish cache message: %v", err)
		return err
	}
	return nil
}

// Subscribe hands every message published on the cache channel to
// onMessage. It returns when ctx is cancelled.
func (i *Invalidator) Subscribe(ctx context.Context, onMessage func(Message)) error {
	sub := i.rdb.Subscribe(ctx, ChannelGlobalCache)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				log.Printf("Failed to decode cache message: %v", err)
				continue
			}
			onMessage(msg)
		}
	}
}
