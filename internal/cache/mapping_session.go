package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Mapping sessions hold parsed clipboard previews between the preview
// call and the operator's confirmation. They live in Redis when the
// cache is enabled and in process memory otherwise.

func mappingSessionKey(id string) string {
	return fmt.Sprintf("mapping:session:%s", id)
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

var (
	memoryMu       sync.Mutex
	memorySessions = map[string]memoryEntry{}
)

// SaveMappingSession stores a preview session under an id for ttl.
func SaveMappingSession(ctx context.Context, id string, session interface{}, ttl time.Duration) error {
	if Enabled() {
		return SetJSON(ctx, mappingSessionKey(id), session, ttl)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	memoryMu.Lock()
	defer memoryMu.Unlock()
	pruneExpiredLocked()
	memorySessions[id] = memoryEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	return nil
}

// GetMappingSession loads a preview session. The second return reports
// whether the session exists and has not expired.
func GetMappingSession(ctx context.Context, id string, dest interface{}) (bool, error) {
	if Enabled() {
		return GetJSON(ctx, mappingSessionKey(id), dest)
	}

	memoryMu.Lock()
	entry, ok := memorySessions[id]
	if ok && time.Now().After(entry.expiresAt) {
		delete(memorySessions, id)
		ok = false
	}
	memoryMu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteMappingSession removes a preview session.
func DeleteMappingSession(ctx context.Context, id string) error {
	if Enabled() {
		return Del(ctx, mappingSessionKey(id))
	}
	memoryMu.Lock()
	delete(memorySessions, id)
	memoryMu.Unlock()
	return nil
}

func pruneExpiredLocked() {
	now := time.Now()
	for id, entry := range memorySessions {
		if now.After(entry.expiresAt) {
			delete(memorySessions, id)
		}
	}
}
