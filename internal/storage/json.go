package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// LoadJSON decodes key into v. A missing or unparsable value leaves v untouched
// and reports found=false; only backend failures are returned as errors.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("storage: malformed record under %q, using default: %v", key, err)
		return false, nil
	}
	return true, nil
}

func SaveJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw, ttl); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
