package store

import (
	"encoding/json"
	"fmt"
	"time"
)

func encodeDistribution(dist map[int]int) (string, error) {
	if dist == nil {
		dist = map[int]int{}
	}
	raw, err := json.Marshal(dist)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeDistribution(raw string) (map[int]int, error) {
	dist := map[int]int{}
	if raw == "" {
		return dist, nil
	}
	if err := json.Unmarshal([]byte(raw), &dist); err != nil {
		return nil, fmt.Errorf("invalid guess distribution: %w", err)
	}
	return dist, nil
}

// duration marshals as a Go duration string, which round-trips exactly.
type duration time.Duration

func (d duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}
