package main

import "sync"

type Config struct {
	// AiMaxDepth caps the No-Draw search depth. 0 means the depth is
	// picked dynamically from the number of empty cells.
	AiMaxDepth       int             `json:"ai_max_depth"`
	AiTtSize         int             `json:"ai_tt_size"`
	AiTtBuckets      int             `json:"ai_tt_buckets"`
	AiLogSearchStats bool            `json:"ai_log_search_stats"`
	Heuristics       HeuristicConfig `json:"heuristics"`
}

// HeuristicConfig weights the No-Draw cutoff evaluation. Lines holding
// two of a player's marks with the third cell empty outweigh single
// marks on open lines; EvictionExposure discounts a threat whose oldest
// mark is about to be cycled off the board.
type HeuristicConfig struct {
	TwoInLine        float64 `json:"two_in_line"`
	OneInLine        float64 `json:"one_in_line"`
	EvictionExposure float64 `json:"eviction_exposure"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiMaxDepth:       0,
		AiTtSize:         1 << 14,
		AiTtBuckets:      2,
		AiLogSearchStats: false,
		Heuristics: HeuristicConfig{
			TwoInLine:        3.0,
			OneInLine:        1.0,
			EvictionExposure: 2.0,
		},
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
