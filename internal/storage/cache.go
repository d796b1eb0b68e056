package storage

import lru "github.com/hashicorp/golang-lru/v2"

const settingsCacheSize = 1024

// settingsCache keeps recently read digest times in memory. The notifier reads
// settings every cycle, so hitting Postgres for each user would be wasteful.
type settingsCache struct {
	c *lru.Cache[int64, Settings]
}

func newSettingsCache(size int) (*settingsCache, error) {
	c, err := lru.New[int64, Settings](size)
	if err != nil {
		return nil, err
	}
	return &settingsCache{c: c}, nil
}

func (s *settingsCache) get(telegramID int64) (Settings, bool) {
	return s.c.Get(telegramID)
}

func (s *settingsCache) put(telegramID int64, v Settings) {
	s.c.Add(telegramID, v)
}

func (s *settingsCache) remove(telegramID int64) {
	s.c.Remove(telegramID)
}
