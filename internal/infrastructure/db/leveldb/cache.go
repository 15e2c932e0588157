package leveldb

import (
	cache "github.com/patrickmn/go-cache"
)

const (
	dbPut = iota
	dbDelete
)

// stagedWrites shadows the db with the writes of an uncommitted batch.
type stagedWrites struct {
	cache *cache.Cache
}

type stagedData struct {
	op    int
	value []byte
}

func newStagedWrites() *stagedWrites {
	return &stagedWrites{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// get returns whether key was staged and, if so, its value or nil if it was deleted.
func (s *stagedWrites) get(key []byte) ([]byte, bool) {
	obj, found := s.cache.Get(string(key))
	if !found {
		return nil, false
	}

	data := obj.(stagedData)
	if data.op == dbDelete {
		return nil, true
	}
	return data.value, true
}

func (s *stagedWrites) set(op int, key, value []byte) {
	s.cache.Set(string(key), stagedData{op: op, value: value}, cache.NoExpiration)
}

func (s *stagedWrites) clear() {
	s.cache.Flush()
}
