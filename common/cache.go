// Copyright 2024 The nanopow Authors
//
// This file is part of the nanopow library.
//
// The nanopow library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The nanopow library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the nanopow library. If not, see <http://www.gnu.org/licenses/>.

package common

import (
	"github.com/hashicorp/golang-lru"
)

// Cache is the recent-hash dedup cache the network worker keeps for
// gossiped blocks and transactions: bounded, evict-oldest, no persistence.
type Cache interface {
	Add(key interface{}, value interface{}) (evicted bool)
	Contains(key interface{}) bool
}

type lruCache struct {
	lru *lru.Cache
}

func (cache *lruCache) Add(key interface{}, value interface{}) (evicted bool) {
	return cache.lru.Add(key, value)
}

func (cache *lruCache) Contains(key interface{}) bool {
	return cache.lru.Contains(key)
}

// LRUConfig sizes a Cache built by NewCache.
type LRUConfig struct {
	CacheSize int
}

// NewCache builds a Cache backed by a fixed-size LRU.
func NewCache(config LRUConfig) (Cache, error) {
	l, err := lru.New(config.CacheSize)
	if err != nil {
		return nil, err
	}
	return &lruCache{l}, nil
}
