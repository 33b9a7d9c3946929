package repository

import "context"

// NoopCache never stores anything; every lookup misses.
type NoopCache struct{}

func NewNoopCache() NoopCache { return NoopCache{} }

func (NoopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (NoopCache) Set(context.Context, string, []byte) error  { return nil }
func (NoopCache) Has(context.Context, string) bool           { return false }
func (NoopCache) Delete(context.Context, string) error       { return nil }
