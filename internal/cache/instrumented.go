package cache

import (
	"context"
)

// LookupRecorder receives the outcome of every cache lookup
type LookupRecorder interface {
	RecordCacheLookup(key, result string)
}

type instrumented struct {
	Cache
	recorder LookupRecorder
}

// Instrumented wraps c so every Get reports a hit, miss or error to recorder
func Instrumented(c Cache, recorder LookupRecorder) Cache {
	if recorder == nil {
		return c
	}
	return &instrumented{Cache: c, recorder: recorder}
}

func (i *instrumented) Get(ctx context.Context, key string, dest any) (bool, error) {
	found, err := i.Cache.Get(ctx, key, dest)
	switch {
	case err != nil:
		i.recorder.RecordCacheLookup(key, "error")
	case found:
		i.recorder.RecordCacheLookup(key, "hit")
	default:
		i.recorder.RecordCacheLookup(key, "miss")
	}
	return found, err
}
