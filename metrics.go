package syringe

import (
	"time"
)

// ResolveHook observes every top-level Resolve or Borrow call.
type ResolveHook func(key string, duration time.Duration, err error)

// ProvideHook observes every provider registration.
type ProvideHook func(key string)
