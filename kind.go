package syringe

import "github.com/danpasecinic/syringe/internal/kind"

// Kind is the lifecycle of a provider.
type Kind = kind.Kind

const (
	KindTransient = kind.Transient
	KindSingleton = kind.Singleton
	KindInstance  = kind.Instance
)
