package kind

type Kind int

const (
	Transient Kind = iota
	Singleton
	Instance
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	case Instance:
		return "instance"
	default:
		return "unknown"
	}
}

// Shared reports whether values of this kind are stored by the owning scope
// and handed out by reference.
func (k Kind) Shared() bool {
	return k == Singleton || k == Instance
}
