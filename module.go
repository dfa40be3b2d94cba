package syringe

// Module groups provider registrations so they can be applied to several
// builders.
type Module struct {
	name          string
	registrations []func(b *Builder) error
	submodules    []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

// Include adds a submodule. Submodules are applied before the providers of m.
func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *Module) apply(b *Builder) error {
	for _, sub := range m.submodules {
		if err := sub.apply(b); err != nil {
			return err
		}
	}

	for _, register := range m.registrations {
		if err := register(b); err != nil {
			return err
		}
	}

	return nil
}

func (m *Module) add(register func(b *Builder) error) *Module {
	m.registrations = append(m.registrations, register)
	return m
}

// Apply registers the providers of each module in order. Applying the same
// module twice registers its providers twice, which Build reports as
// ambiguous.
func (b *Builder) Apply(modules ...*Module) error {
	for _, m := range modules {
		if err := m.apply(b); err != nil {
			return errModuleApplyFailed(m.name, err)
		}
	}
	return nil
}

func errModuleApplyFailed(moduleName string, cause error) *Error {
	return newError(
		ErrCodeModuleApplyFailed,
		"failed to apply module "+moduleName,
		cause,
	)
}

func ModuleTransient[T any](m *Module, ctor Constructor[T]) *Module {
	return m.add(
		func(b *Builder) error {
			return Transient(b, ctor)
		},
	)
}

func ModuleSingleton[T any](m *Module, ctor Constructor[T]) *Module {
	return m.add(
		func(b *Builder) error {
			return Singleton(b, ctor)
		},
	)
}

func ModuleInstance[T any](m *Module, value T) *Module {
	return m.add(
		func(b *Builder) error {
			return Instance(b, value)
		},
	)
}

func ModuleBind[I, T any](m *Module) *Module {
	return m.add(
		func(b *Builder) error {
			return Bind[I, T](b)
		},
	)
}
