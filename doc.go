// Package syringe provides a hierarchical dependency injection container for
// Go 1.25+ whose wiring is verified before any instance is constructed.
//
// # Quick Start
//
// Declare how each type is built, then build the scope:
//
//	b := syringe.New()
//
//	syringe.Instance(b, &Config{Port: 8080})
//	syringe.Singleton(b, syringe.Ctor1(NewDatabase))   // func(*Config) *Database
//	syringe.Transient(b, syringe.Ctor2(NewService))    // func(*Config, *Database) *Service
//
//	c, err := b.Build()
//	if err != nil {
//	    log.Fatal(err) // every missing, ambiguous or circular dependency
//	}
//	defer c.Close()
//
//	svc, err := syringe.Resolve[*Service](c)
//
// # Providers
//
// Three kinds of providers are available:
//
//	syringe.Transient(b, ctor)   // new value on every resolution
//	syringe.Singleton(b, ctor)   // built once, shared with descendant scopes
//	syringe.Instance(b, value)   // existing value, no dependencies
//	syringe.Bind[Store, *SQLStore](b)
//
// # Constructors
//
// A Constructor carries its ordered dependency list:
//
//	syringe.Ctor(NewConfig)                     // func() T
//	syringe.Ctor2(NewService)                   // func(A, B) T
//	syringe.Func[*Service](NewService)          // parameters discovered by reflection,
//	                                            // may return (T, error)
//	syringe.Declare[*Service](
//	    []reflect.Type{syringe.Dep[*Config](), syringe.Dep[*Database]()},
//	    func(args []any) (*Service, error) { ... },
//	)
//
// # Scopes
//
// A built Container can be forked into child scopes. A child sees every
// provider of its ancestors, its own providers win over theirs, and siblings
// never see each other:
//
//	child, err := c.Fork().Build()        // borrows c
//	child, err := c.ForkShared().Build()  // holds a reference on c
//
// Dependencies are always resolved from the scope that was asked, so a
// parent provider can use a type supplied by the child (see WithPartialGraph).
// A borrowed child must be closed before its parent; a shared child keeps the
// parent's storage alive after the parent is closed.
//
// # Resolution
//
//	v, err := syringe.Resolve[*Service](c)   // value
//	p, err := syringe.Borrow[Config](c)      // pointer to the stored value
//	err := syringe.Verify[*Service](c)       // dry run, no constructor runs
//	plan, err := syringe.Plan[*Service](c)   // construction order
//
// Resolution computes and caches a plan before running any constructor, so a
// missing or ambiguous provider never leaves half-built singletons behind.
//
// # Modules
//
//	var Storage = syringe.NewModule("storage")
//	syringe.ModuleSingleton(Storage, syringe.Ctor1(NewDatabase))
//	syringe.ModuleBind[Store, *SQLStore](Storage)
//
//	b.Apply(Storage)
//
// # Debug Visualization
//
//	c.PrintGraph()            // text, with ● for instantiated singletons
//	c.PrintGraphDOT()         // Graphviz, one cluster per scope
//	c.FprintGraphTable(w)     // table
//	info := c.Graph()
//
// # Errors
//
// Every error is a *Error with an ErrorCode. Helpers such as
// IsMissingProvider and IsCircularDependency look through wrapping:
//
//	if syringe.IsMissingProvider(err) { ... }
package syringe
