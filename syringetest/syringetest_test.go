package syringetest_test

import (
	"testing"

	"github.com/danpasecinic/syringe"
	"github.com/danpasecinic/syringe/syringetest"
)

type Config struct {
	Port int
	Host string
}

type Database struct {
	Config *Config
}

func NewDatabase(cfg *Config) *Database {
	return &Database{Config: cfg}
}

type UserRepository interface {
	FindByID(id int) string
}

type MockUserRepository struct {
	FindByIDFn func(id int) string
}

func (m *MockUserRepository) FindByID(id int) string {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(id)
	}
	return ""
}

type closeRecorder struct {
	closed *bool
}

func (r *closeRecorder) Close() error {
	*r.closed = true
	return nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	b := syringetest.New(t)
	if b == nil {
		t.Fatal("New() returned nil")
	}
	tc := b.RequireBuild()
	if tc.Size() != 0 {
		t.Errorf("expected empty container, got %d", tc.Size())
	}
}

func TestCleanupClosesContainer(t *testing.T) {
	t.Parallel()

	closed := false

	t.Run(
		"inner", func(t *testing.T) {
			b := syringetest.New(t)
			syringetest.MustSingleton(
				b, syringe.Ctor(
					func() *closeRecorder {
						return &closeRecorder{closed: &closed}
					},
				),
			)
			tc := b.RequireBuild()
			_ = syringetest.MustResolve[*closeRecorder](tc)

			if closed {
				t.Error("container should not be closed before the test ends")
			}
		},
	)

	if !closed {
		t.Error("expected the container to be closed by cleanup")
	}
}

func TestOverride(t *testing.T) {
	t.Parallel()

	b := syringetest.New(t)
	syringetest.MustInstance(b, &Config{Port: 8080, Host: "localhost"})
	syringetest.MustTransient(b, syringe.Ctor1(NewDatabase))
	tc := b.RequireBuild()

	test := syringetest.Override(tc, &Config{Port: 9090, Host: "testhost"})

	db := syringetest.MustResolve[*Database](test)
	if db.Config.Port != 9090 {
		t.Errorf("expected overridden port 9090, got %d", db.Config.Port)
	}

	orig := syringetest.MustResolve[*Database](tc)
	if orig.Config.Port != 8080 {
		t.Errorf("the parent scope must keep its config, got %d", orig.Config.Port)
	}
}

func TestOverrideInterface(t *testing.T) {
	t.Parallel()

	b := syringetest.New(t)
	tc := b.RequireBuild()

	mock := &MockUserRepository{
		FindByIDFn: func(id int) string {
			return "mock-user"
		},
	}
	test := syringetest.Override[UserRepository](tc, mock)

	repo := syringetest.MustResolve[UserRepository](test)
	if repo.FindByID(1) != "mock-user" {
		t.Errorf("expected mock-user, got %s", repo.FindByID(1))
	}
}

func TestAssertHas(t *testing.T) {
	t.Parallel()

	b := syringetest.New(t)
	syringetest.MustInstance(b, &Config{})
	tc := b.RequireBuild()

	syringetest.AssertHas[*Config](tc)
	syringetest.AssertNotHas[*Database](tc)
}

func TestRequireVerify(t *testing.T) {
	t.Parallel()

	b := syringetest.New(t)
	syringetest.MustInstance(b, &Config{})
	syringetest.MustSingleton(b, syringe.Ctor1(NewDatabase))
	tc := b.RequireBuild()

	syringetest.RequireVerify[*Database](tc)
}

func TestMustBorrow(t *testing.T) {
	t.Parallel()

	b := syringetest.New(t)
	syringetest.MustInstance(b, Config{Port: 1})
	tc := b.RequireBuild()

	p := syringetest.MustBorrow[Config](tc)
	p.Port = 2

	if syringetest.MustResolve[Config](tc).Port != 2 {
		t.Error("expected Borrow to expose the stored value")
	}
}

func TestMustBind(t *testing.T) {
	t.Parallel()

	b := syringetest.New(t)
	syringetest.MustInstance(b, &MockUserRepository{})
	syringetest.MustBind[UserRepository, *MockUserRepository](b)
	tc := b.RequireBuild()

	syringetest.AssertHas[UserRepository](tc)
}

func TestFork(t *testing.T) {
	t.Parallel()

	b := syringetest.New(t)
	syringetest.MustInstance(b, &Config{Port: 1})
	tc := b.RequireBuild()

	child := tc.Fork()
	syringetest.MustTransient(child, syringe.Ctor1(NewDatabase))
	ctc := child.RequireBuild()

	shared := tc.ForkShared().RequireBuild()

	syringetest.AssertHas[*Database](ctc)
	syringetest.AssertNotHas[*Database](tc)
	syringetest.AssertNotHas[*Database](shared)
}

func TestRequireBuildError(t *testing.T) {
	t.Parallel()

	b := syringetest.New(t)
	syringetest.MustTransient(b, syringe.Ctor1(NewDatabase))

	err := b.RequireBuildError()
	if !syringe.IsMissingProvider(err) {
		t.Errorf("expected missing provider, got %v", err)
	}
}
