package container

import (
	"fmt"
	"reflect"
	"strings"

	syrreflect "github.com/danpasecinic/syringe/internal/reflect"
)

type Code int

const (
	CodeMissing Code = iota + 1
	CodeAmbiguous
	CodeCycle
	CodeShadowed
	CodeLifetime
	CodeProviderFailed
	CodeFrozen
)

// Problem is a single diagnostic produced by verification or resolution.
// Chain is the path of type keys from the requested type down to Type.
type Problem struct {
	Code    Code
	Type    reflect.Type
	Chain   []string
	Scope   string
	Message string
	Cause   error
}

func (p *Problem) Error() string {
	var b strings.Builder
	b.WriteString(p.Message)
	if len(p.Chain) > 1 {
		b.WriteString(" (")
		b.WriteString(strings.Join(p.Chain, " -> "))
		b.WriteString(")")
	}
	if p.Cause != nil {
		b.WriteString(": ")
		b.WriteString(p.Cause.Error())
	}
	return b.String()
}

func (p *Problem) Unwrap() error {
	return p.Cause
}

// TypeName is the key of the type the problem is about.
func (p *Problem) TypeName() string {
	return syrreflect.Key(p.Type)
}

func chainKeys(chain []reflect.Type) []string {
	keys := make([]string, len(chain))
	for i, t := range chain {
		keys[i] = syrreflect.Key(t)
	}
	return keys
}

func missingProblem(t reflect.Type, chain []reflect.Type, scope string) *Problem {
	return &Problem{
		Code:    CodeMissing,
		Type:    t,
		Chain:   chainKeys(chain),
		Scope:   scope,
		Message: fmt.Sprintf("no provider for %s in scope chain", syrreflect.Key(t)),
	}
}

func ambiguousProblem(t reflect.Type, chain []reflect.Type, scope string, count int) *Problem {
	return &Problem{
		Code:    CodeAmbiguous,
		Type:    t,
		Chain:   chainKeys(chain),
		Scope:   scope,
		Message: fmt.Sprintf("%d providers for %s in scope %s", count, syrreflect.Key(t), scope),
	}
}

func cycleProblem(t reflect.Type, path []string, scope string) *Problem {
	return &Problem{
		Code:    CodeCycle,
		Type:    t,
		Chain:   path,
		Scope:   scope,
		Message: "circular dependency",
	}
}

func shadowedProblem(t reflect.Type, scope, ancestor string) *Problem {
	return &Problem{
		Code:    CodeShadowed,
		Type:    t,
		Chain:   []string{syrreflect.Key(t)},
		Scope:   scope,
		Message: fmt.Sprintf("%s shadows the provider in ancestor scope %s", syrreflect.Key(t), ancestor),
	}
}

func lifetimeProblem(scope, message string) *Problem {
	return &Problem{
		Code:    CodeLifetime,
		Scope:   scope,
		Message: message,
	}
}

func lifetimeEscapeProblem(p, dep *Plan, chain []reflect.Type) *Problem {
	return &Problem{
		Code:  CodeLifetime,
		Type:  p.Type,
		Chain: append(chainKeys(chain), dep.Key),
		Scope: p.Owner.id,
		Message: fmt.Sprintf(
			"singleton %s in scope %s would outlive %s %s owned by scope %s",
			p.Key, p.Owner.id, dep.Entry.Kind, dep.Key, dep.Owner.id,
		),
	}
}

func providerProblem(e *Entry, cause error) *Problem {
	return &Problem{
		Code:    CodeProviderFailed,
		Type:    e.Type,
		Chain:   []string{e.Key},
		Message: fmt.Sprintf("%s provider for %s failed", e.Kind, e.Key),
		Cause:   cause,
	}
}

// VerificationError aggregates every problem found while building a scope.
type VerificationError struct {
	Scope    string
	Problems []*Problem
}

func (e *VerificationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("scope %s: %s", e.Scope, strings.Join(msgs, "; "))
}

func (e *VerificationError) Unwrap() []error {
	errs := make([]error, len(e.Problems))
	for i, p := range e.Problems {
		errs[i] = p
	}
	return errs
}
