package syringe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danpasecinic/syringe/internal/container"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeMissingProvider
	ErrCodeAmbiguousProvider
	ErrCodeLifetimeViolation
	ErrCodeCircularDependency
	ErrCodeShadowedProvider
	ErrCodeProviderFailed
	ErrCodeInvalidConstructor
	ErrCodeFrozen
	ErrCodeVerificationFailed
	ErrCodeResolutionFailed
	ErrCodeModuleApplyFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeMissingProvider:    "MISSING_PROVIDER",
	ErrCodeAmbiguousProvider:  "AMBIGUOUS_PROVIDER",
	ErrCodeLifetimeViolation:  "LIFETIME_VIOLATION",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeShadowedProvider:   "SHADOWED_PROVIDER",
	ErrCodeProviderFailed:     "PROVIDER_FAILED",
	ErrCodeInvalidConstructor: "INVALID_CONSTRUCTOR",
	ErrCodeFrozen:             "FROZEN",
	ErrCodeVerificationFailed: "VERIFICATION_FAILED",
	ErrCodeResolutionFailed:   "RESOLUTION_FAILED",
	ErrCodeModuleApplyFailed:  "MODULE_APPLY_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the error type returned by every syringe operation. Chain holds the
// dependency path that led to the failing type, requested type first.
type Error struct {
	Code    ErrorCode
	Message string
	Service string
	Scope   string
	Chain   []string
	Cause   error
	// Problems lists every individual failure of a verification.
	Problems []*Error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Service != "" {
		b.WriteString(fmt.Sprintf(" service=%q:", e.Service))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if len(e.Chain) > 1 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Chain, " -> "))
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	for _, p := range e.Problems {
		b.WriteString("\n  ")
		b.WriteString(p.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	for _, p := range e.Problems {
		errs = append(errs, p)
	}
	return errs
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithService(service string) *Error {
	e.Service = service
	return e
}

func (e *Error) WithChain(chain []string) *Error {
	e.Chain = chain
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

var problemCodes = map[container.Code]ErrorCode{
	container.CodeMissing:        ErrCodeMissingProvider,
	container.CodeAmbiguous:      ErrCodeAmbiguousProvider,
	container.CodeCycle:          ErrCodeCircularDependency,
	container.CodeShadowed:       ErrCodeShadowedProvider,
	container.CodeLifetime:       ErrCodeLifetimeViolation,
	container.CodeProviderFailed: ErrCodeProviderFailed,
	container.CodeFrozen:         ErrCodeFrozen,
}

// wrapInternal converts engine diagnostics into *Error values.
func wrapInternal(err error) error {
	if err == nil {
		return nil
	}

	var ve *container.VerificationError
	if errors.As(err, &ve) {
		problems := make([]*Error, len(ve.Problems))
		for i, p := range ve.Problems {
			problems[i] = fromProblem(p)
		}
		e := newError(
			ErrCodeVerificationFailed,
			fmt.Sprintf("scope verification found %d problem(s)", len(problems)),
			nil,
		)
		e.Scope = ve.Scope
		e.Problems = problems
		return e
	}

	var p *container.Problem
	if errors.As(err, &p) {
		return fromProblem(p)
	}

	return newError(ErrCodeUnknown, "internal error", err)
}

func fromProblem(p *container.Problem) *Error {
	code, ok := problemCodes[p.Code]
	if !ok {
		code = ErrCodeUnknown
	}

	e := newError(code, p.Message, p.Cause).WithChain(p.Chain)
	e.Scope = p.Scope
	if p.Type != nil {
		e.Service = p.TypeName()
	}
	return e
}

func errResolutionFailed(serviceType string, cause error) *Error {
	return newError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve %s", serviceType),
		cause,
	).WithService(serviceType)
}

func errInvalidConstructor(serviceType string, cause error) *Error {
	return newError(
		ErrCodeInvalidConstructor,
		fmt.Sprintf("invalid constructor for %s", serviceType),
		cause,
	).WithService(serviceType)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.hasCode(code)
}

func (e *Error) hasCode(code ErrorCode) bool {
	if e.Code == code {
		return true
	}
	for _, p := range e.Problems {
		if p.hasCode(code) {
			return true
		}
	}
	var inner *Error
	if e.Cause != nil && errors.As(e.Cause, &inner) {
		return inner.hasCode(code)
	}
	return false
}

// The Is* helpers look through resolution and verification wrappers, so
// IsMissingProvider reports true for a verification error that contains a
// missing provider.

func IsMissingProvider(err error) bool {
	return hasCode(err, ErrCodeMissingProvider)
}

func IsAmbiguousProvider(err error) bool {
	return hasCode(err, ErrCodeAmbiguousProvider)
}

func IsLifetimeViolation(err error) bool {
	return hasCode(err, ErrCodeLifetimeViolation)
}

func IsCircularDependency(err error) bool {
	return hasCode(err, ErrCodeCircularDependency)
}

func IsShadowedProvider(err error) bool {
	return hasCode(err, ErrCodeShadowedProvider)
}

func IsProviderFailed(err error) bool {
	return hasCode(err, ErrCodeProviderFailed)
}

func IsInvalidConstructor(err error) bool {
	return hasCode(err, ErrCodeInvalidConstructor)
}

func IsFrozen(err error) bool {
	return hasCode(err, ErrCodeFrozen)
}

func IsVerificationFailed(err error) bool {
	return hasCode(err, ErrCodeVerificationFailed)
}

func IsResolutionFailed(err error) bool {
	return hasCode(err, ErrCodeResolutionFailed)
}
