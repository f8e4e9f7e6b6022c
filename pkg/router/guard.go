package router

import (
	"context"
	"errors"
	"fmt"
)

// Guard inspects a navigation before it is committed.
type Guard interface {
	// Check inspects nav and optionally calls next.
	// Return an error to abort the navigation with that error.
	// Return Redirect(path) to send the navigation elsewhere.
	// Return nil without calling next to cancel the navigation quietly.
	Check(ctx context.Context, nav *Navigation, next func() error) error
}

// GuardFunc is a function adapter for Guard.
type GuardFunc func(ctx context.Context, nav *Navigation, next func() error) error

// Check implements Guard.
func (f GuardFunc) Check(ctx context.Context, nav *Navigation, next func() error) error {
	return f(ctx, nav, next)
}

// ErrNavigationCancelled is returned when a guard stops the chain without
// calling next and without an error.
var ErrNavigationCancelled = errors.New("navigation cancelled by guard")

// RedirectError asks the navigator to navigate to Path instead.
type RedirectError struct {
	Path string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s", e.Path)
}

// Redirect returns an error that makes the navigator reroute to path.
func Redirect(path string) error {
	return &RedirectError{Path: path}
}

// ComposeGuards runs guards in order (first to last) with commit at the end.
func ComposeGuards(ctx context.Context, guards []Guard, nav *Navigation, commit func() error) error {
	if len(guards) == 0 {
		return commit()
	}

	// Build chain from end to start
	chain := commit
	for i := len(guards) - 1; i >= 0; i-- {
		g := guards[i]
		next := chain
		chain = func() error {
			return g.Check(ctx, nav, next)
		}
	}

	return chain()
}

// Chain creates a guard that runs several guards in order.
func Chain(guards ...Guard) Guard {
	return GuardFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
		return ComposeGuards(ctx, guards, nav, next)
	})
}

// Skip bypasses g when condition holds.
func Skip(condition func(nav *Navigation) bool, g Guard) Guard {
	return GuardFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
		if condition(nav) {
			return next()
		}
		return g.Check(ctx, nav, next)
	})
}

// Only runs g only when condition holds.
func Only(condition func(nav *Navigation) bool, g Guard) Guard {
	return GuardFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
		if !condition(nav) {
			return next()
		}
		return g.Check(ctx, nav, next)
	})
}

// ForRoute is a condition matching navigations whose target chain contains
// the named route.
func ForRoute(name string) func(nav *Navigation) bool {
	return func(nav *Navigation) bool {
		if !nav.To.Found() {
			return false
		}
		for _, r := range nav.To.Match.Chain() {
			if r.Name == name {
				return true
			}
		}
		return false
	}
}

// NotFound is a condition matching navigations to undeclared paths.
func NotFound(nav *Navigation) bool {
	return !nav.To.Found()
}
