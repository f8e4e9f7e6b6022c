package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	"github.com/vango-dev/stocknav/pkg/routepath"
)

// DefaultMaxRedirects bounds guard redirects within one navigation.
const DefaultMaxRedirects = 10

// Navigation errors.
var (
	ErrNoHistory        = errors.New("no history entry in that direction")
	ErrTooManyRedirects = errors.New("too many guard redirects")
)

// NavigationKind says how a navigation moves through history.
type NavigationKind string

const (
	NavigatePush    NavigationKind = "push"
	NavigateReplace NavigationKind = "replace"
	NavigateBack    NavigationKind = "back"
	NavigateForward NavigationKind = "forward"
)

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Query holds query parameters merged into the target's query string.
	// They apply to the requested target, not to guard redirects.
	Query map[string]any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithQuery adds query parameters to the navigation target. A key already
// present in the target's query string is overwritten.
func WithQuery(query map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.Query = query
	}
}

// Navigation describes one navigation as seen by guards and callers.
type Navigation struct {
	// ID uniquely identifies this navigation.
	ID uuid.UUID

	// Kind is how the navigation moves through history.
	Kind NavigationKind

	// From is the resolution being left (nil on the first navigation).
	From *Resolution

	// To is the resolution being entered.
	To *Resolution

	// Options are the options the navigation was requested with.
	Options NavigateOptions

	// Redirects lists guard redirect targets followed, in order.
	Redirects []string
}

// URL returns the in-app path of the target with its query string.
func (n *Navigation) URL() string {
	if n.To.Query == "" {
		return n.To.Path
	}
	return n.To.Path + "?" + n.To.Query
}

// mergeQuery sets every key of extra on the raw query string. Keys are
// encoded in sorted order.
func mergeQuery(raw string, extra map[string]any) (string, error) {
	q, err := url.ParseQuery(raw)
	if err != nil {
		return "", err
	}
	for k, v := range extra {
		q.Set(k, fmt.Sprint(v))
	}
	return q.Encode(), nil
}

// Navigator keeps the history stack of one navigation session. Events are
// processed one at a time to completion; a Navigator is not safe for
// concurrent use. The route table it reads is shared and immutable.
type Navigator struct {
	resolver     *Resolver
	guards       []Guard
	entries      []*Resolution
	index        int
	maxRedirects int
	logger       *slog.Logger
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithGuards appends guards run before each navigation is committed.
func WithGuards(guards ...Guard) NavigatorOption {
	return func(n *Navigator) {
		n.guards = append(n.guards, guards...)
	}
}

// WithMaxRedirects overrides DefaultMaxRedirects.
func WithMaxRedirects(max int) NavigatorOption {
	return func(n *Navigator) {
		n.maxRedirects = max
	}
}

// WithNavigatorLogger sets the logger (default slog.Default()).
func WithNavigatorLogger(logger *slog.Logger) NavigatorOption {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// NewNavigator creates a navigator with an empty history.
func NewNavigator(resolver *Resolver, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		resolver:     resolver,
		index:        -1,
		maxRedirects: DefaultMaxRedirects,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Current returns the resolution at the current history position, or nil
// before the first navigation.
func (n *Navigator) Current() *Resolution {
	if n.index < 0 {
		return nil
	}
	return n.entries[n.index]
}

// Len returns the number of history entries.
func (n *Navigator) Len() int { return len(n.entries) }

// Index returns the current history position (-1 when empty).
func (n *Navigator) Index() int { return n.index }

// CanGoBack reports whether Back would succeed.
func (n *Navigator) CanGoBack() bool { return n.index > 0 }

// CanGoForward reports whether Forward would succeed.
func (n *Navigator) CanGoForward() bool { return n.index >= 0 && n.index < len(n.entries)-1 }

// Navigate navigates to an in-app path. Unknown paths are committed like
// any other; the returned navigation's To.Found() reports the outcome.
func (n *Navigator) Navigate(ctx context.Context, path string, opts ...NavigateOption) (*Navigation, error) {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	kind := NavigatePush
	if options.Replace && n.index >= 0 {
		kind = NavigateReplace
	}

	nav := &Navigation{
		ID:      uuid.New(),
		Kind:    kind,
		From:    n.Current(),
		Options: options,
	}
	return n.run(ctx, nav, path)
}

// NavigateTo navigates to a named route, the programmatic equivalent of
// following a link.
func (n *Navigator) NavigateTo(ctx context.Context, name string, params Params, opts ...NavigateOption) (*Navigation, error) {
	path, err := n.resolver.Table().PathFor(name, params)
	if err != nil {
		return nil, err
	}
	return n.Navigate(ctx, path, opts...)
}

// Back moves one entry back in history.
func (n *Navigator) Back(ctx context.Context) (*Navigation, error) {
	if !n.CanGoBack() {
		return nil, ErrNoHistory
	}
	return n.traverse(ctx, NavigateBack, n.index-1)
}

// Forward moves one entry forward in history.
func (n *Navigator) Forward(ctx context.Context) (*Navigation, error) {
	if !n.CanGoForward() {
		return nil, ErrNoHistory
	}
	return n.traverse(ctx, NavigateForward, n.index+1)
}

// traverse moves the history index to target once the guards allow it. A
// guard redirect turns the traversal into a push of the redirect target.
func (n *Navigator) traverse(ctx context.Context, kind NavigationKind, target int) (*Navigation, error) {
	nav := &Navigation{
		ID:   uuid.New(),
		Kind: kind,
		From: n.Current(),
		To:   n.entries[target],
	}

	committed := false
	err := ComposeGuards(ctx, n.guards, nav, func() error {
		committed = true
		return nil
	})

	var redirect *RedirectError
	if errors.As(err, &redirect) {
		nav.Kind = NavigatePush
		nav.Redirects = append(nav.Redirects, redirect.Path)
		return n.run(ctx, nav, redirect.Path)
	}
	if err != nil {
		return nil, n.guardFailure(nav, err)
	}
	if !committed {
		return nil, n.guardFailure(nav, ErrNavigationCancelled)
	}

	n.index = target
	n.logNavigation(nav)
	return nav, nil
}

// run resolves path, runs the guards and commits. History changes only
// after the whole guard chain has returned nil. Guard redirects restart
// resolution with the new target, keeping the navigation's kind.
func (n *Navigator) run(ctx context.Context, nav *Navigation, path string) (*Navigation, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target, err := routepath.ValidateNavPath(path)
		if err != nil {
			return nil, fmt.Errorf("navigate to %q: %w", path, err)
		}
		to, err := n.resolver.ResolvePath(target)
		if err != nil {
			return nil, fmt.Errorf("navigate to %q: %w", path, err)
		}
		if len(nav.Options.Query) > 0 && len(nav.Redirects) == 0 {
			if to.Query, err = mergeQuery(to.Query, nav.Options.Query); err != nil {
				return nil, fmt.Errorf("navigate to %q: %w", path, err)
			}
		}
		nav.To = to

		committed := false
		err = ComposeGuards(ctx, n.guards, nav, func() error {
			committed = true
			return nil
		})

		var redirect *RedirectError
		if errors.As(err, &redirect) {
			if len(nav.Redirects) >= n.maxRedirects {
				return nil, fmt.Errorf("%w: %d", ErrTooManyRedirects, len(nav.Redirects))
			}
			nav.Redirects = append(nav.Redirects, redirect.Path)
			path = redirect.Path
			continue
		}
		if err != nil {
			return nil, n.guardFailure(nav, err)
		}
		if !committed {
			return nil, n.guardFailure(nav, ErrNavigationCancelled)
		}

		n.commit(nav)
		n.logNavigation(nav)
		return nav, nil
	}
}

func (n *Navigator) commit(nav *Navigation) {
	switch nav.Kind {
	case NavigateReplace:
		if n.index < 0 {
			n.entries = append(n.entries, nav.To)
			n.index = 0
			return
		}
		n.entries[n.index] = nav.To
	default:
		n.entries = append(n.entries[:n.index+1], nav.To)
		n.index++
	}
}

func (n *Navigator) guardFailure(nav *Navigation, err error) error {
	n.logger.Debug("navigation aborted",
		"id", nav.ID.String(),
		"kind", string(nav.Kind),
		"to", nav.To.Location,
		"error", err,
	)
	return err
}

func (n *Navigator) logNavigation(nav *Navigation) {
	n.logger.Debug("navigation committed",
		"id", nav.ID.String(),
		"kind", string(nav.Kind),
		"to", nav.URL(),
		"route", nav.To.Match.Leaf().Name(),
		"found", nav.To.Found(),
	)
}
