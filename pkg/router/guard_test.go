package router

import (
	"context"
	"errors"
	"testing"
)

func TestComposeGuardsEmpty(t *testing.T) {
	called := false
	err := ComposeGuards(context.Background(), nil, &Navigation{}, func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("ComposeGuards() error = %v", err)
	}
	if !called {
		t.Error("commit was not called")
	}
}

func TestComposeGuardsOrder(t *testing.T) {
	var order []int
	guard := func(i int) Guard {
		return GuardFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
			order = append(order, i)
			err := next()
			order = append(order, -i)
			return err
		})
	}

	err := ComposeGuards(context.Background(), []Guard{guard(1), Chain(guard(2), guard(3))}, &Navigation{}, func() error {
		order = append(order, 0)
		return nil
	})
	if err != nil {
		t.Fatalf("ComposeGuards() error = %v", err)
	}

	want := []int{1, 2, 3, 0, -3, -2, -1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestComposeGuardsStopsOnError(t *testing.T) {
	errStop := errors.New("stop")
	stop := GuardFunc(func(ctx context.Context, nav *Navigation, next func() error) error {
		return errStop
	})

	called := false
	err := ComposeGuards(context.Background(), []Guard{stop}, &Navigation{}, func() error {
		called = true
		return nil
	})
	if !errors.Is(err, errStop) {
		t.Errorf("error = %v, want %v", err, errStop)
	}
	if called {
		t.Error("commit should not run after a guard error")
	}
}

func TestRedirectError(t *testing.T) {
	err := Redirect("/stock/AAPL")
	var redirect *RedirectError
	if !errors.As(err, &redirect) || redirect.Path != "/stock/AAPL" {
		t.Fatalf("Redirect() = %v", err)
	}
	if err.Error() != "redirect to /stock/AAPL" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestGuardConditions(t *testing.T) {
	table := mustTestTable(t)
	found := &Navigation{To: &Resolution{Match: table.Match("/stock/AAPL/currentStock")}}
	missing := &Navigation{To: &Resolution{}}

	if !ForRoute("StockInfo")(found) || !ForRoute("CurrentStock")(found) {
		t.Error("ForRoute should match every route in the chain")
	}
	if ForRoute("SearchForm")(found) || ForRoute("StockInfo")(missing) {
		t.Error("ForRoute matched unexpectedly")
	}
	if NotFound(found) || !NotFound(missing) {
		t.Error("NotFound mismatch")
	}
}
