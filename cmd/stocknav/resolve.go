package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/stocknav/internal/errors"
	"github.com/vango-dev/stocknav/pkg/router"
	"github.com/vango-dev/stocknav/pkg/server"
)

func resolveCmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <location>...",
		Short: "Resolve browser locations against the route table",
		Long: `Resolve one or more browser locations and print the matched route chain.

Locations are what the browser shows: a full URL or an origin-relative
path, with the route in the fragment in hash mode.

The command fails when any location matches no route.

Examples:
  stocknav resolve '#/stock/AAPL/currentStock'
  stocknav resolve --history=path /stock/AAPL/historyStock
  stocknav resolve --json 'https://example.com/#/stock/MSFT'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g, nil, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runResolve(cmd.OutOrStdout(), a.resolver, args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print resolutions as JSON")

	return cmd
}

func runResolve(w io.Writer, resolver *router.Resolver, locations []string, asJSON bool) error {
	var views []*server.ResolutionView
	var unmatched []string

	for _, loc := range locations {
		res, err := resolver.Resolve(loc)
		if err != nil {
			return errors.FromRouteError(err, "E301").WithDetail("location " + loc)
		}
		if !res.Found() {
			unmatched = append(unmatched, loc)
		}
		if asJSON {
			views = append(views, server.NewResolutionView(res, resolver))
			continue
		}
		fmt.Fprintf(w, "%s → %s\n", loc, describe(res))
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(views); err != nil {
			return err
		}
	}

	if len(unmatched) > 0 {
		return errors.New("E302").WithDetail(strings.Join(unmatched, ", "))
	}
	return nil
}

// describe renders a resolution as "StockInfo(stockcode=AAPL) › CurrentStock".
func describe(res *router.Resolution) string {
	if !res.Found() {
		return "no match"
	}

	var parts []string
	for cur := res.Match; cur != nil; cur = cur.Child {
		part := cur.Name()
		if cur == res.Match && len(cur.Params) > 0 {
			var kv []string
			for _, name := range cur.Params.Names() {
				kv = append(kv, name+"="+cur.Params.Get(name))
			}
			part += "(" + strings.Join(kv, ", ") + ")"
		}
		parts = append(parts, part)
	}

	out := strings.Join(parts, " › ")
	if leaf := res.Match.Leaf(); leaf.Unmatched != "" {
		out += " [unmatched " + leaf.Unmatched + "]"
	}
	return out
}
