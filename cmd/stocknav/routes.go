package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/stocknav/pkg/router"
	"github.com/vango-dev/stocknav/pkg/server"
)

func routesCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List every route in declaration order with its full pattern.

Formats:
  table  aligned columns (default)
  json   the /_nav/routes response body
  yaml   a declaration file accepted by --routes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(g, nil, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runRoutes(cmd.OutOrStdout(), a.resolver, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")

	return cmd
}

func runRoutes(w io.Writer, resolver *router.Resolver, format string) error {
	switch format {
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPATTERN\tCOMPONENT\tHREF")
		for _, e := range resolver.Table().Routes() {
			fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\n",
				strings.Repeat("  ", e.Depth), e.Name, e.Pattern, e.Component,
				resolver.HrefForPath(e.Pattern))
		}
		return tw.Flush()

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(server.RoutesView{
			Mode:   resolver.Mode().String(),
			Base:   resolver.Base(),
			Routes: resolver.Table().Routes(),
		})

	case "yaml":
		data, err := router.Declare(resolver).Encode()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}
