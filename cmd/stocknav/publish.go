package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/stocknav/internal/config"
	"github.com/vango-dev/stocknav/pkg/manifest"
)

func publishCmd(g *globalFlags) *cobra.Command {
	var (
		bucket   string
		key      string
		endpoint string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the route manifest to S3",
		Long: `Build the route manifest and upload it to S3 as JSON.

The manifest lists every route with its pattern and, in path history mode,
the rewrite globs a static host must answer with the app shell. Routes
with children also get a subtree glob ("/stock/*/**").

Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN.

Examples:
  stocknav publish --bucket=my-site
  stocknav publish --bucket=my-site --key=app/routes.json --history=path
  stocknav publish --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := &config.Config{
				Publish: config.PublishConfig{Bucket: bucket, Key: key, Endpoint: endpoint},
			}
			a, err := loadApp(g, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			m := manifest.Build(a.resolver)
			w := cmd.OutOrStdout()
			if dryRun {
				data, err := m.Encode()
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			}

			p, err := manifest.NewPublisher(
				manifest.NewS3Client(a.cfg.Publish),
				a.cfg.Publish.Bucket,
				a.cfg.Publish.Key,
				manifest.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			res, err := p.Publish(cmd.Context(), m)
			if err != nil {
				return err
			}

			success(w, "Published s3://%s/%s", res.Bucket, res.Key)
			info(w, "%d routes, %d bytes, etag %s", len(m.Routes), res.Size, res.ETag)
			if rewrites := m.Rewrites(); len(rewrites) > 0 {
				info(w, "Map these paths to %s on your host:", m.Shell)
				for _, r := range rewrites {
					info(w, "  %s", r)
				}
			} else {
				warn(w, "Hash mode: only %s needs to serve the shell", m.Shell)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket (default from stocknav.toml or STOCKNAV_S3_BUCKET)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Object key (default stocknav/routes.json)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the manifest instead of uploading it")

	return cmd
}
