package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"onsdagar/internal/config"
	"onsdagar/internal/objstore"
	"onsdagar/internal/syncer"
)

type storeFactory func(ctx context.Context, cfg config.StorageConfig) (objstore.Store, error)

func newS3Store(ctx context.Context, cfg config.StorageConfig) (objstore.Store, error) {
	return objstore.NewS3Store(ctx, objstore.S3Config{
		Bucket:          cfg.Bucket,
		Endpoint:        cfg.Endpoint,
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	})
}

func (a *app) newSyncer(ctx context.Context, dryRun bool) (*syncer.Syncer, error) {
	store, err := a.newStore(ctx, a.cfg.Storage)
	if err != nil {
		return nil, err
	}
	return &syncer.Syncer{
		Store:        store,
		Root:         a.cfg.InputDir,
		Prefix:       a.cfg.Storage.Prefix,
		ManifestPath: a.cfg.ManifestPath,
		DryRun:       dryRun,
		Logger:       a.logger,
	}, nil
}

func (a *app) uploadCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload changed input files to the object store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
			defer cancel()

			s, err := a.newSyncer(ctx, dryRun)
			if err != nil {
				return err
			}
			rep, err := s.Upload(ctx)
			if err != nil {
				var batch *syncer.BatchError
				if errors.As(err, &batch) {
					if batch.AccessDenied() {
						return fmt.Errorf("access denied uploading %s, check the storage credentials (%d of %d files uploaded)",
							batch.Path, batch.Completed, batch.Planned)
					}
					return fmt.Errorf("upload of %s failed (%d of %d files uploaded): %w",
						batch.Path, batch.Completed, batch.Planned, batch.Err)
				}
				return err
			}
			a.report(cmd, "upload", rep, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be uploaded")
	return cmd
}

func (a *app) downloadCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download changed remote files into the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
			defer cancel()

			s, err := a.newSyncer(ctx, dryRun)
			if err != nil {
				return err
			}
			rep, err := s.Download(ctx)
			if err != nil {
				var batch *syncer.BatchError
				if errors.As(err, &batch) && batch.AccessDenied() {
					return fmt.Errorf("access denied downloading %s, check the storage credentials", batch.Path)
				}
				if errors.Is(err, objstore.ErrAccessDenied) {
					return fmt.Errorf("access denied listing the bucket, check the storage credentials: %w", err)
				}
				return err
			}
			a.report(cmd, "download", rep, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be downloaded")
	return cmd
}

func (a *app) report(cmd *cobra.Command, direction string, rep syncer.Report, dryRun bool) {
	for _, key := range rep.Skipped {
		a.printf(cmd, "skipped %s (does not map to a file in %s)", key, a.cfg.InputDir)
	}
	if len(rep.Planned) == 0 {
		a.printf(cmd, "Nothing to %s, everything is up to date", direction)
		return
	}
	if dryRun {
		var total int64
		for _, p := range rep.Planned {
			a.printf(cmd, "would %s %s", direction, p.Path)
			total += p.Size
		}
		a.printf(cmd, "%d files (%s)", len(rep.Planned), humanize.Bytes(uint64(total)))
		return
	}
	a.printf(cmd, "%s: %d of %d files (%s)", direction, rep.Completed, len(rep.Planned), humanize.Bytes(uint64(rep.Bytes)))
}
