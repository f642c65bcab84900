package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

const defaultBatchSize = 500

var loadFlags struct {
	albums    string
	songs     string
	artists   string
	batchSize int
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Upsert catalog documents from parquet files",
	Long: `Read albums, songs and artists from parquet files and upsert them as
JSON documents. Documents are keyed by id, so loading the same file twice
leaves the catalog unchanged.

Examples:
  catalogseed load --albums data/albums.parquet
  catalogseed load --albums a.parquet --songs s.parquet --artists ar.parquet --batch-size 1000`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFlags.albums, "albums", "", "albums parquet file")
	loadCmd.Flags().StringVar(&loadFlags.songs, "songs", "", "songs parquet file")
	loadCmd.Flags().StringVar(&loadFlags.artists, "artists", "", "artists parquet file")
	loadCmd.Flags().IntVar(&loadFlags.batchSize, "batch-size", defaultBatchSize, "documents per pipelined write")
}

// catalogWriter is the consumer interface for loading (ISP).
type catalogWriter interface {
	PutAlbums(ctx context.Context, albums []catalog.Album) error
	PutSongs(ctx context.Context, songs []catalog.Song) error
	PutArtists(ctx context.Context, artists []catalog.Artist) error
}

// loadSources names the parquet file of each collection; empty paths are skipped.
type loadSources struct {
	Albums  string
	Songs   string
	Artists string
}

func runLoad(cmd *cobra.Command, _ []string) error {
	src := loadSources{Albums: loadFlags.albums, Songs: loadFlags.songs, Artists: loadFlags.artists}
	if src == (loadSources{}) {
		return errors.New("at least one of --albums, --songs or --artists is required")
	}
	if loadFlags.batchSize <= 0 {
		return fmt.Errorf("--batch-size must be positive, got %d", loadFlags.batchSize)
	}

	env, err := openSeedEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	return loadCatalog(cmd.Context(), env.indexer, src, loadFlags.batchSize, env.logger)
}

func loadCatalog(ctx context.Context, w catalogWriter, src loadSources, batchSize int, logger *zap.Logger) error {
	if src.Albums != "" {
		if err := loadFile(ctx, catalog.KindAlbum, src.Albums, batchSize, albumRow.toDomain, w.PutAlbums, logger); err != nil {
			return err
		}
	}
	if src.Songs != "" {
		if err := loadFile(ctx, catalog.KindSong, src.Songs, batchSize, songRow.toDomain, w.PutSongs, logger); err != nil {
			return err
		}
	}
	if src.Artists != "" {
		if err := loadFile(ctx, catalog.KindArtist, src.Artists, batchSize, artistRow.toDomain, w.PutArtists, logger); err != nil {
			return err
		}
	}
	return nil
}

func loadFile[R, T any](
	ctx context.Context, kind catalog.Kind, path string, batchSize int,
	convert func(R) (T, error), put func(context.Context, []T) error, logger *zap.Logger,
) error {
	start := time.Now()
	docs := make([]T, 0, batchSize)

	n, err := readBatches(path, batchSize, func(rows []R) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		docs = docs[:0]
		for _, row := range rows {
			doc, err := convert(row)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		if err := put(ctx, docs); err != nil {
			return fmt.Errorf("put %s batch: %w", kind, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("load %s from %s: %w", kind, path, err)
	}

	logger.Info("Loaded collection",
		zap.String("kind", string(kind)),
		zap.String("file", path),
		zap.Int("documents", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
