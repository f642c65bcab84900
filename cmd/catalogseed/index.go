package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var indexRecreate bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Create the album, song and artist name indexes",
	Long: `Create one full-text index per catalog collection over $.name.
Existing indexes are kept unless --recreate is given; documents are never
touched.

Examples:
  catalogseed index
  catalogseed index --recreate`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRecreate, "recreate", false, "drop and recreate existing indexes")
}

func runIndex(cmd *cobra.Command, _ []string) error {
	env, err := openSeedEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	statuses, err := env.indexer.EnsureIndexes(cmd.Context(), indexRecreate)
	for _, st := range statuses {
		env.logger.Info("Index "+string(st.State),
			zap.String("kind", string(st.Kind)),
			zap.String("index", st.Name),
		)
	}
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
