package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sukryu/labsite/internal/seed"
)

var (
	seedFile  string
	seedForce bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load initial site content",
	Long: `Creates the items of a seed file in their collections. Without --file the
built-in sample content is used. Collections that already have items are
skipped unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadSeed(seedFile)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := seed.Apply(cmd.Context(), a.collections, f, seedForce, logger)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(res.Created))
		for name := range res.Created {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d created\n", name, res.Created[name])
		}
		for _, name := range res.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: skipped, not empty\n", name)
		}
		return nil
	},
}

func loadSeed(path string) (*seed.File, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.LoadFile(path)
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed YAML file (default: built-in sample content)")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "seed collections that already have items")
}
