package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/osu-autoref/internal/config"
	"github.com/mauv0809/osu-autoref/internal/osuapi"
	"github.com/mauv0809/osu-autoref/internal/pool"
	"github.com/spf13/cobra"
)

var (
	poolFile string
	offline  bool
	inputs   []string
)

var rootCmd = &cobra.Command{
	Use:   "poolcheck",
	Short: "Load a map pool and show how the referee will see it",
	Long: `poolcheck loads pool.json, looks up every beatmap on the osu! API and
prints the pool with the mods each map will be played with. Use --resolve to
check how chat input would be matched against the pool.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		p, err := loadPool(ctx)
		if err != nil {
			return err
		}
		printPool(cmd.OutOrStdout(), p)
		for _, in := range inputs {
			printResolve(cmd.OutOrStdout(), p, in)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&poolFile, "pool", "pool.json", "Path to the pool file")
	rootCmd.Flags().BoolVar(&offline, "offline", false, "Skip beatmap metadata lookups")
	rootCmd.Flags().StringArrayVar(&inputs, "resolve", nil, "Chat input to resolve against the pool (repeatable)")
}

func loadPool(ctx context.Context) (*pool.Pool, error) {
	entries, err := config.LoadPool(poolFile)
	if err != nil {
		return nil, err
	}
	if !offline {
		apiKey, ok := os.LookupEnv("OSU_API_KEY")
		if !ok {
			return nil, fmt.Errorf("OSU_API_KEY is not set, use --offline to skip metadata")
		}
		entries = pool.Describe(ctx, entries, osuapi.NewClient(apiKey))
	} else {
		for i := range entries {
			entries[i].DisplayName = entries[i].Code
		}
	}
	return pool.New(entries)
}

func printPool(w io.Writer, p *pool.Pool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tBEATMAP\tMODS\tNAME")
	for _, e := range p.Entries() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Code, e.BeatmapID, e.Selection(), e.DisplayName)
	}
	tw.Flush()
}

func printResolve(w io.Writer, p *pool.Pool, input string) {
	entry, err := p.Resolve(input, false, nil)
	if err != nil {
		fmt.Fprintf(w, "%q -> no selection (%v)\n", input, err)
		return
	}
	fmt.Fprintf(w, "%q -> %s\n", input, entry.Code)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading from environment variables")
	}
	if err := rootCmd.Execute(); err != nil {
		log.Fatal("poolcheck failed", "error", err)
	}
}
