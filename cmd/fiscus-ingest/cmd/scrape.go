package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/fiscus-ingest/internal/store"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

func scrapeCmd() *cobra.Command {
	scrapeRoot := &cobra.Command{
		Use:   "scrape",
		Short: "Run a scrape in this process",
		Long: "Drives the browser from this process and waits for the result, bypassing\n" +
			"the job queue. Useful for checking selectors against a live retailer page.",
	}

	scrapeRoot.AddCommand(
		scrapeCategoryCmd(),
		scrapeItemCmd(),
	)

	return scrapeRoot
}

type categoryOptions struct {
	storeName  string
	externalID string
	dryRun     bool
}

func scrapeCategoryCmd() *cobra.Command {
	var opts categoryOptions

	cmd := &cobra.Command{
		Use:   "category <url>",
		Short: "Scrape one category page and ingest it for a store",
		Long: "Scrapes the listing page at <url> pinned to the named store and ingests\n" +
			"every product card. With --dry-run nothing touches the database: the store\n" +
			"is created in memory and the ingested items are printed instead.",
		Args: cobra.ExactArgs(1),
		Example: `  fiscus-ingest scrape category https://www.atbmarket.com/catalog/287-bakaliia --store ATB-Kyiv-1
  fiscus-ingest scrape category https://silpo.ua/category/krupy-5 --store Silpo-Test --dry-run --external-store-id 2043`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrapeCategory(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.storeName, "store", "", "name of the store to ingest into (required)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "ingest into memory and print the result")
	cmd.Flags().StringVar(&opts.externalID, "external-store-id", "",
		"retailer's id of the physical store, used with --dry-run")
	cobra.CheckErr(cmd.MarkFlagRequired("store"))

	return cmd
}

func runScrapeCategory(cmd *cobra.Command, pageURL string, opts *categoryOptions) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st  store.Store
		mem *store.MemoryStore
	)
	if opts.dryRun {
		mem = store.NewMemoryStore()
		st = mem
	} else {
		pg, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pg.Close()
		st = pg
	}

	a, err := newApp(ctx, cfg, log, st, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.dryRun {
		if err := seedDryRunStore(ctx, a, mem, pageURL, opts); err != nil {
			return err
		}
	}

	res := a.engine.ScrapeCategory(ctx, "", pageURL, opts.storeName)
	if !res.OK() {
		return fmt.Errorf("scraping %s: %s", pageURL, res.Error())
	}

	out := cmd.OutOrStdout()
	if !opts.dryRun {
		_, err := fmt.Fprintln(out, res.Message)
		return err
	}
	if jsonOutput() {
		return outputJSON(out, mem.StoreItems())
	}
	if err := printScrapedItems(out, mem.Products(), mem.StoreItems()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\n%s\n", res.Message)
	return err
}

// seedDryRunStore creates the named store in mem for the chain that owns
// pageURL.
func seedDryRunStore(ctx context.Context, a *app, mem *store.MemoryStore, pageURL string, opts *categoryOptions) error {
	s, err := a.registry.Resolve(pageURL)
	if err != nil {
		return err
	}
	return mem.UpsertStore(ctx, &domain.Store{
		Name:            opts.storeName,
		Chain:           s.Chain(),
		ExternalStoreID: opts.externalID,
		URLBase:         s.BaseURL(),
		Active:          true,
	})
}

func scrapeItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "item <item_id>",
		Short: "Re-scrape one store item and update its price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pg, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer pg.Close()

			a, err := newApp(ctx, cfg, log, pg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.engine.ScrapeStoreItem(ctx, id)
			if !res.OK() {
				return fmt.Errorf("scraping item %d: %s", id, res.Error())
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return err
		},
	}
}
