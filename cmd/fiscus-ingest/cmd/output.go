package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apiclient "github.com/donaldgifford/fiscus-ingest/internal/api/client"
	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printTaskTable(w io.Writer, tasks []domain.TaskLog) error {
	tw := newTabWriter(w)
	tw.writef("TASK\tKIND\tSTATUS\tPROGRESS\tCREATED\tNAME\n")
	for i := range tasks {
		t := &tasks[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			t.TaskID,
			t.Kind,
			t.Status,
			progress(t),
			t.CreatedAt.Format(timeLayout),
			truncate(t.Name, 40),
		)
	}
	return tw.finish()
}

func printTaskDetail(w io.Writer, t *domain.TaskLog) error {
	tw := newTabWriter(w)
	tw.writef("Task:\t%s\n", t.TaskID)
	tw.writef("Name:\t%s\n", t.Name)
	tw.writef("Kind:\t%s\n", t.Kind)
	if t.StoreID != nil {
		tw.writef("Store:\t%d\n", *t.StoreID)
	}
	tw.writef("Status:\t%s\n", t.Status)
	tw.writef("Progress:\t%s\n", progress(t))
	tw.writef("Created:\t%s\n", t.CreatedAt.Format(timeLayout))
	if t.StartedAt != nil {
		tw.writef("Started:\t%s\n", t.StartedAt.Format(timeLayout))
	}
	if t.CompletedAt != nil {
		tw.writef("Completed:\t%s\n", t.CompletedAt.Format(timeLayout))
	}
	if t.Message != "" {
		tw.writef("Message:\t%s\n", t.Message)
	}
	if t.ErrorMessage != "" {
		tw.writef("Error:\t%s\n", t.ErrorMessage)
	}
	return tw.finish()
}

// progress renders processed/total with the failure count when non-zero.
func progress(t *domain.TaskLog) string {
	s := fmt.Sprintf("%d/%d", t.ItemsProcessed, t.ItemsTotal)
	if t.ItemsFailed > 0 {
		s += fmt.Sprintf(" (%d failed)", t.ItemsFailed)
	}
	return s
}

func printStoresTable(w io.Writer, stores []scraper.StoreInfo) error {
	tw := newTabWriter(w)
	tw.writef("CHAIN\tBASE URL\tDOMAINS\n")
	for i := range stores {
		tw.writef("%s\t%s\t%s\n",
			stores[i].Chain,
			stores[i].BaseURL,
			strings.Join(stores[i].Domains, ", "),
		)
	}
	return tw.finish()
}

func printComparison(w io.Writer, cmp *apiclient.Comparison) error {
	tw := newTabWriter(w)
	tw.writef("PRODUCT\tCHAIN\tSTORE\tPRICE\tPER 100G\tIN STOCK\n")
	for i := range cmp.Rows {
		r := &cmp.Rows[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%v\n",
			truncate(r.ProductName, 40),
			r.Chain,
			r.StoreName,
			money(r.Price),
			optionalMoney(r.PricePer100g),
			r.InStock,
		)
	}
	if err := tw.finish(); err != nil {
		return err
	}
	if cmp.Best != nil {
		_, err := fmt.Fprintf(w, "\nCheapest: %s at %s for %s\n",
			cmp.Best.ProductName, cmp.Best.StoreName, money(cmp.Best.Price))
		return err
	}
	return nil
}

func printPromotions(w io.Writer, promos []domain.Promotion) error {
	tw := newTabWriter(w)
	tw.writef("PRODUCT\tPRICE\tWAS\tDROP\tSEEN\n")
	for i := range promos {
		p := &promos[i]
		tw.writef("%s\t%s\t%s\t%s%%\t%s\n",
			truncate(p.ProductName, 40),
			money(p.Price),
			money(p.OldPrice),
			p.DropPercent.StringFixed(1),
			p.ObservedAt.Format(timeLayout),
		)
	}
	return tw.finish()
}

// printScrapedItems lists the items a dry run ingested, joined with their
// products.
func printScrapedItems(w io.Writer, products []domain.Product, items []domain.StoreItem) error {
	names := make(map[int64]string, len(products))
	for i := range products {
		names[products[i].ID] = products[i].Name
	}

	tw := newTabWriter(w)
	tw.writef("PRODUCT\tPRICE\tPER 100G\tIN STOCK\tURL\n")
	for i := range items {
		it := &items[i]
		tw.writef("%s\t%s\t%s\t%v\t%s\n",
			truncate(names[it.ProductID], 40),
			money(it.Price),
			optionalMoney(it.PricePer100g),
			it.InStock,
			it.URL,
		)
	}
	return tw.finish()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2) + " грн"
}

func optionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return money(*d)
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to maxLen runes. Product names are Cyrillic, so
// byte slicing would split characters.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}
