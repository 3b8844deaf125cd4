package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/vodfall/internal/plugins"
	"github.com/pders01/vodfall/internal/storage"
	"github.com/pders01/vodfall/internal/validation"
)

const (
	maxSuggestions = 3
	probeTimeout   = 10 * time.Second
)

var errUnknownSource = errors.New("unknown source")

func newSourcesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List, select and add search sources",
	}
	cmd.AddCommand(
		newSourcesListCmd(opts),
		newSourcesCatalogCmd(opts),
		newSourcesSelectCmd(opts),
		newSourcesAddCmd(opts),
	)
	return cmd
}

func newSourcesListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the selected sources in search order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			sources := e.registry.Resolve()
			if len(sources) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sources selected")
				return nil
			}

			rows := make([][]string, 0, len(sources))
			for _, src := range sources {
				kind := "catalog"
				if src.IsCustom {
					kind = "custom"
				}
				rows = append(rows, []string{src.Code, src.Name, kind, src.API})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "KIND", "API"}, rows)
			return nil
		},
	}
}

func newSourcesCatalogCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show every source that can be selected",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			selected := e.store.SelectedAPIs()
			var rows [][]string
			for _, id := range e.catalog.IDs() {
				entry, _ := e.catalog.Lookup(id)
				rows = append(rows, []string{mark(selected, id), id, entry.Name, entry.API})
			}
			for i, api := range e.store.CustomAPIs() {
				id := storage.CustomPrefix + strconv.Itoa(i)
				rows = append(rows, []string{mark(selected, id), id, api.Name, api.URL})
			}
			printTable(cmd.OutOrStdout(), []string{"", "ID", "NAME", "API"}, rows)
			return nil
		},
	}
}

func newSourcesSelectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>...",
		Short: "Replace the selection; ids are searched in the given order",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, ids []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			customs := len(e.store.CustomAPIs())
			for _, id := range ids {
				if err := e.checkID(id, customs); err != nil {
					return err
				}
			}
			if err := e.store.SetSelectedAPIs(ids); err != nil {
				return fmt.Errorf("saving selection: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected %d sources\n", len(ids))
			return nil
		},
	}
}

func newSourcesAddCmd(opts *options) *cobra.Command {
	var (
		detail  string
		sel     bool
		noProbe bool
	)
	cmd := &cobra.Command{
		Use:   "add <name> <api-url>",
		Short: "Add a custom source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("source name cannot be empty")
			}

			validator := validation.NewSourceURLValidator()
			api, err := validator.ValidateAndNormalize(args[1])
			if err != nil {
				return fmt.Errorf("invalid API URL: %w", err)
			}
			if detail != "" {
				if detail, err = validator.ValidateAndNormalize(detail); err != nil {
					return fmt.Errorf("invalid detail URL: %w", err)
				}
			}
			if !noProbe {
				api, detail = resolveSite(cmd, api, detail)
			}

			e, err := setup(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := e.store.AddCustomAPI(storage.CustomAPI{Name: name, URL: api, Detail: detail})
			if err != nil {
				return fmt.Errorf("saving custom source: %w", err)
			}
			if sel {
				ids := append(e.store.SelectedAPIs(), id)
				if err := e.store.SetSelectedAPIs(ids); err != nil {
					return fmt.Errorf("saving selection: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s as %s\n", name, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&detail, "detail", "", "Detail site of the source")
	cmd.Flags().BoolVar(&sel, "select", false, "Append the new source to the selection")
	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "Store the URL as given without looking for an API below it")
	return cmd
}

// resolveSite lets the plugins turn a site URL into its API base. The URL
// is kept as given when no plugin recognises it.
func resolveSite(cmd *cobra.Command, api, detail string) (string, string) {
	registry := plugins.NewDefaultRegistry(probeTimeout)
	info, err := registry.Resolve(cmd.Context(), api)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Using %s as given: %v\n", api, err)
		return api, detail
	}
	if info.APIURL != api {
		fmt.Fprintf(cmd.OutOrStdout(), "Found API at %s\n", info.APIURL)
	}
	if detail == "" {
		detail = info.DetailURL
	}
	return info.APIURL, detail
}

// checkID rejects ids the registry would silently drop, suggesting close
// catalog ids for typos.
func (e *env) checkID(id string, customs int) error {
	if strings.HasPrefix(id, storage.CustomPrefix) {
		suffix := strings.TrimPrefix(id, storage.CustomPrefix)
		n, err := strconv.Atoi(suffix)
		if err != nil || strconv.Itoa(n) != suffix || n < 0 || n >= customs {
			return fmt.Errorf("%w %q: no such custom source", errUnknownSource, id)
		}
		return nil
	}
	if _, ok := e.catalog.Lookup(id); ok {
		return nil
	}
	if hints := e.catalog.Suggest(id, maxSuggestions); len(hints) > 0 {
		return fmt.Errorf("%w %q (did you mean %s?)", errUnknownSource, id, strings.Join(hints, ", "))
	}
	return fmt.Errorf("%w %q", errUnknownSource, id)
}

func mark(selected []string, id string) string {
	if slices.Contains(selected, id) {
		return "*"
	}
	return ""
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}
