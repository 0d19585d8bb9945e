package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/pkg/input"
)

func newCatalogCmd(a *app) *cobra.Command {
	var openapiPath, schema string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the input catalog used to validate forms",
		RunE: func(cmd *cobra.Command, args []string) error {
			if openapiPath != "" {
				a.cfg.Catalog.OpenAPI = openapiPath
			}
			if schema != "" {
				a.cfg.Catalog.Schema = schema
			}
			catalog, err := a.catalog(cmd)
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), catalog)
		},
	}

	cmd.Flags().StringVar(&openapiPath, "openapi", "", "OpenAPI document to build the catalog from")
	cmd.Flags().StringVar(&schema, "schema", "", "Component schema name inside the OpenAPI document")
	return cmd
}

// catalog returns the configured catalog, falling back to the built-in one.
func (a *app) catalog(cmd *cobra.Command) (*input.Catalog, error) {
	path, schema := a.cfg.Catalog.OpenAPI, a.cfg.Catalog.Schema
	if path == "" && schema == "" {
		return input.DefaultCatalog(), nil
	}
	if path == "" || schema == "" {
		return nil, fmt.Errorf("catalog: --openapi and --schema must be set together")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	catalog, err := input.CatalogFromOpenAPI(cmd.Context(), raw, schema)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("catalog loaded from openapi", zap.String("path", path), zap.Int("inputs", catalog.Len()))
	return catalog, nil
}

func printCatalog(w io.Writer, catalog *input.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENTIFIER\tKIND\tNAME\tMIN\tMAX\tCHARACTERS\tPATTERN\tCONFIRMED BY")
	for _, d := range catalog.Entries() {
		characters, pattern := "-", "-"
		if d.Rules.AllowedCharacters != nil {
			characters = d.Rules.AllowedCharacters.String()
		}
		if d.Rules.Pattern != nil {
			pattern = d.Rules.Pattern.String()
		}
		confirmedBy := "-"
		if d.Confirmation != nil {
			confirmedBy = d.Confirmation.Identifier
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			d.Identifier, d.Kind, d.Name, d.Rules.MinimumSize, d.Rules.MaximumSize, characters, pattern, confirmedBy)
	}
	return tw.Flush()
}
