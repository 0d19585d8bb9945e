package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-craftadmin/pkg/dom"
	"github.com/goliatone/go-craftadmin/pkg/form"
	"github.com/goliatone/go-craftadmin/pkg/validator"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		pagePath string
		values   []string
		formIdx  int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Fill a saved admin page and report whether its forms would submit",
		Example: `  craftadmin validate --page register.html \
    --set 'user[username]=thrall' --set 'user[email]=warchief@horde.test'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := readPage(pagePath, "")
			if err != nil {
				return err
			}
			for _, raw := range values {
				name, value, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("validate: --set expects name=value, got %q", raw)
				}
				if err := page.SetValue(name, value); err != nil {
					return fmt.Errorf("validate: %w", err)
				}
			}

			catalog, err := a.catalog(cmd)
			if err != nil {
				return err
			}
			v, err := validator.New(page, validator.WithCatalog(catalog), validator.WithLogger(a.logger))
			if err != nil {
				return err
			}

			forms := v.Forms()
			if formIdx >= 0 {
				if formIdx >= len(forms) {
					return fmt.Errorf("validate: page has %d form(s), --form %d is out of range", len(forms), formIdx)
				}
				forms = forms[formIdx : formIdx+1]
			}

			out := cmd.OutOrStdout()
			for i, f := range forms {
				printSubmission(out, i, f, f.Submit())
			}

			if output != "" {
				markup, err := page.HTML()
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, []byte(markup), 0o644); err != nil {
					return fmt.Errorf("validate: write %s: %w", output, err)
				}
				fmt.Fprintf(out, "Page written to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pagePath, "page", "", "Saved admin page (HTML)")
	cmd.Flags().StringArrayVar(&values, "set", nil, "Control value as name=value (repeatable)")
	cmd.Flags().IntVar(&formIdx, "form", -1, "Only submit the form at this index")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the page with injected messages to this file")
	_ = cmd.MarkFlagRequired("page")
	return cmd
}

func printSubmission(w io.Writer, index int, f *form.Form, sub form.Submission) {
	name := f.Name()
	if name == "" {
		name = fmt.Sprintf("#%d", index)
	}
	fmt.Fprintf(w, "form %s\n", name)
	for _, field := range sub.Fields {
		mark := "ok"
		if !field.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "  %-4s %s\n", mark, field.Identifier)
		for _, msg := range field.Messages {
			fmt.Fprintf(w, "         %s\n", msg)
		}
		for _, msg := range field.ConfirmationMessages {
			fmt.Fprintf(w, "         %s\n", msg)
		}
	}
	for _, d := range f.Diagnostics() {
		fmt.Fprintf(w, "  note %s\n", d)
	}
	if sub.Allowed {
		fmt.Fprintln(w, "  submission allowed")
	} else {
		fmt.Fprintln(w, "  submission cancelled")
	}
}

// readPage parses an HTML file. pageURL, when set, becomes the page address.
func readPage(path, pageURL string) (*dom.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	defer f.Close()

	var opts []dom.Option
	if pageURL != "" {
		opts = append(opts, dom.WithURL(pageURL))
	}
	return dom.Parse(f, opts...)
}
