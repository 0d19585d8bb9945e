package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	craftadmin "github.com/goliatone/go-craftadmin"
	"github.com/goliatone/go-craftadmin/internal/transport"
	"github.com/goliatone/go-craftadmin/pkg/dom"
	"github.com/goliatone/go-craftadmin/pkg/navigation"
)

// tablePage is used when no saved page is given.
const tablePage = `<html><body>
<select id="pageSize"><option value="5">5</option><option value="10">10</option></select>
<select id="pageSelect"></select>
<table id="entities"><tbody></tbody></table>
<button id="first">First</button><button id="previous">Previous</button>
<button id="next">Next</button><button id="last">Last</button>
</body></html>`

type browseAction struct {
	label string
	run   func() error
}

func newBrowseCmd(a *app) *cobra.Command {
	var (
		pagePath string
		pageURL  string
		resource string
	)

	cmd := &cobra.Command{
		Use:   "browse [resource]",
		Short: "Page through an entity table interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				resource = args[0]
			}
			if pageURL == "" {
				if resource == "" {
					return errors.New("browse: a resource or --url is required")
				}
				pageURL = strings.TrimRight(a.cfg.App.BaseURL, "/") + "/admin/" + resource
			}

			var (
				page *dom.Page
				err  error
			)
			if pagePath != "" {
				page, err = readPage(pagePath, pageURL)
			} else {
				page, err = dom.ParseString(tablePage, dom.WithURL(pageURL))
			}
			if err != nil {
				return err
			}

			navOpts := []navigation.Option{
				navigation.WithDefaultPageSize(a.cfg.App.PageSize),
				navigation.WithTransport(transport.WithTimeout(a.cfg.Scraper.Timeout)),
			}
			if resource != "" {
				navOpts = append(navOpts, navigation.WithResource(resource))
			}
			p, err := craftadmin.NewPage(cmd.Context(), page,
				craftadmin.WithLogger(a.logger),
				craftadmin.WithNavigationOptions(navOpts...),
			)
			if err != nil {
				return err
			}
			if p.Navigation == nil {
				return errors.New("browse: page has no entity table")
			}
			if err := p.Navigation.Err(); err != nil {
				return err
			}
			return a.browse(cmd, page, p.Navigation)
		},
	}

	cmd.Flags().StringVar(&pagePath, "page", "", "Saved admin page (HTML); a bare table page is used when empty")
	cmd.Flags().StringVar(&pageURL, "url", "", "Admin page URL; its origin serves the rows and its last segment names the resource")
	return cmd
}

func (a *app) browse(cmd *cobra.Command, page *dom.Page, nav *navigation.Controller) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	for {
		count := nav.PageCount()
		if count == 0 || len(nav.CurrentRows()) == 0 {
			fmt.Fprintf(out, "No %s rows.\n", nav.Resource())
			return nil
		}
		printRows(out, page)

		actions := append(browseActions(nav), a.pageActions(cmd, nav)...)
		actions = append(actions, browseAction{label: "Quit"})
		labels := make([]string, len(actions))
		for i, action := range actions {
			labels[i] = action.label
		}

		choice, err := a.prompt.Select(ctx, SelectConfig{
			Message: fmt.Sprintf("%s: page %d of %d", nav.Resource(), nav.CurrentIndex()+1, count),
			Options: labels,
		})
		if errors.Is(err, errAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(actions) || actions[choice].run == nil {
			return nil
		}

		if err := actions[choice].run(); err != nil && !errors.Is(err, errAborted) {
			return err
		}
	}
}

func browseActions(nav *navigation.Controller) []browseAction {
	v := nav.Visibility()
	var actions []browseAction
	if v.First {
		actions = append(actions, browseAction{"First", nav.First})
	}
	if v.Previous {
		actions = append(actions, browseAction{"Previous", nav.Previous})
	}
	if v.Next {
		actions = append(actions, browseAction{"Next", nav.Next})
	}
	if v.Last {
		actions = append(actions, browseAction{"Last", nav.Last})
	}
	return actions
}

func (a *app) pageActions(cmd *cobra.Command, nav *navigation.Controller) []browseAction {
	ctx := cmd.Context()
	return []browseAction{
		{"Jump to page", func() error {
			labels := nav.Labels()
			idx, err := a.prompt.Select(ctx, SelectConfig{
				Message:      "Page",
				Options:      labels,
				DefaultIndex: nav.CurrentIndex(),
			})
			if err != nil {
				return err
			}
			return nav.JumpToPage(idx)
		}},
		{"Page size", func() error {
			sizes := nav.PageSizes()
			labels := make([]string, len(sizes))
			current := 0
			for i, size := range sizes {
				labels[i] = strconv.Itoa(size)
				if size == nav.PageSize() {
					current = i
				}
			}
			idx, err := a.prompt.Select(ctx, SelectConfig{
				Message:      "Rows per page",
				Options:      labels,
				DefaultIndex: current,
			})
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(sizes) {
				return nil
			}
			return nav.ChangePageSize(sizes[idx])
		}},
	}
}

func printRows(w io.Writer, page *dom.Page) {
	page.Find(craftadmin.DefaultTableSelector + " tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		fmt.Fprintln(w, "  "+strings.Join(cells, " | "))
	})
}
