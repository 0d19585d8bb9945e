package render_test

import (
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-craftadmin/pkg/render"
)

func TestErrorMessages_EscapesAndDeduplicates(t *testing.T) {
	out, err := render.ErrorMessages([]string{"Username contains invalid characters: <, >", " Username contains invalid characters: <, > ", ""}, "error")
	if err != nil {
		t.Fatalf("render messages: %v", err)
	}
	want := `<p class="error">Username contains invalid characters: &lt;, &gt;</p>`
	if out != want {
		t.Fatalf("unexpected markup:\nwant %s\ngot  %s", want, out)
	}
}

func TestErrorMessages_EmptyRendersNothing(t *testing.T) {
	out, err := render.ErrorMessages(nil, "error")
	if err != nil {
		t.Fatalf("render messages: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty markup, got %q", out)
	}
}

func TestSelectOptions(t *testing.T) {
	out, err := render.SelectOptions([]render.Option{
		{Value: "0", Label: "12 - 21", Selected: true},
		{Value: "1", Label: "22 - 25"},
	})
	if err != nil {
		t.Fatalf("render options: %v", err)
	}
	want := `<option value="0" selected="selected">12 - 21</option><option value="1">22 - 25</option>`
	if out != want {
		t.Fatalf("unexpected markup:\nwant %s\ngot  %s", want, out)
	}
}

func TestProgress_WithRestart(t *testing.T) {
	out, err := render.Progress(render.ProgressItem{
		ID:           "vendors",
		Label:        "Vendors could not be fetched",
		Class:        "error",
		RestartLabel: "Restart",
	})
	if err != nil {
		t.Fatalf("render progress: %v", err)
	}
	for _, fragment := range []string{
		`<li id="vendors" class="error">`,
		`<span class="label">Vendors could not be fetched</span>`,
		`data-step="vendors"`,
		`>Restart</button>`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %s", fragment, out)
		}
	}
}

func TestProgress_RequiresID(t *testing.T) {
	if _, err := render.Progress(render.ProgressItem{Label: "x"}); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestClassesFromManifest(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "wow",
		Version: "1.0.0",
		Tokens: map[string]string{
			render.TokenErrorClass:     "is-danger",
			render.TokenInvisibleClass: " is-hidden ",
		},
	}

	got := render.ClassesFromManifest(manifest)
	want := render.Classes{
		Error:      "is-danger",
		Success:    "success",
		Invisible:  "is-hidden",
		InProgress: "in-progress",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(render.DefaultClasses(), render.ClassesFromManifest(nil)); diff != "" {
		t.Fatalf("nil manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeRow_StripsScripts(t *testing.T) {
	out := render.SanitizeRow(`<tr id="row-3"><td>Copper Bar</td><td><script>alert(1)</script></td></tr>`)
	if strings.Contains(out, "script") {
		t.Fatalf("expected script to be removed, got %s", out)
	}
	if !strings.Contains(out, `<td>Copper Bar</td>`) {
		t.Fatalf("expected cell content to survive, got %s", out)
	}
}

func TestNormalizeMessages(t *testing.T) {
	got := render.NormalizeMessages([]string{" First ", "Second", "Second", "  "})
	want := []string{"First", "Second"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}
