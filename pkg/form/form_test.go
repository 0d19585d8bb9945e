package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-craftadmin/pkg/dom"
	"github.com/goliatone/go-craftadmin/pkg/form"
	"github.com/goliatone/go-craftadmin/pkg/input"
	"github.com/goliatone/go-craftadmin/pkg/render"
)

const registrationForm = `<html><body>
<form name="user" method="post">
  <div class="group"><label>Username</label><input type="text" name="user[username]" value="bad name"></div>
  <div class="group"><input type="email" name="user[email]" value="thrall@orgrimmar.test"></div>
  <div class="group">
    <input type="password" name="user[plainPassword][first]" value="lok-tar-ogar">
    <input type="password" name="user[plainPassword][second]" value="lok-tar-ogaR">
  </div>
  <div class="group"><input type="hidden" name="user[_token]" value="t"><button type="submit">Save</button></div>
</form>
</body></html>`

func bindFirst(t *testing.T, markup string, opts ...form.Option) (*dom.Page, *form.Form) {
	t.Helper()
	page := dom.MustParseString(markup)
	catalog := input.DefaultCatalog()
	forms := page.Forms()
	if len(forms) == 0 {
		t.Fatalf("markup has no form")
	}
	f := form.Bind(forms[0], catalog.Identifiers(), catalog, opts...)
	return page, f
}

func TestBind_MatchesControlsInWalkOrder(t *testing.T) {
	_, f := bindFirst(t, registrationForm)

	var got []string
	for _, desc := range f.Inputs() {
		got = append(got, desc.Identifier+":"+desc.Kind.String())
	}
	want := []string{"username:text", "email:email", "plainPasswordfirst:confirm-password"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bound inputs mismatch (-want +got):\n%s", diff)
	}

	pw, ok := f.Input(input.IdentifierPlainPassword)
	if !ok || pw.Confirmation == nil || pw.Confirmation.Element == nil {
		t.Fatalf("expected confirmation control to be paired, got %+v", pw)
	}
	if name := pw.Confirmation.Element.AttrOr("name", ""); name != "user[plainPassword][second]" {
		t.Fatalf("paired with %q", name)
	}

	if f.SubmitButton() == nil || f.SubmitButton().Text() != "Save" {
		t.Fatalf("expected submit button to be found")
	}
	if f.ValidationPassed() {
		t.Fatalf("aggregate must start false when inputs are bound")
	}

	diags := f.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != form.DiagnosticUnmatchedInput || diags[0].Identifier != "_token" {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestSubmit_BlocksAndInjectsMessages(t *testing.T) {
	page, f := bindFirst(t, registrationForm)

	sub := f.Submit()
	if sub.Allowed {
		t.Fatalf("expected submission to be cancelled")
	}

	username := page.Find(`input[name="user[username]"]`)
	messages := username.NextAllFiltered("p.error")
	if messages.Length() != 1 || messages.Text() != "Username contains invalid characters:  " {
		t.Fatalf("unexpected username messages %q", messages.Text())
	}
	if !username.HasClass("error") || username.HasClass("success") {
		t.Fatalf("expected error class on username")
	}

	email := page.Find(`input[name="user[email]"]`)
	if !email.HasClass("success") || email.Next().Is("p.error") {
		t.Fatalf("expected email to pass cleanly")
	}

	second := page.Find(`input[name="user[plainPassword][second]"]`)
	if got := second.Next().Text(); got != "Password confirmation doesn't match Password" {
		t.Fatalf("unexpected mismatch message %q", got)
	}
	first := page.Find(`input[name="user[plainPassword][first]"]`)
	if !first.HasClass("success") {
		t.Fatalf("primary password passes its own rules, expected success class")
	}

	pw, _ := f.Input(input.IdentifierPlainPassword)
	if pw.ValidationPassed {
		t.Fatalf("mismatch must fail the confirm-password descriptor")
	}
}

func TestSubmit_IsIdempotent(t *testing.T) {
	page, f := bindFirst(t, registrationForm)

	f.Submit()
	before, _ := page.HTML()
	f.Submit()
	after, _ := page.HTML()

	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("second submit changed the page (-want +got):\n%s", diff)
	}
	if n := page.Find("p.error").Length(); n != 2 {
		t.Fatalf("expected 2 messages, got %d", n)
	}
}

func TestSubmit_AllowsAfterCorrection(t *testing.T) {
	page, f := bindFirst(t, registrationForm)
	f.Submit()

	dom.SetValue(page.Find(`input[name="user[username]"]`), "thrall")
	dom.SetValue(page.Find(`input[name="user[plainPassword][second]"]`), "lok-tar-ogar")

	sub := f.Submit()
	if !sub.Allowed || !f.ValidationPassed() {
		t.Fatalf("expected submission to proceed, got %+v", sub)
	}
	if n := page.Find("p.error").Length(); n != 0 {
		t.Fatalf("expected messages to be cleared, got %d", n)
	}
	if page.Find(".error").Length() != 0 {
		t.Fatalf("expected error classes to be removed")
	}
}

func TestBlur_RevalidatesSingleInput(t *testing.T) {
	page, f := bindFirst(t, registrationForm)

	result, ok := f.Blur(input.IdentifierUsername)
	if !ok {
		t.Fatalf("expected username to be bound")
	}
	if result.Passed {
		t.Fatalf("expected username to fail")
	}
	if n := page.Find("p.error").Length(); n != 1 {
		t.Fatalf("blur must only touch its own input, got %d messages", n)
	}
	if f.ValidationPassed() {
		t.Fatalf("aggregate must stay false")
	}

	if _, ok := f.Blur("unknown"); ok {
		t.Fatalf("expected unknown identifier to report false")
	}
}

func TestBlur_ConfirmationControlRevalidatesPassword(t *testing.T) {
	page, f := bindFirst(t, registrationForm)

	result, ok := f.Blur(input.IdentifierPasswordSecond)
	if !ok {
		t.Fatalf("expected confirmation control to be recognised")
	}
	if result.Identifier != input.IdentifierPlainPassword || result.Passed {
		t.Fatalf("expected a failing result for the confirmed password, got %+v", result)
	}
	want := []string{"Password confirmation doesn't match Password"}
	if diff := cmp.Diff(want, result.ConfirmationMessages); diff != "" {
		t.Fatalf("confirmation messages mismatch (-want +got):\n%s", diff)
	}
	second := page.Find(`input[name="user[plainPassword][second]"]`)
	if got := second.Next().Text(); got != want[0] {
		t.Fatalf("unexpected mismatch message %q", got)
	}

	dom.SetValue(second, "lok-tar-ogar")
	result, _ = f.Blur(input.IdentifierPasswordSecond)
	if !result.Passed || len(result.ConfirmationMessages) != 0 {
		t.Fatalf("expected the pair to pass once corrected, got %+v", result)
	}
	if second.Next().Is("p.error") {
		t.Fatalf("expected mismatch message to be cleared")
	}
}

func TestBind_EmptyFormPassesVacuously(t *testing.T) {
	_, f := bindFirst(t, `<form name="search"><div><input type="text" name="q"></div></form>`)

	if len(f.Inputs()) != 0 {
		t.Fatalf("expected no bound inputs")
	}
	if !f.ValidationPassed() || !f.Submit().Allowed {
		t.Fatalf("expected empty form to pass")
	}
}

func TestBind_MissingConfirmationSkipsCrossRule(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	markup := `<form name="user">
  <div><input type="password" name="user[plainPassword][first]" value="long-enough-pw"></div>
</form>`
	_, f := bindFirst(t, markup, form.WithLogger(zap.New(core)))

	diags := f.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != form.DiagnosticMissingConfirmation {
		t.Fatalf("expected missing-confirmation diagnostic, got %v", diags)
	}
	if logs.FilterField(zap.String("kind", "missing-confirmation")).Len() != 1 {
		t.Fatalf("expected warning to be logged")
	}
	if !f.Submit().Allowed {
		t.Fatalf("primary rules pass, submission should proceed")
	}
}

func TestBind_ControlTypeSelectsKind(t *testing.T) {
	markup := `<form>
  <div><input type="email" name="username" value="x"></div>
  <div><input type="password" name="password" value="short"></div>
  <div><select name="email"><option value="a">a</option></select></div>
</form>`
	_, f := bindFirst(t, markup)

	username, _ := f.Input("username")
	if username.Kind != input.KindEmail {
		t.Fatalf("email control should bind as email, got %s", username.Kind)
	}
	password, _ := f.Input("password")
	if password.Kind != input.KindText {
		t.Fatalf("plain password entry should bind as text, got %s", password.Kind)
	}
	if _, ok := f.Input("email"); ok {
		t.Fatalf("select must not be bound")
	}
	diags := f.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != form.DiagnosticUnsupportedType || diags[0].Detail != "select" {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}

const explicitPairForm = `<form name="user">
  <div><input type="password" name="user[plainPassword][first]" value="long-enough-pw"></div>
  <div><input type="text" name="user[username]" value="jaina"></div>
  <div><input type="password" name="repeat" data-confirms="plainPasswordfirst" value="long-enough-pw"></div>
</form>`

func TestBind_ExplicitPairing(t *testing.T) {
	_, f := bindFirst(t, explicitPairForm)

	pw, _ := f.Input(input.IdentifierPlainPassword)
	if got := pw.Confirmation.Element.AttrOr("name", ""); got != "repeat" {
		t.Fatalf("expected data-confirms control to pair, got %q", got)
	}
	if _, ok := f.Input(input.IdentifierUsername); !ok {
		t.Fatalf("username must still bind")
	}
	if !f.Submit().Allowed {
		t.Fatalf("expected matching passwords to pass")
	}
}

func TestBind_PositionalPairingOnly(t *testing.T) {
	_, f := bindFirst(t, explicitPairForm, form.WithPositionalPairingOnly())

	pw, _ := f.Input(input.IdentifierPlainPassword)
	if got := pw.Confirmation.Element.AttrOr("name", ""); got != "user[username]" {
		t.Fatalf("expected positional pairing with the next control, got %q", got)
	}
	if _, ok := f.Input(input.IdentifierUsername); ok {
		t.Fatalf("consumed control must not bind on its own")
	}
}

func TestBind_CustomClasses(t *testing.T) {
	page, f := bindFirst(t, registrationForm, form.WithClasses(render.Classes{Error: "is-danger", Success: "is-success"}))
	f.Submit()

	if n := page.Find("p.is-danger").Length(); n != 2 {
		t.Fatalf("expected messages with custom class, got %d", n)
	}
	if page.Find(`input[name="user[email]"]`).HasClass("is-success") == false {
		t.Fatalf("expected custom success class")
	}
}
