package input_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-craftadmin/pkg/input"
)

func TestRulesCheck_SizeBounds(t *testing.T) {
	rules := input.MustRules(3, 5, "")

	cases := []struct {
		value string
		pass  bool
		msg   string
	}{
		{"", false, "Name doesn't contain enough characters"},
		{"ab", false, "Name doesn't contain enough characters"},
		{"abc", true, ""},
		{"abcde", true, ""},
		{"abcdef", false, "Name contains too many characters"},
		// code points, not bytes
		{"ééé", true, ""},
	}

	for _, tc := range cases {
		result := rules.Check("Name", tc.value)
		if result.Passed != tc.pass {
			t.Fatalf("value %q: expected passed=%v, got %v (%v)", tc.value, tc.pass, result.Passed, result.Messages)
		}
		if tc.msg == "" && len(result.Messages) != 0 {
			t.Fatalf("value %q: expected no messages, got %v", tc.value, result.Messages)
		}
		if tc.msg != "" && (len(result.Messages) != 1 || result.Messages[0] != tc.msg) {
			t.Fatalf("value %q: expected %q, got %v", tc.value, tc.msg, result.Messages)
		}
	}
}

func TestRulesCheck_SizePropertyAcrossRange(t *testing.T) {
	rules := input.MustRules(2, 6, "")
	for n := 0; n <= 10; n++ {
		value := strings.Repeat("x", n)
		result := rules.Check("Field", value)
		want := n >= 2 && n <= 6
		if result.Passed != want {
			t.Fatalf("len %d: expected passed=%v, got %v", n, want, result.Passed)
		}
	}
}

func TestRulesCheck_InvalidCharactersFirstSeenOrder(t *testing.T) {
	rules := input.MustRules(0, 255, input.UsernameCharacters)

	result := rules.Check("Username", "a b!c b!?")
	wantChars := []string{" ", "!", "?"}
	if diff := cmp.Diff(wantChars, result.InvalidCharacters); diff != "" {
		t.Fatalf("invalid characters mismatch (-want +got):\n%s", diff)
	}
	wantMessages := []string{"Username contains invalid characters:  , !, ?"}
	if diff := cmp.Diff(wantMessages, result.Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if result.Passed {
		t.Fatalf("expected failure")
	}

	clean := rules.Check("Username", "arthas_menethil.2")
	if !clean.Passed || len(clean.InvalidCharacters) != 0 {
		t.Fatalf("expected clean value to pass, got %+v", clean)
	}
}

func TestRulesCheck_BothRulesReport(t *testing.T) {
	rules := input.MustRules(10, 255, input.PasswordCharacters)
	result := rules.Check("Password", "é é")
	want := []string{
		"Password doesn't contain enough characters",
		"Password contains invalid characters: é,  ",
	}
	if diff := cmp.Diff(want, result.Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRulesCheck_PatternMatchesWholeValue(t *testing.T) {
	rules, err := input.NewRules(0, 64, "")
	if err != nil {
		t.Fatalf("new rules: %v", err)
	}
	rules, err = rules.WithPattern("^[^@]+@[^@]+$")
	if err != nil {
		t.Fatalf("with pattern: %v", err)
	}

	if result := rules.Check("Email", "a@b.test"); !result.Passed || len(result.Messages) != 0 {
		t.Fatalf("expected a@b.test to pass, got %+v", result)
	}

	result := rules.Check("Email", "a@b@c")
	if result.Passed {
		t.Fatalf("expected a@b@c to fail")
	}
	if diff := cmp.Diff([]string{"Email doesn't match the expected format"}, result.Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if len(result.InvalidCharacters) != 0 {
		t.Fatalf("pattern failure reported invalid characters: %v", result.InvalidCharacters)
	}

	cleared, err := rules.WithPattern("")
	if err != nil || cleared.Pattern != nil {
		t.Fatalf("expected empty pattern to clear the rule, got %v, %v", cleared.Pattern, err)
	}
	if _, err := rules.WithPattern("[a-"); err == nil {
		t.Fatalf("expected error for bad pattern")
	}
}

func TestNewRules_RejectsInvertedBounds(t *testing.T) {
	if _, err := input.NewRules(5, 4, ""); err == nil {
		t.Fatalf("expected error for min > max")
	}
	if _, err := input.NewRules(-1, 4, ""); err == nil {
		t.Fatalf("expected error for negative min")
	}
	if _, err := input.NewRules(1, 4, "[a-"); err == nil {
		t.Fatalf("expected error for bad pattern")
	}
}

func TestDescriptor_CheckValidationRecomputes(t *testing.T) {
	desc, err := input.Text("username", "Username", input.MustRules(1, 5, ""))
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	desc.CheckValidation("ok")
	if !desc.ValidationPassed {
		t.Fatalf("expected pass")
	}
	desc.CheckValidation("too long value")
	if desc.ValidationPassed {
		t.Fatalf("expected failure after second pass")
	}
}

func TestDescriptor_Bind(t *testing.T) {
	catalog := input.DefaultCatalog()
	entry, ok := catalog.Lookup(input.IdentifierPlainPassword)
	if !ok {
		t.Fatalf("expected confirm entry in catalog")
	}

	bound := entry.Bind(input.KindConfirmPassword, nil)
	if bound.Kind != input.KindConfirmPassword || bound.Confirmation == nil {
		t.Fatalf("expected confirmation to be copied, got %+v", bound)
	}
	if bound.Confirmation == entry.Confirmation {
		t.Fatalf("bound confirmation must not alias the catalog entry")
	}
	if bound.Bound() {
		t.Fatalf("nil element must not count as bound")
	}

	asText := entry.Bind(input.KindText, nil)
	if asText.Confirmation != nil {
		t.Fatalf("text binding must drop the confirmation pair")
	}
}

func TestDescriptor_CheckConfirmation(t *testing.T) {
	desc, err := input.ConfirmPassword("pw", "Password", "pw2", "Password confirmation", input.MustRules(1, 10, ""))
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if msg := desc.CheckConfirmation("secret", "secret"); msg != "" {
		t.Fatalf("expected match, got %q", msg)
	}
	if msg := desc.CheckConfirmation("secret", "other"); msg != "Password confirmation doesn't match Password" {
		t.Fatalf("unexpected mismatch message %q", msg)
	}

	text, _ := input.Text("t", "T", input.MustRules(0, 1, ""))
	if msg := text.CheckConfirmation("a", "b"); msg != "" {
		t.Fatalf("text descriptors never report a mismatch, got %q", msg)
	}
}

func TestDefaultCatalog(t *testing.T) {
	catalog := input.DefaultCatalog()

	want := []string{"username", "email", "password", "plainPasswordfirst"}
	if diff := cmp.Diff(want, catalog.Identifiers()); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}

	kinds := map[string]input.Kind{}
	bounds := map[string][2]int{}
	for _, desc := range catalog.Entries() {
		kinds[desc.Identifier] = desc.Kind
		bounds[desc.Identifier] = [2]int{desc.Rules.MinimumSize, desc.Rules.MaximumSize}
		if desc.Element != nil || desc.ValidationPassed {
			t.Fatalf("catalog descriptor %q must be unbound and not passed", desc.Identifier)
		}
	}
	wantKinds := map[string]input.Kind{
		"username":           input.KindText,
		"email":              input.KindEmail,
		"password":           input.KindPassword,
		"plainPasswordfirst": input.KindConfirmPassword,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	wantBounds := map[string][2]int{
		"username":           {1, 255},
		"email":              {1, 255},
		"password":           {10, 255},
		"plainPasswordfirst": {10, 255},
	}
	if diff := cmp.Diff(wantBounds, bounds); diff != "" {
		t.Fatalf("bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	a, _ := input.Text("name", "Name", input.MustRules(0, 1, ""))
	if _, err := input.NewCatalog(a, a); err == nil {
		t.Fatalf("expected duplicate identifier error")
	}
}

const userSchema = `
openapi: 3.0.3
info:
  title: Admin
  version: "1.0"
paths: {}
components:
  schemas:
    User:
      type: object
      properties:
        username:
          type: string
          title: Username
          minLength: 3
          maxLength: 32
          pattern: "^[a-z]{3,}$"
          x-allowed-characters: "[a-z]"
          x-order: 1
        email:
          type: string
          format: email
          pattern: "^[^@]+@[^@]+$"
          x-order: 2
        plainPassword:
          type: string
          format: password
          minLength: 12
          x-order: 3
          x-confirm: true
          x-confirm-identifier: plainPasswordsecond
          x-confirm-name: Repeat password
        roles:
          type: array
          items:
            type: string
`

func TestCatalogFromOpenAPI(t *testing.T) {
	catalog, err := input.CatalogFromOpenAPI(context.Background(), []byte(userSchema), "User")
	if err != nil {
		t.Fatalf("catalog from openapi: %v", err)
	}

	if diff := cmp.Diff([]string{"username", "email", "plainPassword"}, catalog.Identifiers()); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}

	username, _ := catalog.Lookup("username")
	if username.Kind != input.KindText || username.Name != "Username" {
		t.Fatalf("unexpected username descriptor: %+v", username)
	}
	if username.Rules.MinimumSize != 3 || username.Rules.MaximumSize != 32 {
		t.Fatalf("unexpected username bounds: %+v", username.Rules)
	}
	if got := username.Rules.Check("Username", "abC").InvalidCharacters; len(got) != 1 || got[0] != "C" {
		t.Fatalf("expected allowed characters to reject C, got %v", got)
	}
	if result := username.Rules.Check("Username", "thrall"); !result.Passed {
		t.Fatalf("expected thrall to pass, got %+v", result)
	}

	email, _ := catalog.Lookup("email")
	if email.Kind != input.KindEmail || email.Rules.MaximumSize != 255 {
		t.Fatalf("unexpected email descriptor: %+v", email)
	}
	if result := email.Rules.Check("Email", "thrall@orgrimmar.test"); !result.Passed {
		t.Fatalf("expected address to pass, got %+v", result)
	}

	password, _ := catalog.Lookup("plainPassword")
	if password.Kind != input.KindConfirmPassword || password.Confirmation == nil {
		t.Fatalf("expected confirm-password, got %+v", password)
	}
	if password.Confirmation.Identifier != "plainPasswordsecond" || password.Confirmation.Name != "Repeat password" {
		t.Fatalf("unexpected confirmation: %+v", password.Confirmation)
	}
}

func TestCatalogFromOpenAPI_UnknownSchema(t *testing.T) {
	if _, err := input.CatalogFromOpenAPI(context.Background(), []byte(userSchema), "Recipe"); err == nil {
		t.Fatalf("expected error for unknown schema")
	}
}
