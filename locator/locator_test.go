package locator

import (
	"strings"
	"testing"
)

func TestParse_NativeRole(t *testing.T) {
	spec := Parse(`getByRole('button', { name: 'Submit' })`)
	if spec.Kind != KindRole {
		t.Fatalf("Kind: got %q, want %q", spec.Kind, KindRole)
	}
	if spec.Value != "button" {
		t.Errorf("Value: got %q, want %q", spec.Value, "button")
	}
	if spec.Name != "Submit" {
		t.Errorf("Name: got %q, want %q", spec.Name, "Submit")
	}
	if spec.Exact {
		t.Error("Exact: got true, want false")
	}
}

func TestParse_NativeVariants(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		val  string
	}{
		{`getByText('Sign in', { exact: true })`, KindText, "Sign in"},
		{`getByLabel("Email address")`, KindLabel, "Email address"},
		{`getByTestId('login-submit')`, KindTestID, "login-submit"},
		{`getByPlaceholder('Search…')`, KindPlaceholder, "Search…"},
		{`getByTitle('Close')`, KindTitle, "Close"},
	}
	for _, tc := range cases {
		spec := Parse(tc.in)
		if spec.Kind != tc.kind {
			t.Errorf("Parse(%q).Kind: got %q, want %q", tc.in, spec.Kind, tc.kind)
		}
		if spec.Value != tc.val {
			t.Errorf("Parse(%q).Value: got %q, want %q", tc.in, spec.Value, tc.val)
		}
	}

	if spec := Parse(`getByText('Sign in', { exact: true })`); !spec.Exact {
		t.Error("exact option not parsed")
	}
}

func TestParse_TotalFallback(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{"#login-button", KindCSS},
		{`button[data-testid="x"]`, KindCSS},
		{"//button[@name='go']", KindXPath},
		{"/html/body/div[2]", KindXPath},
		{"(//a)[1]", KindXPath},
		{"getByMagic('nope')", KindCSS}, // unknown method: raw CSS passthrough
		{"getByRole(unquoted)", KindCSS},
		{"", KindCSS},
	}
	for _, tc := range cases {
		spec := Parse(tc.in)
		if spec.Kind != tc.kind {
			t.Errorf("Parse(%q).Kind: got %q, want %q", tc.in, spec.Kind, tc.kind)
		}
		if spec.Value != tc.in {
			t.Errorf("Parse(%q).Value: got %q, want input preserved", tc.in, spec.Value)
		}
	}
}

func TestString_RoundTrip(t *testing.T) {
	specs := []Spec{
		{Kind: KindRole, Value: "button", Name: "Submit"},
		{Kind: KindRole, Value: "textbox", Name: "Email", Exact: true},
		{Kind: KindText, Value: "Welcome back"},
		{Kind: KindCSS, Value: "#login"},
		{Kind: KindXPath, Value: "//form//button"},
	}
	for _, want := range specs {
		got := Parse(want.String())
		if got != want {
			t.Errorf("round trip: got %+v, want %+v (display %q)", got, want, want.String())
		}
	}
}

func TestRoleXPath(t *testing.T) {
	expr := roleXPath("button", "Submit", true)
	for _, want := range []string{`@role = 'button'`, `//button`, `//input[@type = 'submit']`, `@aria-label = 'Submit'`} {
		if !strings.Contains(expr, want) {
			t.Errorf("roleXPath missing %q in %q", want, expr)
		}
	}

	link := roleXPath("link", "", false)
	if !strings.Contains(link, `//a[@href]`) {
		t.Errorf("link role should require href: %q", link)
	}
}

func TestXPathLiteral(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "'plain'"},
		{"it's", `"it's"`},
		{`both "and" it's`, `concat('both "and" it', "'", 's')`},
	}
	for _, tc := range cases {
		if got := xpathLiteral(tc.in); got != tc.want {
			t.Errorf("xpathLiteral(%q): got %s, want %s", tc.in, got, tc.want)
		}
	}
}
