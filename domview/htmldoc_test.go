package domview

import "testing"

const page = `
<html><body>
  <nav id="main-nav" aria-label="Primary">
    <a href="/home" class="nav-link active">Home</a>
    <a href="/docs" class="nav-link">Docs</a>
  </nav>
  <form id="login" action="/login">
    <input type="email" name="email" placeholder="Email address">
    <input type="password" name="password">
    <button type="submit" data-testid="login-submit">Sign in</button>
  </form>
</body></html>`

func mustParse(t *testing.T) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTML(page)
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	return doc
}

func TestQueryAll_Simple(t *testing.T) {
	doc := mustParse(t)

	cases := []struct {
		selector string
		want     int
	}{
		{"a", 2},
		{"#main-nav", 1},
		{".nav-link", 2},
		{".nav-link.active", 1},
		{"input", 2},
		{`input[type="email"]`, 1},
		{`[data-testid="login-submit"]`, 1},
		{"[placeholder]", 1},
		{`button[type="submit"][data-testid="login-submit"]`, 1},
		{"span", 0},
	}
	for _, tc := range cases {
		got, err := doc.QueryAll(tc.selector)
		if err != nil {
			t.Fatalf("QueryAll(%q): %v", tc.selector, err)
		}
		if len(got) != tc.want {
			t.Errorf("QueryAll(%q): got %d matches, want %d", tc.selector, len(got), tc.want)
		}
	}
}

func TestQueryAll_Combinators(t *testing.T) {
	doc := mustParse(t)

	got, err := doc.QueryAll("nav a")
	if err != nil {
		t.Fatalf("descendant: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("nav a: got %d, want 2", len(got))
	}

	got, err = doc.QueryAll("#login > button")
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("#login > button: got %d, want 1", len(got))
	}

	got, err = doc.QueryAll("nav > button")
	if err != nil {
		t.Fatalf("child no-match: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("nav > button: got %d, want 0", len(got))
	}
}

func TestQueryAll_QuotedValueWithSpace(t *testing.T) {
	doc := mustParse(t)
	got, err := doc.QueryAll(`input[placeholder="Email address"]`)
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if got[0].Attr("name") != "email" {
		t.Errorf("name: got %q, want %q", got[0].Attr("name"), "email")
	}
}

func TestQueryAll_UnsupportedSyntax(t *testing.T) {
	doc := mustParse(t)
	if _, err := doc.QueryAll(`button:has-text("Sign in")`); err == nil {
		t.Fatal("pseudo-class selector should not be verifiable")
	}
}

func TestElementNavigation(t *testing.T) {
	doc := mustParse(t)
	btn := doc.First(`[data-testid="login-submit"]`)
	if btn == nil {
		t.Fatal("button not found")
	}
	if btn.Text() != "Sign in" {
		t.Errorf("Text: got %q, want %q", btn.Text(), "Sign in")
	}
	form := btn.Parent()
	if form == nil || form.Tag() != "form" {
		t.Fatalf("Parent: got %v, want form", form)
	}
	if form.Attr("id") != "login" {
		t.Errorf("form id: got %q", form.Attr("id"))
	}
}

func TestSnapshotDocument(t *testing.T) {
	snap := NewSnapshot([]ElementData{
		{Tag: "form", Attrs: map[string]string{"id": "login"}, Parent: -1},
		{Tag: "button", Attrs: map[string]string{"type": "submit"}, Text: "Go", Parent: 0, Visible: true, Box: Rect{X: 10, Y: 10, Width: 80, Height: 30}},
	})

	got, err := snap.QueryAll("form > button")
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d, want 1", len(got))
	}
	if !got[0].Visible() {
		t.Error("button should be visible")
	}
	if x, y := got[0].Box().Center(); x != 50 || y != 25 {
		t.Errorf("Center: got (%v,%v), want (50,25)", x, y)
	}
}
