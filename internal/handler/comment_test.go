package handler_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestAddCommentPersistsAndRedirects(t *testing.T) {
	app := newTestApp(t)
	alice := app.createUser(t, "alice")
	bob := app.createUser(t, "bob")
	app.createPost(t, alice, "hello")

	rr := app.postForm("/alice/1/comment/", url.Values{"text": {"great post"}}, app.sessionCookie(t, bob))

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/alice/1/" {
		t.Errorf("redirect = %q, want the post view", got)
	}
	if len(app.comments.comments) != 1 {
		t.Fatalf("stored comments = %d, want 1", len(app.comments.comments))
	}
	c := app.comments.comments[0]
	if c.PostID != 1 || c.AuthorID != bob.ID || c.Text != "great post" {
		t.Errorf("stored comment = %+v", c)
	}
}

func TestAddCommentBlankTextRerenders(t *testing.T) {
	app := newTestApp(t)
	alice := app.createUser(t, "alice")
	bob := app.createUser(t, "bob")
	app.createPost(t, alice, "hello")

	rr := app.postForm("/alice/1/comment/", url.Values{"text": {"  "}}, app.sessionCookie(t, bob))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 re-render", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Text is required") {
		t.Error("body does not show the text error")
	}
	if len(app.comments.comments) != 0 {
		t.Errorf("stored comments = %d, want 0 after failed validation", len(app.comments.comments))
	}
}

func TestAddCommentUnknownPostIs404(t *testing.T) {
	app := newTestApp(t)
	bob := app.createUser(t, "bob")

	rr := app.postForm("/alice/99/comment/", url.Values{"text": {"hi"}}, app.sessionCookie(t, bob))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestAddCommentRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	alice := app.createUser(t, "alice")
	app.createPost(t, alice, "hello")

	rr := app.postForm("/alice/1/comment/", url.Values{"text": {"drive-by"}}, nil)

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302 to login", rr.Code)
	}
	if got := rr.Header().Get("Location"); !strings.HasPrefix(got, "/auth/login/") {
		t.Errorf("redirect = %q, want the login page", got)
	}
	if len(app.comments.comments) != 0 {
		t.Errorf("stored comments = %d, want 0", len(app.comments.comments))
	}
}
