package integration_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// These tests run against real infrastructure and skip when it is absent:
//
//   TEST_DATABASE_URL  a Postgres DSN with migrations/schema.sql applied
//   TEST_BASE_URL      a running server (with Redis for the page cache)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration test")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sqlx.DB, username string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(
		`INSERT INTO users (username, password_hash) VALUES ($1, 'x') RETURNING id`,
		username,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert user %s: %v", username, err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

// ============================================================================
// Referential Integrity
// ============================================================================

func TestUserDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	suffix := time.Now().UnixNano()

	authorID := createTestUser(t, db, fmt.Sprintf("it_author_%d", suffix))
	readerID := createTestUser(t, db, fmt.Sprintf("it_reader_%d", suffix))

	var postID int64
	if err := db.QueryRow(
		`INSERT INTO posts (author_id, text) VALUES ($1, 'cascade me') RETURNING id`,
		authorID,
	).Scan(&postID); err != nil {
		t.Fatalf("insert post: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO comments (post_id, author_id, text) VALUES ($1, $2, 'so long')`,
		postID, readerID,
	); err != nil {
		t.Fatalf("insert comment: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO follows (user_id, author_id) VALUES ($1, $2)`,
		readerID, authorID,
	); err != nil {
		t.Fatalf("insert follow: %v", err)
	}

	if _, err := db.Exec(`DELETE FROM users WHERE id = $1`, authorID); err != nil {
		t.Fatalf("delete author: %v", err)
	}

	counts := map[string]string{
		"posts":    `SELECT COUNT(*) FROM posts WHERE author_id = $1`,
		"comments": `SELECT COUNT(*) FROM comments WHERE post_id = $1`,
		"follows":  `SELECT COUNT(*) FROM follows WHERE author_id = $1`,
	}
	for table, query := range counts {
		arg := authorID
		if table == "comments" {
			arg = postID
		}
		var n int
		if err := db.Get(&n, query, arg); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s rows left after user delete = %d, want 0", table, n)
		}
	}
}

func TestGroupDeleteDetachesPosts(t *testing.T) {
	db := openTestDB(t)
	suffix := time.Now().UnixNano()

	authorID := createTestUser(t, db, fmt.Sprintf("it_grouped_%d", suffix))

	var groupID int64
	if err := db.QueryRow(
		`INSERT INTO groups (title, slug) VALUES ($1, $2) RETURNING id`,
		"Integration", fmt.Sprintf("it-group-%d", suffix),
	).Scan(&groupID); err != nil {
		t.Fatalf("insert group: %v", err)
	}

	var postID int64
	if err := db.QueryRow(
		`INSERT INTO posts (author_id, group_id, text) VALUES ($1, $2, 'detach me') RETURNING id`,
		authorID, groupID,
	).Scan(&postID); err != nil {
		t.Fatalf("insert post: %v", err)
	}

	if _, err := db.Exec(`DELETE FROM groups WHERE id = $1`, groupID); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	var got *int64
	if err := db.Get(&got, `SELECT group_id FROM posts WHERE id = $1`, postID); err != nil {
		t.Fatalf("read post: %v", err)
	}
	if got != nil {
		t.Errorf("post group_id = %d after group delete, want NULL", *got)
	}
}

func TestFollowEdgeIsUnique(t *testing.T) {
	db := openTestDB(t)
	suffix := time.Now().UnixNano()

	readerID := createTestUser(t, db, fmt.Sprintf("it_dup_reader_%d", suffix))
	authorID := createTestUser(t, db, fmt.Sprintf("it_dup_author_%d", suffix))

	insert := `INSERT INTO follows (user_id, author_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for i := 0; i < 2; i++ {
		if _, err := db.Exec(insert, readerID, authorID); err != nil {
			t.Fatalf("insert follow %d: %v", i+1, err)
		}
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM follows WHERE user_id = $1 AND author_id = $2`, readerID, authorID); err != nil {
		t.Fatalf("count follows: %v", err)
	}
	if n != 1 {
		t.Errorf("follow rows = %d, want 1", n)
	}
}

// ============================================================================
// Running Server
// ============================================================================

func baseURL(t *testing.T) string {
	t.Helper()

	base := os.Getenv("TEST_BASE_URL")
	if base == "" {
		t.Skip("TEST_BASE_URL not set; skipping server integration test")
	}
	return strings.TrimRight(base, "/")
}

func fetchBody(t *testing.T, client *http.Client, target string) string {
	t.Helper()

	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d, want 200", target, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

// The index is cached whole: within the TTL window repeated requests return
// the identical page even while new posts land.
func TestIndexServedFromCacheWithinWindow(t *testing.T) {
	base := baseURL(t)
	client := &http.Client{Timeout: 10 * time.Second}

	first := fetchBody(t, client, base+"/")
	second := fetchBody(t, client, base+"/")

	if first != second {
		t.Error("index changed between two requests inside the cache window")
	}
}

// newBrowser returns a cookie-carrying client, the session survives across
// requests the way it does in a real browser.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

// signupUser registers a fresh account and leaves the client logged in.
func signupUser(t *testing.T, client *http.Client, base, username string) {
	t.Helper()

	resp, err := client.PostForm(base+"/auth/signup/", url.Values{
		"username": {username},
		"password": {"password123"},
	})
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	resp.Body.Close()
}

// A full browser-style pass: sign up, publish, and read the post back from
// the profile page.
func TestSignupPublishRead(t *testing.T) {
	base := baseURL(t)
	client := newBrowser(t)

	username := fmt.Sprintf("it_writer_%d", time.Now().UnixNano())
	signupUser(t, client, base, username)

	text := fmt.Sprintf("integration post %d", time.Now().UnixNano())
	resp, err := client.PostForm(base+"/new/", url.Values{"text": {text}})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	resp.Body.Close()

	profile := fetchBody(t, client, base+"/"+username+"/")
	if !strings.Contains(profile, text) {
		t.Errorf("profile page does not show the new post %q", text)
	}
}

// An author's post is in a reader's feed exactly while the reader follows
// the author: absent before, present after following, gone after unfollowing.
func TestFollowFeedTracksEdges(t *testing.T) {
	base := baseURL(t)
	suffix := time.Now().UnixNano()

	author := fmt.Sprintf("it_feed_author_%d", suffix)
	authorClient := newBrowser(t)
	signupUser(t, authorClient, base, author)

	text := fmt.Sprintf("feed post %d", suffix)
	resp, err := authorClient.PostForm(base+"/new/", url.Values{"text": {text}})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	resp.Body.Close()

	readerClient := newBrowser(t)
	signupUser(t, readerClient, base, fmt.Sprintf("it_feed_reader_%d", suffix))

	feed := fetchBody(t, readerClient, base+"/follow/")
	if strings.Contains(feed, text) {
		t.Fatalf("feed shows %q before following the author", text)
	}

	fetchBody(t, readerClient, base+"/"+author+"/follow/")
	feed = fetchBody(t, readerClient, base+"/follow/")
	if !strings.Contains(feed, text) {
		t.Errorf("feed misses %q after following the author", text)
	}

	fetchBody(t, readerClient, base+"/"+author+"/unfollow/")
	feed = fetchBody(t, readerClient, base+"/follow/")
	if strings.Contains(feed, text) {
		t.Errorf("feed still shows %q after unfollowing the author", text)
	}
}
