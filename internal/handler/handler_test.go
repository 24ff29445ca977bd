package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quillfeed/internal/handler"
	"quillfeed/internal/model"
	"quillfeed/internal/render"
	"quillfeed/internal/service"
	transport "quillfeed/internal/transport/http"
)

const testJWTSecret = "test-secret"

// The handlers are exercised end to end through the router so the URL
// parameters, session middleware, and login redirects behave exactly as in
// production. Storage is replaced by small in-memory fakes.

type fakeUserRepo struct {
	nextID int64
	users  map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.Username]; ok {
		return model.ErrUsernameTaken
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	for name, u := range f.users {
		if u.ID == id {
			delete(f.users, name)
			return nil
		}
	}
	return nil
}

type fakeGroupRepo struct {
	groups []model.Group
}

func (f *fakeGroupRepo) Create(ctx context.Context, group *model.Group) error {
	for _, g := range f.groups {
		if g.Slug == group.Slug {
			return model.ErrGroupSlugTaken
		}
	}
	group.ID = int64(len(f.groups) + 1)
	f.groups = append(f.groups, *group)
	return nil
}

func (f *fakeGroupRepo) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	for i := range f.groups {
		if f.groups[i].Slug == slug {
			g := f.groups[i]
			return &g, nil
		}
	}
	return nil, model.ErrGroupNotFound
}

func (f *fakeGroupRepo) List(ctx context.Context) ([]model.Group, error) {
	return append([]model.Group{}, f.groups...), nil
}

func (f *fakeGroupRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type fakePostRepo struct {
	users   *fakeUserRepo
	follows *fakeFollowRepo
	posts   []*model.Post
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	post.ID = int64(len(f.posts) + 1)
	post.PubDate = time.Now()
	f.posts = append(f.posts, post)
	return nil
}

func (f *fakePostRepo) GetByAuthorAndID(ctx context.Context, username string, postID int64) (*model.Post, error) {
	for _, p := range f.posts {
		if p.ID == postID && f.username(p.AuthorID) == username {
			return f.withJoins(p), nil
		}
	}
	return nil, model.ErrPostNotFound
}

func (f *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	for _, p := range f.posts {
		if p.ID == post.ID {
			p.Text = post.Text
			p.GroupID = post.GroupID
			p.ImageURL = post.ImageURL
			return nil
		}
	}
	return model.ErrPostNotFound
}

func (f *fakePostRepo) CountAll(ctx context.Context) (int, error) {
	return len(f.posts), nil
}

func (f *fakePostRepo) ListPage(ctx context.Context, limit, offset int) ([]model.Post, error) {
	return f.page(func(*model.Post) bool { return true }, limit, offset), nil
}

func (f *fakePostRepo) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	return len(f.page(func(p *model.Post) bool { return p.GroupID != nil && *p.GroupID == groupID }, len(f.posts), 0)), nil
}

func (f *fakePostRepo) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]model.Post, error) {
	return f.page(func(p *model.Post) bool { return p.GroupID != nil && *p.GroupID == groupID }, limit, offset), nil
}

func (f *fakePostRepo) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	return len(f.page(func(p *model.Post) bool { return p.AuthorID == authorID }, len(f.posts), 0)), nil
}

func (f *fakePostRepo) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]model.Post, error) {
	return f.page(func(p *model.Post) bool { return p.AuthorID == authorID }, limit, offset), nil
}

func (f *fakePostRepo) CountFeed(ctx context.Context, userID int64) (int, error) {
	return len(f.page(f.followedBy(userID), len(f.posts), 0)), nil
}

func (f *fakePostRepo) ListFeed(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	return f.page(f.followedBy(userID), limit, offset), nil
}

// followedBy keeps posts whose author the user follows, mirroring the
// follows join the real repository does in SQL.
func (f *fakePostRepo) followedBy(userID int64) func(*model.Post) bool {
	return func(p *model.Post) bool {
		return f.follows.edges[edge{userID, p.AuthorID}]
	}
}

// page filters and windows the stored posts newest first.
func (f *fakePostRepo) page(keep func(*model.Post) bool, limit, offset int) []model.Post {
	matched := []model.Post{}
	for i := len(f.posts) - 1; i >= 0; i-- {
		if keep(f.posts[i]) {
			matched = append(matched, *f.withJoins(f.posts[i]))
		}
	}
	if offset >= len(matched) {
		return []model.Post{}
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched
}

func (f *fakePostRepo) withJoins(p *model.Post) *model.Post {
	joined := *p
	joined.AuthorUsername = f.username(p.AuthorID)
	return &joined
}

func (f *fakePostRepo) username(authorID int64) string {
	for _, u := range f.users.users {
		if u.ID == authorID {
			return u.Username
		}
	}
	return ""
}

type fakeCommentRepo struct {
	comments []*model.Comment
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = int64(len(f.comments) + 1)
	comment.Created = time.Now()
	f.comments = append(f.comments, comment)
	return nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	out := []model.Comment{}
	for i := len(f.comments) - 1; i >= 0; i-- {
		if f.comments[i].PostID == postID {
			out = append(out, *f.comments[i])
		}
	}
	return out, nil
}

type edge struct {
	UserID   int64
	AuthorID int64
}

type fakeFollowRepo struct {
	edges map[edge]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: map[edge]bool{}}
}

func (f *fakeFollowRepo) Create(ctx context.Context, userID, authorID int64) (bool, error) {
	e := edge{userID, authorID}
	if f.edges[e] {
		return false, nil
	}
	f.edges[e] = true
	return true, nil
}

func (f *fakeFollowRepo) Delete(ctx context.Context, userID, authorID int64) error {
	delete(f.edges, edge{userID, authorID})
	return nil
}

func (f *fakeFollowRepo) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	return f.edges[edge{userID, authorID}], nil
}

func (f *fakeFollowRepo) CountFollowers(ctx context.Context, authorID int64) (int, error) {
	n := 0
	for e := range f.edges {
		if e.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

type testApp struct {
	router   http.Handler
	users    *fakeUserRepo
	groups   *fakeGroupRepo
	posts    *fakePostRepo
	comments *fakeCommentRepo
	follows  *fakeFollowRepo
	auth     *service.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	rnd, err := render.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	users := newFakeUserRepo()
	groups := &fakeGroupRepo{}
	follows := newFakeFollowRepo()
	posts := &fakePostRepo{users: users, follows: follows}
	comments := &fakeCommentRepo{}

	userSvc := service.NewUserService(users)
	authSvc := service.NewAuthService(testJWTSecret, 3600)
	postSvc := service.NewPostService(posts, users, 10)
	groupSvc := service.NewGroupService(groups)
	commentSvc := service.NewCommentService(comments)
	followSvc := service.NewFollowService(follows, users)

	router := transport.NewRouter(transport.RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userSvc, authSvc, rnd),
		PostHandler:    handler.NewPostHandler(postSvc, groupSvc, commentSvc, nil, rnd),
		GroupHandler:   handler.NewGroupHandler(groupSvc, postSvc, rnd),
		ProfileHandler: handler.NewProfileHandler(postSvc, followSvc, rnd),
		CommentHandler: handler.NewCommentHandler(postSvc, commentSvc, rnd),
		FollowHandler:  handler.NewFollowHandler(postSvc, followSvc, rnd),
		Renderer:       rnd,
		JWTSecret:      testJWTSecret,
	})

	return &testApp{
		router:   router,
		users:    users,
		groups:   groups,
		posts:    posts,
		comments: comments,
		follows:  follows,
		auth:     authSvc,
	}
}

// createUser registers an account directly in the fake store.
func (a *testApp) createUser(t *testing.T, username string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &model.User{Username: username, PasswordHash: string(hash)}
	if err := a.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (a *testApp) createPost(t *testing.T, author *model.User, text string) *model.Post {
	t.Helper()

	post := &model.Post{AuthorID: author.ID, Text: text}
	if err := a.posts.Create(context.Background(), post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// sessionCookie mints a valid session cookie for the user.
func (a *testApp) sessionCookie(t *testing.T, user *model.User) *http.Cookie {
	t.Helper()

	token, err := a.auth.IssueToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return a.auth.SessionCookie(token)
}

// get performs a GET request through the router.
func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// postMultipart performs a multipart POST carrying form fields and one file.
func (a *testApp) postMultipart(t *testing.T, path string, fields map[string]string, fileField, filename string, fileBody []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	part, err := mw.CreateFormFile(fileField, filename)
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	if _, err := part.Write(fileBody); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// postForm performs a form-encoded POST request through the router.
func (a *testApp) postForm(path string, values url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}
