package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/engrsakib/weblog-with-go/models"
)

func newBlogEnv() (*BlogStore, *fakeCollection, *fakeCollection) {
	blogs := newFakeCollection()
	users := newFakeCollection()
	return NewBlogStore(blogs, users), blogs, users
}

func seedUser(t *testing.T, users *fakeCollection) models.User {
	t.Helper()
	user := models.User{
		ID: primitive.NewObjectID(),
		PersonalInfo: models.PersonalInfo{
			Fullname: "Test Writer",
			Username: "testwriter",
		},
		Blogs: []primitive.ObjectID{},
	}
	_, err := users.InsertOne(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestSave_CreatePublished(t *testing.T) {
	store, _, users := newBlogEnv()
	author := seedUser(t, users)
	ctx := context.Background()

	slug, err := store.Save(ctx, author.ID, BlogInput{Title: "Hello Gophers!", Des: "a greeting"})
	require.NoError(t, err)
	assert.Equal(t, "hello-gophers", slug)

	blog, err := store.Get(ctx, slug, false, false)
	require.NoError(t, err)
	assert.False(t, blog.Draft)
	require.NotNil(t, blog.PublishedAt)
	assert.Nil(t, blog.EditedAt)

	// author back-reference
	userDoc := users.findDoc(author.ID)
	refs, _ := userDoc["blogs"].(primitive.A)
	require.Len(t, refs, 1)
	assert.True(t, valuesEqual(refs[0], blog.ID))
}

func TestSave_CreateDraftHasNoPublishedAt(t *testing.T) {
	store, _, users := newBlogEnv()
	author := seedUser(t, users)
	ctx := context.Background()

	slug, err := store.Save(ctx, author.ID, BlogInput{Title: "WIP", Draft: true})
	require.NoError(t, err)

	blog, err := store.Get(ctx, slug, true, true)
	require.NoError(t, err)
	assert.True(t, blog.Draft)
	assert.Nil(t, blog.PublishedAt)
}

// publishedAt is stamped exactly once, on the first draft to published
// transition; later edits only move editedAt.
func TestSave_PublishedAtSetOnce(t *testing.T) {
	store, _, users := newBlogEnv()
	author := seedUser(t, users)
	ctx := context.Background()

	slug, err := store.Save(ctx, author.ID, BlogInput{Title: "Evolving Post", Draft: true})
	require.NoError(t, err)

	_, err = store.Save(ctx, author.ID, BlogInput{ID: slug, Title: "Evolving Post", Draft: false})
	require.NoError(t, err)

	published, err := store.Get(ctx, slug, false, false)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstPublish := *published.PublishedAt

	time.Sleep(5 * time.Millisecond)
	_, err = store.Save(ctx, author.ID, BlogInput{ID: slug, Title: "Evolving Post v2", Draft: false})
	require.NoError(t, err)

	edited, err := store.Get(ctx, slug, false, false)
	require.NoError(t, err)
	require.NotNil(t, edited.PublishedAt)
	assert.True(t, edited.PublishedAt.Equal(firstPublish))
	require.NotNil(t, edited.EditedAt)
	assert.Equal(t, "Evolving Post v2", edited.Title)
}

func TestSave_SlugCollision(t *testing.T) {
	store, _, users := newBlogEnv()
	author := seedUser(t, users)
	ctx := context.Background()

	first, err := store.Save(ctx, author.ID, BlogInput{Title: "Same Title"})
	require.NoError(t, err)
	second, err := store.Save(ctx, author.ID, BlogInput{Title: "Same Title"})
	require.NoError(t, err)

	assert.Equal(t, "same-title", first)
	assert.Equal(t, "same-title-1", second)
}

func TestSave_Validation(t *testing.T) {
	store, _, users := newBlogEnv()
	author := seedUser(t, users)
	ctx := context.Background()

	_, err := store.Save(ctx, author.ID, BlogInput{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	_, err = store.Save(ctx, author.ID, BlogInput{Title: "ok", Des: string(long)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSave_UpdateMissing(t *testing.T) {
	store, _, users := newBlogEnv()
	author := seedUser(t, users)

	_, err := store.Save(context.Background(), author.ID, BlogInput{ID: "no-such-slug", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_AuthorOnly(t *testing.T) {
	store, blogs, users := newBlogEnv()
	author := seedUser(t, users)
	ctx := context.Background()

	slug, err := store.Save(ctx, author.ID, BlogInput{Title: "Mine"})
	require.NoError(t, err)

	err = store.Delete(ctx, slug, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrAuthorization)
	assert.Equal(t, 1, blogs.count())

	require.NoError(t, store.Delete(ctx, slug, author.ID))
	assert.Equal(t, 0, blogs.count())

	userDoc := users.findDoc(author.ID)
	refs, _ := userDoc["blogs"].(primitive.A)
	assert.Empty(t, refs)
}

// Deleting a blog does not cascade: comment rows referencing it survive.
func TestDelete_NoCascade(t *testing.T) {
	store, _, users := newBlogEnv()
	comments := newFakeCollection()
	commentStore := NewCommentStore(comments)
	author := seedUser(t, users)
	ctx := context.Background()

	slug, err := store.Save(ctx, author.ID, BlogInput{Title: "Short Lived"})
	require.NoError(t, err)
	blog, err := store.Get(ctx, slug, false, false)
	require.NoError(t, err)

	_, err = commentStore.Create(ctx, blog.ID, author.ID, primitive.NewObjectID(), "still here", nil)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, slug, author.ID))
	assert.Equal(t, 1, comments.count())
}

func TestGet_EditModeSkipsDraftFilter(t *testing.T) {
	store, _, users := newBlogEnv()
	author := seedUser(t, users)
	ctx := context.Background()

	slug, err := store.Save(ctx, author.ID, BlogInput{Title: "Draft Only", Draft: true})
	require.NoError(t, err)

	_, err = store.Get(ctx, slug, false, false)
	assert.ErrorIs(t, err, ErrNotFound)

	blog, err := store.Get(ctx, slug, false, true)
	require.NoError(t, err)
	assert.Equal(t, slug, blog.BlogID)
}

func seedPublished(t *testing.T, blogs *fakeCollection, title string, reads, likes int64, publishedAt time.Time) models.Blog {
	t.Helper()
	blog := models.Blog{
		ID:     primitive.NewObjectID(),
		BlogID: title,
		Title:  title,
		Author: primitive.NewObjectID(),
		Activity: models.Activity{
			TotalReads: reads,
			TotalLikes: likes,
		},
		Comments:    []primitive.ObjectID{},
		LikedBy:     []primitive.ObjectID{},
		PublishedAt: &publishedAt,
	}
	_, err := blogs.InsertOne(context.Background(), blog)
	require.NoError(t, err)
	return blog
}

// Trending breaks ties by reads, then likes, then publish time.
func TestTrending_TieBreakChain(t *testing.T) {
	store, blogs, _ := newBlogEnv()
	now := time.Now()

	low := seedPublished(t, blogs, "low", 1, 9, now)
	highReads := seedPublished(t, blogs, "high-reads", 10, 0, now.Add(-time.Hour))
	sameReadsMoreLikes := seedPublished(t, blogs, "more-likes", 5, 7, now.Add(-2*time.Hour))
	sameReadsFewerLikesNewer := seedPublished(t, blogs, "newer", 5, 2, now)
	sameAllNewer := seedPublished(t, blogs, "same-all-newer", 5, 2, now.Add(time.Hour))

	got, err := store.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, highReads.ID, got[0].ID)
	assert.Equal(t, sameReadsMoreLikes.ID, got[1].ID)
	assert.Equal(t, sameAllNewer.ID, got[2].ID)
	assert.Equal(t, sameReadsFewerLikesNewer.ID, got[3].ID)
	assert.Equal(t, low.ID, got[4].ID)
}

func TestListLatest_PublishedOnly(t *testing.T) {
	store, blogs, users := newBlogEnv()
	author := seedUser(t, users)
	ctx := context.Background()

	seedPublished(t, blogs, "published", 0, 0, time.Now())
	_, err := store.Save(ctx, author.ID, BlogInput{Title: "a draft", Draft: true})
	require.NoError(t, err)

	got, err := store.ListLatest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "published", got[0].BlogID)

	count, err := store.CountLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSearch_ByTagAndQuery(t *testing.T) {
	store, blogs, _ := newBlogEnv()
	ctx := context.Background()

	goBlog := seedPublished(t, blogs, "all-about-go", 0, 0, time.Now())
	setPath(blogs.findDoc(goBlog.ID), "tags", primitive.A{"golang", "backend"})
	setPath(blogs.findDoc(goBlog.ID), "title", "All About Go")

	other := seedPublished(t, blogs, "cooking", 0, 0, time.Now())
	setPath(blogs.findDoc(other.ID), "tags", primitive.A{"food"})

	byTag, err := store.Search(ctx, SearchQuery{Tag: "golang"}, 1)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, goBlog.ID, byTag[0].ID)

	byQuery, err := store.Search(ctx, SearchQuery{Query: "about go"}, 1)
	require.NoError(t, err)
	require.Len(t, byQuery, 1)

	count, err := store.SearchCount(ctx, SearchQuery{Tag: "golang"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// eliminate_blog drops the named blog from results
	all, err := store.Search(ctx, SearchQuery{EliminateBlog: "all-about-go"}, 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, other.ID, all[0].ID)
}

func TestListByAuthor_DraftFilterAndQuery(t *testing.T) {
	store, _, users := newBlogEnv()
	author := seedUser(t, users)
	ctx := context.Background()

	_, err := store.Save(ctx, author.ID, BlogInput{Title: "Published Words"})
	require.NoError(t, err)
	_, err = store.Save(ctx, author.ID, BlogInput{Title: "Secret Draft", Draft: true})
	require.NoError(t, err)

	all, err := store.ListByAuthor(ctx, AuthorQuery{Author: author.ID}, 1)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	draft := true
	drafts, err := store.ListByAuthor(ctx, AuthorQuery{Author: author.ID, Draft: &draft}, 1)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Secret Draft", drafts[0].Title)

	byTitle, err := store.ListByAuthor(ctx, AuthorQuery{Author: author.ID, Query: "secret"}, 1)
	require.NoError(t, err)
	require.Len(t, byTitle, 1)

	count, err := store.CountByAuthor(ctx, AuthorQuery{Author: author.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDistinctTags(t *testing.T) {
	store, blogs, _ := newBlogEnv()
	ctx := context.Background()

	a := seedPublished(t, blogs, "a", 0, 0, time.Now())
	setPath(blogs.findDoc(a.ID), "tags", primitive.A{"go", "web"})
	b := seedPublished(t, blogs, "b", 0, 0, time.Now())
	setPath(blogs.findDoc(b.ID), "tags", primitive.A{"go", "mongo"})

	tags, err := store.DistinctTags(ctx, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "web", "mongo"}, tags)

	capped, err := store.DistinctTags(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestResolve_Profiles(t *testing.T) {
	users := newFakeCollection()
	resolver := NewUserResolver(users)
	user := seedUser(t, users)
	ctx := context.Background()

	profiles, err := resolver.Resolve(ctx, []primitive.ObjectID{user.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "testwriter", profiles[user.ID].PersonalInfo.Username)

	empty, err := resolver.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
