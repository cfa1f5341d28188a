package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/killallgit/blog-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing

type MockPostSource struct {
	mock.Mock
}

func (m *MockPostSource) FindEligible(ctx context.Context, filters PostFilters) ([]models.Post, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostSource) FullTextSearch(ctx context.Context, match string, limit int) ([]ScoredPost, error) {
	args := m.Called(ctx, match, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ScoredPost), args.Error(1)
}

func (m *MockPostSource) TopByViews(ctx context.Context, limit int) ([]models.Post, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostSource) TrendingSince(ctx context.Context, cutoff time.Time, limit int) ([]models.Post, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostSource) CountBySection(ctx context.Context, section string) (int64, error) {
	args := m.Called(ctx, section)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostSource) TagCounts(ctx context.Context, limit int) ([]models.TagCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TagCount), args.Error(1)
}

// captureSink records analytics entries on a channel so tests can wait for
// the background dispatch.
type captureSink struct {
	entries chan *models.SearchAnalytics
	err     error
}

func newCaptureSink() *captureSink {
	return &captureSink{entries: make(chan *models.SearchAnalytics, 1)}
}

func (c *captureSink) Record(ctx context.Context, entry *models.SearchAnalytics) error {
	c.entries <- entry
	return c.err
}

func (c *captureSink) wait(t *testing.T) *models.SearchAnalytics {
	t.Helper()
	select {
	case entry := <-c.entries:
		return entry
	case <-time.After(2 * time.Second):
		t.Fatal("analytics entry was never recorded")
		return nil
	}
}

func testPost(id uint, title, section string, daysAgo int, tags ...string) models.Post {
	published := time.Now().AddDate(0, 0, -daysAgo)
	post := models.Post{
		Slug:        title,
		Title:       title,
		Section:     section,
		Tags:        models.StringList(tags),
		PublishedAt: &published,
	}
	post.ID = id
	return post
}

// Tests

func TestService_Search_IndexedPath(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	candidates := []ScoredPost{
		{Post: testPost(1, "Golang Concurrency Patterns", models.SectionLatest, 1), Score: 4.237},
		{Post: testPost(2, "Golang Error Handling", models.SectionLatest, 3), Score: 2.1},
	}
	source.On("FullTextSearch", mock.Anything, "golang*", 20+DefaultOverFetch).
		Return(candidates, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{Query: "golang"}, Requester{})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, uint(1), resp.Results[0].ID)
	assert.Equal(t, 4.24, resp.Results[0].Score)
	assert.Equal(t, []string{"golang"}, resp.Results[0].MatchedTerms)
	assert.Equal(t, "golang", resp.Query)
	assert.GreaterOrEqual(t, resp.SearchTime, 0.0)

	source.AssertExpectations(t)
	source.AssertNotCalled(t, "FindEligible", mock.Anything, mock.Anything)
}

func TestService_Search_IndexedPathAppliesFilters(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	candidates := []ScoredPost{
		{Post: testPost(1, "Golang Tips", models.SectionLatest, 1, "golang"), Score: 3},
		{Post: testPost(2, "Golang News", models.SectionFeatured, 1, "news"), Score: 2.5},
		{Post: testPost(3, "Golang Tools", models.SectionFeatured, 1, "golang"), Score: 2},
	}
	source.On("FullTextSearch", mock.Anything, mock.Anything, mock.Anything).
		Return(candidates, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{
		Query:   "golang",
		Section: models.SectionFeatured,
		Tags:    []string{"golang"},
	}, Requester{})
	require.NoError(t, err)

	// Only post 3 is both featured and tagged golang
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, uint(3), resp.Results[0].ID)
}

func TestService_Search_FallsBackWhenIndexFails(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	source.On("FullTextSearch", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("no such table: posts_fts"))

	posts := []models.Post{
		testPost(1, "Intro to Golang", models.SectionLatest, 1),
		testPost(2, "Cooking at Home", models.SectionLatest, 1),
	}
	source.On("FindEligible", mock.Anything, PostFilters{}).Return(posts, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{Query: "golang"}, Requester{})
	require.NoError(t, err)

	// The index failure is invisible to the caller; the fallback still
	// restricts results to textual matches
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, uint(1), resp.Results[0].ID)

	source.AssertExpectations(t)
}

func TestService_Search_FallbackDropsNonMatchingPosts(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	source.On("FullTextSearch", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("no such table: posts_fts"))

	post := testPost(1, "AI and Startup Innovation", models.SectionLatest, 1)
	source.On("FindEligible", mock.Anything, PostFilters{}).
		Return([]models.Post{post}, nil)

	// No term of the query appears anywhere in the post
	resp, err := service.Search(context.Background(), models.SearchRequest{Query: "zzz_no_such_term"}, Requester{})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Results)
}

func TestService_Search_FallbackRequiresAllTerms(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	source.On("FullTextSearch", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("no such table: posts_fts"))

	both := testPost(1, "Golang Testing Patterns", models.SectionLatest, 1)
	one := testPost(2, "Golang Release Notes", models.SectionLatest, 1)
	source.On("FindEligible", mock.Anything, PostFilters{}).
		Return([]models.Post{both, one}, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{Query: "golang testing"}, Requester{})
	require.NoError(t, err)

	// Both terms must match; a single-term hit is dropped
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, uint(1), resp.Results[0].ID)
}

func TestService_Search_FallbackMatchesTagText(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	source.On("FullTextSearch", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("no such table: posts_fts"))

	tagged := testPost(1, "Weekly Roundup", models.SectionLatest, 1, "Kubernetes")
	plain := testPost(2, "Weekly Roundup", models.SectionLatest, 1)
	source.On("FindEligible", mock.Anything, PostFilters{}).
		Return([]models.Post{tagged, plain}, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{Query: "kubernetes"}, Requester{})
	require.NoError(t, err)

	// The term matches only through the tag text
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, uint(1), resp.Results[0].ID)
}

func TestService_Search_FallbackSkipsFilterWhenAllTokensDropped(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	source.On("FullTextSearch", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("no such table: posts_fts"))

	post := testPost(1, "AI and Startup Innovation", models.SectionLatest, 1)
	source.On("FindEligible", mock.Anything, PostFilters{}).
		Return([]models.Post{post}, nil)

	// "ai" is dropped by the tokenizer, so no text filter applies; the
	// post still scores on raw substring relevance
	resp, err := service.Search(context.Background(), models.SearchRequest{Query: "ai"}, Requester{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Greater(t, resp.Results[0].Score, 0.0)
}

func TestService_Search_EmptyQueryBrowsesByPopularity(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	featured := testPost(1, "Editors Pick", models.SectionLatest, 5)
	featured.IsFeatured = true
	prioritized := testPost(2, "High Priority", models.SectionLatest, 5)
	prioritized.Priority = 9
	recent := testPost(3, "Fresh Post", models.SectionLatest, 0)

	source.On("FindEligible", mock.Anything, PostFilters{}).
		Return([]models.Post{recent, prioritized, featured}, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{}, Requester{})
	require.NoError(t, err)

	// Featured first, then priority, then recency
	require.Len(t, resp.Results, 3)
	assert.Equal(t, uint(1), resp.Results[0].ID)
	assert.Equal(t, uint(2), resp.Results[1].ID)
	assert.Equal(t, uint(3), resp.Results[2].ID)

	source.AssertNotCalled(t, "FullTextSearch", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Search_SortRecent(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	posts := []models.Post{
		testPost(1, "Old", models.SectionLatest, 10),
		testPost(2, "Newest", models.SectionLatest, 0),
		testPost(3, "Middle", models.SectionLatest, 5),
	}
	source.On("FindEligible", mock.Anything, mock.Anything).Return(posts, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{Sort: models.SortRecent}, Requester{})
	require.NoError(t, err)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, uint(2), resp.Results[0].ID)
	assert.Equal(t, uint(3), resp.Results[1].ID)
	assert.Equal(t, uint(1), resp.Results[2].ID)
}

func TestService_Search_SortPopular(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	quiet := testPost(1, "Quiet", models.SectionLatest, 1)
	quiet.ViewCount = 10
	liked := testPost(2, "Liked", models.SectionLatest, 1)
	liked.ViewCount = 10
	liked.LikeCount = 50 // views + likes*2 = 110
	viewed := testPost(3, "Viewed", models.SectionLatest, 1)
	viewed.ViewCount = 60

	source.On("FindEligible", mock.Anything, mock.Anything).
		Return([]models.Post{quiet, liked, viewed}, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{Sort: models.SortPopular}, Requester{})
	require.NoError(t, err)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, uint(2), resp.Results[0].ID)
	assert.Equal(t, uint(3), resp.Results[1].ID)
	assert.Equal(t, uint(1), resp.Results[2].ID)
}

func TestService_Search_PaginationIsStable(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	// Identical posts force every tiebreak down to the ID
	var posts []models.Post
	for i := uint(1); i <= 5; i++ {
		posts = append(posts, testPost(i, "Same Title", models.SectionLatest, 3))
	}
	source.On("FullTextSearch", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("no such table: posts_fts"))
	source.On("FindEligible", mock.Anything, mock.Anything).Return(posts, nil)

	var collected []uint
	for offset := 0; offset < 6; offset += 2 {
		resp, err := service.Search(context.Background(), models.SearchRequest{
			Query:  "same title",
			Offset: offset,
			Limit:  2,
		}, Requester{})
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Total)
		for _, r := range resp.Results {
			collected = append(collected, r.ID)
		}
	}

	// Pages are disjoint and cover every post exactly once, in ID order
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, collected)
}

func TestService_Search_OffsetPastEnd(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	source.On("FindEligible", mock.Anything, mock.Anything).
		Return([]models.Post{testPost(1, "Only Post", models.SectionLatest, 1)}, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{Offset: 50}, Requester{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Total)
	assert.Empty(t, resp.Results)
}

func TestService_Search_RecordsAnalytics(t *testing.T) {
	source := new(MockPostSource)
	sink := newCaptureSink()
	service := NewService(source, sink)

	source.On("FullTextSearch", mock.Anything, mock.Anything, mock.Anything).
		Return([]ScoredPost{{Post: testPost(1, "Golang Tips", models.SectionLatest, 1), Score: 3}}, nil)

	requester := Requester{Identifier: "10.0.0.1", UserAgent: "test-agent"}
	_, err := service.Search(context.Background(), models.SearchRequest{Query: "golang"}, requester)
	require.NoError(t, err)

	entry := sink.wait(t)
	assert.Equal(t, "golang", entry.Query)
	assert.Equal(t, 1, entry.ResultsCount)
	assert.True(t, entry.HasResults)
	assert.Equal(t, "10.0.0.1", entry.UserIdentifier)
	assert.Equal(t, "test-agent", entry.UserAgent)
	assert.Contains(t, entry.FiltersUsed, `"sort":"relevance"`)
}

func TestService_Search_AnalyticsFailureDoesNotAffectResponse(t *testing.T) {
	source := new(MockPostSource)
	sink := newCaptureSink()
	sink.err = errors.New("analytics table locked")
	service := NewService(source, sink)

	source.On("FindEligible", mock.Anything, mock.Anything).
		Return([]models.Post{testPost(1, "Post", models.SectionLatest, 1)}, nil)

	resp, err := service.Search(context.Background(), models.SearchRequest{}, Requester{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	// The failed write still happened, in the background
	sink.wait(t)
}

func TestService_Suggestions(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	posts := []models.Post{
		testPost(1, "Golang Concurrency", models.SectionLatest, 1, "golang", "concurrency"),
		testPost(2, "Going Serverless", models.SectionLatest, 2, "cloud"),
	}
	source.On("FindEligible", mock.Anything, PostFilters{}).Return(posts, nil)
	source.On("TopByViews", mock.Anything, 5).Return([]models.Post{posts[0]}, nil)
	source.On("TrendingSince", mock.Anything, mock.Anything, 5).Return([]models.Post{posts[1]}, nil)

	suggestions, err := service.Suggestions(context.Background(), "go", 5)
	require.NoError(t, err)

	// Title words and tags with the prefix, first seen first, no duplicates
	assert.Equal(t, []string{"golang", "going"}, suggestions.Suggestions)
	assert.Equal(t, []string{"Golang Concurrency"}, suggestions.Popular)
	assert.Equal(t, []string{"Going Serverless"}, suggestions.Trending)
}

func TestService_Suggestions_EmptyPartial(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	source.On("TopByViews", mock.Anything, 5).Return([]models.Post{}, nil)
	source.On("TrendingSince", mock.Anything, mock.Anything, 5).Return([]models.Post{}, nil)

	suggestions, err := service.Suggestions(context.Background(), "", 5)
	require.NoError(t, err)

	// No prefix scan without a partial; discovery lists fall back to defaults
	assert.Empty(t, suggestions.Suggestions)
	assert.Equal(t, defaultPopularSearches, suggestions.Popular)
	assert.Equal(t, defaultTrendingTopics, suggestions.Trending)

	source.AssertNotCalled(t, "FindEligible", mock.Anything, mock.Anything)
}

func TestService_Filters(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	for _, section := range models.Sections() {
		source.On("CountBySection", mock.Anything, section).Return(int64(2), nil)
	}
	source.On("TagCounts", mock.Anything, 10).
		Return([]models.TagCount{{Tag: "golang", Count: 4}}, nil)

	filters, err := service.Filters(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.Sections(), filters.Sections)
	assert.Equal(t, []models.TagCount{{Tag: "golang", Count: 4}}, filters.Tags)
	for _, section := range models.Sections() {
		assert.Equal(t, 2, filters.SectionCounts[section])
	}
}

func TestService_Filters_EmptyRepository(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	for _, section := range models.Sections() {
		source.On("CountBySection", mock.Anything, section).Return(int64(0), nil)
	}
	source.On("TagCounts", mock.Anything, 10).Return(nil, nil)

	filters, err := service.Filters(context.Background())
	require.NoError(t, err)

	// Tag list is present but empty, never null
	assert.NotNil(t, filters.Tags)
	assert.Empty(t, filters.Tags)
}

func TestService_TrendingTopics_Defaults(t *testing.T) {
	source := new(MockPostSource)
	service := NewService(source, nil)

	source.On("TrendingSince", mock.Anything, mock.Anything, 3).Return([]models.Post{}, nil)

	topics, err := service.TrendingTopics(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, defaultTrendingTopics[:3], topics)
}
