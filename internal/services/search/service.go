package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/killallgit/blog-api/internal/models"
)

// Default tuning knobs. The over-fetch bounds how many extra index rows are
// pulled to survive in-memory post-filtering.
const (
	DefaultOverFetch        = 50
	DefaultAnalyticsTimeout = 5 * time.Second
)

// Static discovery hints served when no posts qualify yet.
var (
	defaultPopularSearches = []string{"ai", "startup", "innovation", "business", "technology"}
	defaultTrendingTopics  = []string{"artificial intelligence", "blockchain", "web development", "startup funding", "digital transformation"}
)

// Service orchestrates post search: it chooses between the indexed path and
// the filter-and-score fallback, paginates, and logs analytics. Stateless
// between invocations; safe for concurrent use.
type Service struct {
	posts            PostSource
	analytics        AnalyticsSink
	overFetch        int
	analyticsTimeout time.Duration
}

// Ensure Service implements the SearchService interface
var _ SearchService = (*Service)(nil)

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*Service)

// WithOverFetch sets how many extra candidates the indexed path requests
// beyond the page to allow for post-filtering.
func WithOverFetch(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.overFetch = n
		}
	}
}

// WithAnalyticsTimeout bounds the background analytics write.
func WithAnalyticsTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.analyticsTimeout = timeout
		}
	}
}

// NewService creates a search service. The analytics sink may be nil, in
// which case no analytics are recorded.
func NewService(posts PostSource, analytics AnalyticsSink, opts ...ServiceOption) *Service {
	s := &Service{
		posts:            posts,
		analytics:        analytics,
		overFetch:        DefaultOverFetch,
		analyticsTimeout: DefaultAnalyticsTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search executes one search request end to end.
func (s *Service) Search(ctx context.Context, req models.SearchRequest, requester Requester) (*models.SearchResponse, error) {
	start := time.Now()
	req.Normalize()

	query := strings.TrimSpace(req.Query)
	match := BuildMatchQuery(ParseQuery(query))

	var (
		results []models.SearchResult
		total   int
		err     error
	)

	if query != "" && match != "" {
		results, total, err = s.searchIndexed(ctx, req, match)
		if err != nil {
			// The index being missing or malformed is recoverable; the
			// caller never sees it.
			log.Printf("[WARN] Indexed search unavailable, using fallback: %v", err)
			results, total, err = s.searchFallback(ctx, req)
		}
	} else {
		results, total, err = s.searchFallback(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("searching posts: %w", err)
	}

	response := &models.SearchResponse{
		Results: results,
		Total:   total,
		Query:   req.Query,
		FiltersApplied: models.SearchFilters{
			Section: req.Section,
			Tags:    req.Tags,
			Sort:    req.Sort,
		},
		SearchTime: round3(time.Since(start).Seconds()),
	}

	s.dispatchAnalytics(ctx, req, response, requester)

	return response, nil
}

// searchIndexed runs the query through the repository's full-text index,
// over-fetching so that section/tag filters can be applied in memory.
func (s *Service) searchIndexed(ctx context.Context, req models.SearchRequest, match string) ([]models.SearchResult, int, error) {
	candidates, err := s.posts.FullTextSearch(ctx, match, req.Offset+req.Limit+s.overFetch)
	if err != nil {
		return nil, 0, err
	}

	filtered := candidates[:0]
	for _, c := range candidates {
		if req.Section != "" && c.Post.Section != req.Section {
			continue
		}
		if len(req.Tags) > 0 && !hasAnyTag(&c.Post, req.Tags) {
			continue
		}
		filtered = append(filtered, c)
	}

	total := len(filtered)
	page := paginateScored(filtered, req.Offset, req.Limit)

	results := make([]models.SearchResult, 0, len(page))
	for _, c := range page {
		results = append(results, buildResult(&c.Post, round2(c.Score), MatchedTerms(&c.Post, req.Query)))
	}
	return results, total, nil
}

// searchFallback fetches eligible posts with filters applied at the
// repository, narrows them to textual matches and ranks them with the
// relevance engine. Also serves browse mode (empty query).
func (s *Service) searchFallback(ctx context.Context, req models.SearchRequest) ([]models.SearchResult, int, error) {
	posts, err := s.posts.FindEligible(ctx, PostFilters{Section: req.Section, Tags: req.Tags})
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	query := strings.TrimSpace(req.Query)

	// Queries whose tokens are all dropped by the tokenizer (too short,
	// stop words) apply no text filter, same as browse mode.
	if terms := ParseQuery(query); len(terms) > 0 {
		filtered := posts[:0]
		for i := range posts {
			if matchesAllTerms(&posts[i], terms) {
				filtered = append(filtered, posts[i])
			}
		}
		posts = filtered
	}

	scores := make(map[uint]float64, len(posts))
	for i := range posts {
		if query != "" {
			scores[posts[i].ID] = RelevanceScore(&posts[i], req.Query, req.Tags, now)
		} else {
			scores[posts[i].ID] = PopularityScore(&posts[i], now)
		}
	}

	sortPosts(posts, req.Sort, query != "", scores)

	total := len(posts)
	page := paginatePosts(posts, req.Offset, req.Limit)

	results := make([]models.SearchResult, 0, len(page))
	for i := range page {
		results = append(results, buildResult(&page[i], scores[page[i].ID], MatchedTerms(&page[i], query)))
	}
	return results, total, nil
}

// sortPosts orders candidates in place. Ties break on post ID so pagination
// is stable across calls.
func sortPosts(posts []models.Post, mode string, hasQuery bool, scores map[uint]float64) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := &posts[i], &posts[j]
		switch mode {
		case models.SortRecent:
			if !publishedEqual(a, b) {
				return publishedAfter(a, b)
			}
		case models.SortPopular:
			pa := a.ViewCount + a.LikeCount*2
			pb := b.ViewCount + b.LikeCount*2
			if pa != pb {
				return pa > pb
			}
		default: // relevance
			if hasQuery {
				if scores[a.ID] != scores[b.ID] {
					return scores[a.ID] > scores[b.ID]
				}
			} else {
				if a.IsFeatured != b.IsFeatured {
					return a.IsFeatured
				}
				if a.Priority != b.Priority {
					return a.Priority > b.Priority
				}
				if !publishedEqual(a, b) {
					return publishedAfter(a, b)
				}
			}
		}
		return a.ID < b.ID
	})
}

// Suggestions builds autocomplete candidates from post titles and tags, plus
// popular and trending title lists.
func (s *Service) Suggestions(ctx context.Context, partial string, limit int) (*models.SearchSuggestions, error) {
	if limit <= 0 {
		limit = 5
	}

	suggestions := []string{}
	prefix := strings.ToLower(strings.TrimSpace(partial))
	if prefix != "" {
		posts, err := s.posts.FindEligible(ctx, PostFilters{})
		if err != nil {
			return nil, fmt.Errorf("loading posts for suggestions: %w", err)
		}

		seen := make(map[string]struct{})
		add := func(token string) {
			if len(suggestions) >= limit {
				return
			}
			if _, dup := seen[token]; dup {
				return
			}
			seen[token] = struct{}{}
			suggestions = append(suggestions, token)
		}

		for i := range posts {
			for _, word := range strings.Fields(strings.ToLower(posts[i].Title)) {
				if len(word) > 2 && strings.HasPrefix(word, prefix) {
					add(word)
				}
			}
			for _, tag := range posts[i].Tags {
				tag = strings.ToLower(tag)
				if strings.HasPrefix(tag, prefix) {
					add(tag)
				}
			}
		}
	}

	return &models.SearchSuggestions{
		Suggestions: suggestions,
		Popular:     s.popularTitles(ctx, limit),
		Trending:    s.trendingTitles(ctx, limit),
	}, nil
}

// Filters returns the section vocabulary, tag usage counts and per-section
// post counts for search UIs.
func (s *Service) Filters(ctx context.Context) (*models.FilterOptions, error) {
	sections := models.Sections()

	sectionCounts := make(map[string]int, len(sections))
	for _, section := range sections {
		count, err := s.posts.CountBySection(ctx, section)
		if err != nil {
			return nil, fmt.Errorf("counting posts in section %q: %w", section, err)
		}
		sectionCounts[section] = int(count)
	}

	tags, err := s.posts.TagCounts(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("counting tags: %w", err)
	}
	if tags == nil {
		tags = []models.TagCount{}
	}

	return &models.FilterOptions{
		Sections:      sections,
		Tags:          tags,
		SectionCounts: sectionCounts,
	}, nil
}

// TrendingTopics returns titles of recently published high-traffic posts.
func (s *Service) TrendingTopics(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.trendingTitles(ctx, limit), nil
}

// popularTitles returns top post titles by all-time views, or the static
// defaults when nothing qualifies.
func (s *Service) popularTitles(ctx context.Context, limit int) []string {
	posts, err := s.posts.TopByViews(ctx, limit)
	if err != nil {
		log.Printf("[WARN] Loading popular posts: %v", err)
		return capList(defaultPopularSearches, limit)
	}
	if len(posts) == 0 {
		return capList(defaultPopularSearches, limit)
	}
	return titlesOf(posts)
}

// trendingTitles returns titles of the most viewed posts from the last
// seven days, or the static defaults when nothing qualifies.
func (s *Service) trendingTitles(ctx context.Context, limit int) []string {
	cutoff := time.Now().AddDate(0, 0, -7)
	posts, err := s.posts.TrendingSince(ctx, cutoff, limit)
	if err != nil {
		log.Printf("[WARN] Loading trending posts: %v", err)
		return capList(defaultTrendingTopics, limit)
	}
	if len(posts) == 0 {
		return capList(defaultTrendingTopics, limit)
	}
	return titlesOf(posts)
}

// dispatchAnalytics records the search fire-and-forget. It must never block
// or fail the response path.
func (s *Service) dispatchAnalytics(ctx context.Context, req models.SearchRequest, resp *models.SearchResponse, requester Requester) {
	if s.analytics == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ERROR] Panic logging search analytics: %v", r)
			}
		}()

		logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.analyticsTimeout)
		defer cancel()

		filtersJSON, err := json.Marshal(resp.FiltersApplied)
		if err != nil {
			log.Printf("[WARN] Encoding search filters for analytics: %v", err)
			filtersJSON = []byte("{}")
		}

		entry := &models.SearchAnalytics{
			Query:          req.Query,
			ResultsCount:   resp.Total,
			FiltersUsed:    string(filtersJSON),
			UserIdentifier: requester.Identifier,
			UserAgent:      requester.UserAgent,
			SearchTime:     resp.SearchTime,
			HasResults:     resp.Total > 0,
		}
		if err := s.analytics.Record(logCtx, entry); err != nil {
			log.Printf("[WARN] Logging search analytics: %v", err)
		}
	}()
}

// PopularDefaults returns the curated popular-search fallback, capped to
// limit. Served when analytics holds no recorded queries yet.
func PopularDefaults(limit int) []string {
	return capList(defaultPopularSearches, limit)
}

// BuildMatchQuery expands parsed terms into an FTS5 match expression:
// prefix wildcards for each term plus quoted bigram phrases over consecutive
// pairs, OR-joined to improve recall. Empty input yields an empty string.
func BuildMatchQuery(terms []string) string {
	if len(terms) == 0 {
		return ""
	}

	parts := make([]string, 0, len(terms)*2-1)
	for _, term := range terms {
		parts = append(parts, term+"*")
	}
	for i := 0; i+1 < len(terms); i++ {
		parts = append(parts, fmt.Sprintf("%q", terms[i]+" "+terms[i+1]))
	}
	return strings.Join(parts, " OR ")
}

// matchesAllTerms reports whether every term appears in the post's title,
// excerpt, content or one of its tags. AND across terms, containment per
// field.
func matchesAllTerms(post *models.Post, terms []string) bool {
	title := strings.ToLower(post.Title)
	excerpt := strings.ToLower(post.Excerpt)
	content := strings.ToLower(post.Content)

	for _, term := range terms {
		if strings.Contains(title, term) ||
			strings.Contains(excerpt, term) ||
			strings.Contains(content, term) {
			continue
		}
		found := false
		for _, tag := range post.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func hasAnyTag(post *models.Post, tags []string) bool {
	for _, tag := range tags {
		if post.Tags.Contains(tag) {
			return true
		}
	}
	return false
}

func buildResult(post *models.Post, score float64, matched []string) models.SearchResult {
	if matched == nil {
		matched = []string{}
	}
	tags := post.Tags
	if tags == nil {
		tags = models.StringList{}
	}
	return models.SearchResult{
		ID:            post.ID,
		Slug:          post.Slug,
		Title:         post.Title,
		Excerpt:       post.Excerpt,
		Section:       post.Section,
		Tags:          tags,
		FeaturedImage: post.FeaturedImage,
		IsFeatured:    post.IsFeatured,
		PublishedAt:   post.PublishedAt,
		ViewCount:     post.ViewCount,
		LikeCount:     post.LikeCount,
		CommentCount:  post.CommentCount,
		Score:         score,
		MatchedTerms:  matched,
	}
}

func paginateScored(items []ScoredPost, offset, limit int) []ScoredPost {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func paginatePosts(items []models.Post, offset, limit int) []models.Post {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func titlesOf(posts []models.Post) []string {
	titles := make([]string, 0, len(posts))
	for i := range posts {
		titles = append(titles, posts[i].Title)
	}
	return titles
}

func capList(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func publishedEqual(a, b *models.Post) bool {
	if a.PublishedAt == nil || b.PublishedAt == nil {
		return a.PublishedAt == b.PublishedAt
	}
	return a.PublishedAt.Equal(*b.PublishedAt)
}

func publishedAfter(a, b *models.Post) bool {
	if a.PublishedAt == nil {
		return false
	}
	if b.PublishedAt == nil {
		return true
	}
	return a.PublishedAt.After(*b.PublishedAt)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
