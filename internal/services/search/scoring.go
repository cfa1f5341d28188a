package search

import (
	"math"
	"strings"
	"time"

	"github.com/killallgit/blog-api/internal/models"
)

// Scoring weights. Exact title and tag matches dominate by design; the
// engagement contribution is capped so raw traffic cannot drown out textual
// relevance.
const (
	titlePhraseBonus   = 15.0
	titleTermBonus     = 8.0
	excerptPhraseBonus = 8.0
	excerptTermBonus   = 4.0
	contentPhraseBonus = 5.0
	contentTermBonus   = 2.0
	tagMatchBonus      = 12.0
	featuredPostBonus  = 5.0
	engagementCap      = 8.0
	undatedPenalty     = 5.0
)

// RelevanceScore scores a single post against a raw query and the request's
// tag set. Used on the fallback path and as the ranking function whenever no
// full-text index is available.
func RelevanceScore(post *models.Post, query string, tags []string, now time.Time) float64 {
	if strings.TrimSpace(query) == "" {
		return 0
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))
	terms := ParseQuery(query)

	title := strings.ToLower(post.Title)
	excerpt := strings.ToLower(post.Excerpt)
	content := strings.ToLower(post.Content)

	score := 0.0

	// Title matches carry the highest weight, with an exact-phrase bonus.
	if strings.Contains(title, queryLower) {
		score += titlePhraseBonus
	} else {
		for _, term := range terms {
			if strings.Contains(title, term) {
				score += titleTermBonus
			}
		}
	}

	if excerpt != "" && strings.Contains(excerpt, queryLower) {
		score += excerptPhraseBonus
	} else {
		for _, term := range terms {
			if excerpt != "" && strings.Contains(excerpt, term) {
				score += excerptTermBonus
			}
		}
	}

	if content != "" && strings.Contains(content, queryLower) {
		score += contentPhraseBonus
	} else {
		for _, term := range terms {
			if content != "" && strings.Contains(content, term) {
				score += contentTermBonus
			}
		}
	}

	for _, tag := range tags {
		if post.Tags.Contains(tag) {
			score += tagMatchBonus
		}
	}

	switch post.Section {
	case models.SectionFeatured:
		score += 3
	case models.SectionPopular:
		score += 2
	}

	// Recency boost caps out after 10 days. Drafts should never reach the
	// scorer, but an undated post must not crash it.
	if days := post.DaysSincePublished(now); days >= 0 {
		score += math.Max(0, 10-days) * 0.5
	} else {
		score -= undatedPenalty
	}

	engagement := float64(post.ViewCount)*0.01 +
		float64(post.LikeCount)*0.1 +
		float64(post.CommentCount)*0.2
	score += math.Min(engagement, engagementCap)

	if post.IsFeatured {
		score += featuredPostBonus
	}

	return round2(score)
}

// MatchedTerms reports which parsed query terms appear in the post's title,
// excerpt or content. Order follows the parse order of the query.
func MatchedTerms(post *models.Post, query string) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	title := strings.ToLower(post.Title)
	excerpt := strings.ToLower(post.Excerpt)
	content := strings.ToLower(post.Content)

	var matched []string
	for _, term := range ParseQuery(query) {
		if strings.Contains(title, term) ||
			(excerpt != "" && strings.Contains(excerpt, term)) ||
			(content != "" && strings.Contains(content, term)) {
			matched = append(matched, term)
		}
	}
	return matched
}

// PopularityScore ranks posts for browse mode (empty query), where there is
// no textual relevance to compute. Editorial priority and featured status
// outweigh raw engagement.
func PopularityScore(post *models.Post, now time.Time) float64 {
	score := float64(post.ViewCount)*0.01 +
		float64(post.LikeCount)*0.1 +
		float64(post.CommentCount)*0.2 +
		float64(post.ShareCount)*0.3

	if days := post.DaysSincePublished(now); days >= 0 {
		score += math.Max(0, 30-days)
	} else {
		score -= 10
	}

	if post.IsFeatured {
		score += 20
	}
	score += float64(post.Priority) * 2

	return round2(score)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
