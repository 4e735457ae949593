package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Phrases that bot-protection interstitials and CAPTCHA pages tend to carry.
// CAPTCHA wording weighs more than generic blocking language.
var (
	botWallPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)access denied`),
		regexp.MustCompile(`(?i)bot detected`),
		regexp.MustCompile(`(?i)security check`),
		regexp.MustCompile(`(?i)checking your browser`),
		regexp.MustCompile(`(?i)ddos protection`),
		regexp.MustCompile(`(?i)too many requests`),
		regexp.MustCompile(`(?i)unfortunately we are unable`),
	}
	captchaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)captcha`),
		regexp.MustCompile(`(?i)verify you are human`),
		regexp.MustCompile(`(?i)select all images`),
	}
)

const botWallThreshold = 0.5

// looksLikeBotWall scores the fetched document for bot-protection wording.
// It only runs after extraction found nothing, to distinguish "page has no
// price" from "we never saw the real page".
func looksLikeBotWall(doc *goquery.Document) bool {
	title := doc.Find("title").First().Text()
	body := doc.Find("body").Text()
	content := strings.ToLower(title + " " + body)

	score := 0.0
	for _, pattern := range captchaPatterns {
		if pattern.MatchString(content) {
			score += 0.5
		}
	}
	for _, pattern := range botWallPatterns {
		if pattern.MatchString(content) {
			score += 0.3
		}
	}

	// Interstitials are short; a near-empty page with any indicator is
	// almost certainly one.
	if len(content) < 1000 && score > 0 {
		score += 0.2
	}

	return score >= botWallThreshold
}
