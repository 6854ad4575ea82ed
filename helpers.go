package cleanblog

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// DateLayout is how post dates are stored and shown, e.g. "August 24, 2024".
const DateLayout = "January 02, 2006"

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a stored post date. Posts imported from elsewhere may
// carry ISO dates, so those are accepted too.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// PostPath returns the detail path of post id.
func PostPath(id uint) string {
	return fmt.Sprintf("/post/%d", id)
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	return u.String()
}

// PostURL returns the absolute URL of a post.
func PostURL(base string, id uint) string {
	return BuildURL(base, "post", strconv.FormatUint(uint64(id), 10))
}

var bodyPolicy = bluemonday.UGCPolicy()

// BodyHTML renders a post body for display. Bodies come from a rich-text
// editor as HTML, or as Markdown; both pass through the UGC sanitizer.
func BodyHTML(body string) template.HTML {
	raw := blackfriday.Run([]byte(body))
	return template.HTML(bodyPolicy.SanitizeBytes(raw))
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post PostView, cfg SiteConfig) string {
	postURL := PostURL(cfg.URL, post.ID)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    post.Title,
		"description": post.Subtitle,
		"url":         postURL,
		"image":       post.ImgURL,
		"author": map[string]string{
			"@type": "Person",
			"name":  post.AuthorName(),
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if t, err := ParseDate(post.Date); err == nil {
		data["datePublished"] = t.Format("2006-01-02")
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
