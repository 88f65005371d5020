package content

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const placeholderBase = "https://source.unsplash.com"

// Placeholder image sizes.
const (
	SizeGallery = "1200x800"
	SizeArticle = "800x600"
)

// PlaceholderURL is the stock-photo query used when no upstream image exists,
// e.g. https://source.unsplash.com/800x600/?black+hole,space.
func PlaceholderURL(size, topic, tag string) string {
	return fmt.Sprintf("%s/%s/?%s,%s", placeholderBase, size, url.QueryEscape(topic), tag)
}

// SlugPlaceholderURL is PlaceholderURL keyed by a detail-page slug, with each
// slug word as its own keyword: black-hole gives ?black,hole,space.
func SlugPlaceholderURL(size, slug, tag string) string {
	if s, err := url.PathUnescape(slug); err == nil {
		slug = s
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		words[i] = url.QueryEscape(w)
	}
	return fmt.Sprintf("%s/%s/?%s,%s", placeholderBase, size, strings.Join(words, ","), tag)
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// TitleCase upper-cases the first letter of every word and keeps the rest.
func TitleCase(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Slug lower-cases topic and joins words with '-'.
func Slug(topic string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(topic)), "-")
}

// TopicFromSlug reverses Slug as far as possible.
func TopicFromSlug(slug string) string {
	if s, err := url.PathUnescape(slug); err == nil {
		slug = s
	}
	return strings.ReplaceAll(slug, "-", " ")
}

// DetailLink builds the detail-page link for an article or gallery image:
// /article/<slug>?imageUrl=<image>.
func DetailLink(topic, imageURL string) string {
	link := "/article/" + url.PathEscape(Slug(topic))
	if imageURL != "" {
		link += "?imageUrl=" + url.QueryEscape(imageURL)
	}
	return link
}
