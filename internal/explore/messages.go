package explore

import (
	"fmt"

	"github.com/ayush/exploring-space/internal/content"
)

var (
	messageAdjectives = []string{
		"breathtaking", "mysterious", "awe-inspiring", "enigmatic",
		"mesmerizing", "extraordinary", "remarkable", "astounding",
		"captivating", "spectacular", "phenomenal", "incredible",
		"striking", "marvelous", "fantastic", "wondrous",
	}
	messageNouns = []string{
		"cosmic phenomena", "celestial wonders", "stellar formations",
		"galactic marvels", "astronomical curiosities", "interstellar mysteries",
		"extraterrestrial anomalies", "universal spectacles", "orbital oddities",
		"cosmic curiosities", "heavenly spectacles", "stellar phenomena",
	}
	messageActions = []string{
		"Decrypting", "Unraveling", "Decoding", "Interpreting",
		"Investigating", "Analyzing", "Examining", "Probing",
		"Exploring", "Scanning", "Researching", "Studying",
		"Delving into", "Uncovering", "Revealing", "Discovering",
	}
)

// messageTemplate renders a message; or is the query, or a default word when
// the query is blank.
type messageTemplate func(action, adj, noun string, or func(string) string) string

var messageTemplates = []messageTemplate{
	func(a, adj, n string, _ func(string) string) string { return fmt.Sprintf("%s %s %s...", a, adj, n) },
	func(a, adj, _ string, or func(string) string) string {
		return fmt.Sprintf("%s the %s depths of %s...", a, adj, or("the cosmos"))
	},
	func(_, adj, _ string, or func(string) string) string {
		return fmt.Sprintf("Navigating through %s %s territories...", adj, or("astronomical"))
	},
	func(_, _, n string, or func(string) string) string {
		return fmt.Sprintf("Unlocking secrets of %s %s...", or("celestial"), n)
	},
	func(_, adj, _ string, or func(string) string) string {
		return fmt.Sprintf("Revealing %s aspects of %s...", adj, or("space"))
	},
	func(_, adj, _ string, or func(string) string) string {
		return fmt.Sprintf("Venturing into %s %s realms...", adj, or("interstellar"))
	},
	func(_, adj, _ string, or func(string) string) string {
		return fmt.Sprintf("Interpreting %s %s signals...", adj, or("cosmic"))
	},
	func(_, adj, _ string, or func(string) string) string {
		return fmt.Sprintf("Cataloging %s %s formations...", adj, or("stellar"))
	},
	func(_, adj, _ string, or func(string) string) string {
		return fmt.Sprintf("Traversing the %s %s landscape...", adj, or("galactic"))
	},
	func(_, adj, _ string, or func(string) string) string {
		return fmt.Sprintf("Analyzing %s %s patterns...", adj, or("celestial"))
	},
}

// LoadingMessage composes a cosmetic progress line for query.
func LoadingMessage(r content.Rand, query string) string {
	or := func(def string) string {
		if query == "" {
			return def
		}
		return query
	}
	tpl := content.Pick(r, messageTemplates)
	return tpl(content.Pick(r, messageActions), content.Pick(r, messageAdjectives), content.Pick(r, messageNouns), or)
}
