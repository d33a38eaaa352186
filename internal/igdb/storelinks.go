package igdb

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/JoaoGSDC/streamline-app/internal/views"
)

// OfficialSiteName labels a website whose host carries the game's name.
const OfficialSiteName = "Site Oficial"

type storeMatcher struct {
	name  string
	match *regexp.Regexp
}

// Matched against host+path, so that path-scoped stores can be told apart.
var storeMatchers = []storeMatcher{
	{"Steam", regexp.MustCompile(`(?i)^store\.steampowered\.com(/|$)`)},
	{"Epic Games", regexp.MustCompile(`(?i)(^|\.)epicgames\.com(/|$)`)},
	{"GOG", regexp.MustCompile(`(?i)(^|\.)gog\.com(/|$)`)},
	{"PlayStation", regexp.MustCompile(`(?i)^store\.playstation\.com(/|$)`)},
	{"Xbox", regexp.MustCompile(`(?i)(^|\.)xbox\.com(/|$)|(^|\.)microsoft\.com/([a-z]{2}-[a-z]{2}/)?store`)},
	{"Nintendo", regexp.MustCompile(`(?i)(^|\.)nintendo\.com(/|$)|(^|\.)nintendo\.co\.`)},
	{"Battle.net", regexp.MustCompile(`(?i)(^|\.)battle\.net(/|$)`)},
	{"EA", regexp.MustCompile(`(?i)(^|\.)ea\.com(/|$)|(^|\.)origin\.com(/|$)`)},
	{"Ubisoft", regexp.MustCompile(`(?i)(^|\.)ubisoft\.com(/|$)|(^|\.)ubi\.com(/|$)`)},
	{"Riot Games", regexp.MustCompile(`(?i)(^|\.)riotgames\.com(/|$)|(^|\.)leagueoflegends\.com(/|$)`)},
}

var blacklistHost = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(^|\.)wikipedia\.org$`),
	regexp.MustCompile(`(?i)(^|\.)fandom\.com$`),
	regexp.MustCompile(`(?i)(^|\.)(twitter|x)\.com$`),
	regexp.MustCompile(`(?i)(^|\.)(youtube\.com|youtu\.be)$`),
	regexp.MustCompile(`(?i)(^|\.)discord\.(gg|com)$`),
	regexp.MustCompile(`(?i)(^|\.)reddit\.com$`),
	regexp.MustCompile(`(?i)(^|\.)facebook\.com$`),
	regexp.MustCompile(`(?i)(^|\.)instagram\.com$`),
	regexp.MustCompile(`(?i)(^|\.)twitch\.tv$`),
}

var blacklistURL = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwiki\b`),
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func normalizeName(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, rx := range patterns {
		if rx.MatchString(s) {
			return true
		}
	}
	return false
}

// ExtractStoreLinks picks the purchase and official pages out of a game's
// website list. Social networks, wikis and video sites are skipped, store
// pages are labelled with the store name and a site whose host contains the
// game name becomes the official site. Official sites come first, then stores,
// each in input order without duplicates.
func ExtractStoreLinks(urls []string, gameName string) []views.StoreLink {
	name := normalizeName(gameName)

	official := []views.StoreLink{}
	stores := []views.StoreLink{}
	seen := map[string]bool{}

	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		link := raw
		if !strings.HasPrefix(strings.ToLower(link), "http") {
			link = "https://" + strings.TrimLeft(link, "/")
		}

		u, err := url.Parse(link)
		if err != nil || u.Hostname() == "" {
			continue
		}
		host := strings.ToLower(u.Hostname())

		if matchesAny(blacklistHost, host) || matchesAny(blacklistURL, link) {
			continue
		}
		if seen[link] {
			continue
		}

		matched := false
		for _, store := range storeMatchers {
			if store.match.MatchString(host + u.Path) {
				stores = append(stores, views.StoreLink{Name: store.name, URL: link})
				seen[link] = true
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if name != "" && strings.Contains(normalizeName(host), name) {
			official = append(official, views.StoreLink{Name: OfficialSiteName, URL: link})
			seen[link] = true
		}
	}

	return append(official, stores...)
}
