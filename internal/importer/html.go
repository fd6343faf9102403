// Package importer reads bookmark files back into recipe ids.
package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Entry is one link of a Netscape bookmark file.
type Entry struct {
	RecipeID  string // "" when the link was not exported by forkify
	Title     string
	URL       string
	Folder    string // innermost folder name, "" at the root
	CreatedAt time.Time
}

// ParseHTMLBookmarks parses Netscape bookmark HTML and returns its links
// in document order. idAttr names the attribute carrying the recipe id.
//
// A folder is an <H3> followed by the <DL> holding its links; the
// parser nests that <DL> next to the heading inside the folder's <DT>.
func ParseHTMLBookmarks(r io.Reader, idAttr string) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	// Attribute names are lowercased by the parser.
	idAttr = strings.ToLower(idAttr)

	var entries []Entry
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		id := a.AttrOr(idAttr, "")
		if href == "" && id == "" {
			return
		}

		title := strings.TrimSpace(a.Text())
		if title == "" {
			title = href
		}

		var createdAt time.Time
		if ts, err := strconv.ParseInt(a.AttrOr("add_date", ""), 10, 64); err == nil {
			createdAt = time.Unix(ts, 0)
		}

		entries = append(entries, Entry{
			RecipeID:  id,
			Title:     title,
			URL:       href,
			Folder:    folderOf(a),
			CreatedAt: createdAt,
		})
	})
	return entries, nil
}

// folderOf returns the heading of the list a link sits in.
func folderOf(link *goquery.Selection) string {
	heading := link.Closest("dl").PrevAllFiltered("h3").First()
	return strings.TrimSpace(heading.Text())
}

// RecipeIDs returns the recipe ids of the entries, skipping foreign links.
func RecipeIDs(entries []Entry) []string {
	var ids []string
	for _, e := range entries {
		if e.RecipeID != "" {
			ids = append(ids, e.RecipeID)
		}
	}
	return ids
}
