package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultTableID identifies the salary table on a player page
const DefaultTableID = "br-salaries"

// tableLookup searches one representation of a page for the table with the given id
type tableLookup func(doc *goquery.Document, id string) *goquery.Selection

// Lookups run in order; the first hit wins, so the live table is preferred
// over a copy shipped inside an HTML comment.
var tableLookups = []tableLookup{
	liveTable,
	commentedTable,
}

// LocateTable returns the table with the given id, or nil when the page has none
func LocateTable(doc *goquery.Document, id string) *goquery.Selection {
	if doc == nil {
		return nil
	}
	for _, lookup := range tableLookups {
		if table := lookup(doc, id); table != nil {
			return table
		}
	}
	return nil
}

func liveTable(doc *goquery.Document, id string) *goquery.Selection {
	table := doc.Find(fmt.Sprintf("table[id=%q]", id))
	if table.Length() == 0 {
		return nil
	}
	return table.First()
}

// commentedTable re-parses every comment carrying the id marker as its own
// document and searches it for the table.
func commentedTable(doc *goquery.Document, id string) *goquery.Selection {
	marker := fmt.Sprintf("id=%q", id)

	var found *goquery.Selection
	for _, root := range doc.Nodes {
		walkComments(root, func(n *html.Node) bool {
			if !strings.Contains(n.Data, marker) {
				return true
			}
			fragment, err := goquery.NewDocumentFromReader(strings.NewReader(n.Data))
			if err != nil {
				return true
			}
			found = liveTable(fragment, id)
			return found == nil
		})
		if found != nil {
			break
		}
	}
	return found
}

// walkComments visits comment nodes depth-first until visit returns false
func walkComments(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if n.Type == html.CommentNode && !visit(n) {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if !walkComments(child, visit) {
			return false
		}
	}
	return true
}
