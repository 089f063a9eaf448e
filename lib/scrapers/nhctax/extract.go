package nhctax

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"time"

	"nhctax-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	noResultsText  = regexp.MustCompile(`(?i)no.*records.*found|no.*results`)
	attributeKey   = regexp.MustCompile(`[^a-z0-9]+`)
	detailSections = []string{"assessment", "ownership", "property", "tax", "legal"}
)

const sectionTextLimit = 500

func extractFormToken(body []byte) (formToken, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return formToken{}, err
	}

	viewState := doc.Find("input[name='__VIEWSTATE']")
	if viewState.Length() == 0 {
		return formToken{}, ErrTokenExtraction
	}

	// __EVENTVALIDATION is not present on every page revision
	return formToken{
		ViewState:       viewState.AttrOr("value", ""),
		EventValidation: doc.Find("input[name='__EVENTVALIDATION']").AttrOr("value", ""),
	}, nil
}

// locates the results table by its known markers rather than by
// position, so layout drift that preserves the markers keeps working
func findResultsTable(doc *goquery.Document) *goquery.Selection {
	table := doc.Find("table.SearchResults").First()
	if table.Length() > 0 {
		return table
	}
	table = doc.Find("table#SearchResults").First()
	if table.Length() > 0 {
		return table
	}

	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class := strings.ToLower(s.AttrOr("class", ""))
		summary := strings.ToLower(s.AttrOr("summary", ""))
		if strings.Contains(class, "result") || strings.Contains(summary, "search results") {
			found = s
			return false
		}
		return true
	})
	return found
}

// ParseSearchResults extracts property rows from a search response in
// document order, truncated to maxResults. Zero rows is a valid
// result; a page with neither a results table nor a "no records"
// message yields ErrExtractionFailed.
func ParseSearchResults(body []byte, base *url.URL, maxResults int) ([]PropertyRecord, bool, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}

	table := findResultsTable(doc)
	if table == nil || table.Length() == 0 {
		if noResultsText.MatchString(doc.Text()) {
			return nil, false, nil
		}
		return nil, false, ErrExtractionFailed
	}

	now := time.Now().UTC()
	var records []PropertyRecord
	truncated := false

	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i == 0 {
			// header row
			return true
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}

		record := PropertyRecord{
			ParcelID:        htmlutil.CleanText(cells.Eq(0).Text()),
			OwnerName:       htmlutil.CleanText(cells.Eq(1).Text()),
			SearchTimestamp: now,
		}
		if record.ParcelID == "" {
			return true
		}
		if cells.Length() >= 3 {
			record.PropertyAddress = htmlutil.CleanText(cells.Eq(2).Text())
		}
		if cells.Length() >= 4 {
			record.TaxValue = htmlutil.CleanText(cells.Eq(3).Text())
		}
		if href := row.Find("a[href]").First().AttrOr("href", ""); href != "" {
			record.DetailURL = resolveLink(base, href)
		}

		if maxResults > 0 && len(records) == maxResults {
			truncated = true
			return false
		}
		records = append(records, record)
		return true
	})

	return records, truncated, nil
}

func resolveLink(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return href
	}
	return resolved.String()
}

// ParseDetail turns every two-cell table row of a detail page into a
// key/value attribute, plus a capped text summary per known section.
func ParseDetail(body []byte) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	attributes := map[string]string{}
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() != 2 {
			return
		}
		key := normalizeAttributeKey(cells.Eq(0).Text())
		val := htmlutil.CleanText(cells.Eq(1).Text())
		if key == "" || val == "" {
			return
		}
		attributes[key] = val
	})

	doc.Find("div[class]").Each(func(_ int, div *goquery.Selection) {
		class := strings.ToLower(div.AttrOr("class", ""))
		for _, section := range detailSections {
			if !strings.Contains(class, section) {
				continue
			}
			key := section + "_info"
			if _, seen := attributes[key]; seen {
				continue
			}
			text := htmlutil.CleanText(div.Text())
			if text == "" {
				continue
			}
			if len(text) > sectionTextLimit {
				text = text[:sectionTextLimit]
			}
			attributes[key] = text
		}
	})

	if len(attributes) == 0 {
		return nil, ErrExtractionFailed
	}
	return attributes, nil
}

// ParseStatus reads the availability markers off the portal home page.
func ParseStatus(body []byte) (maintenance bool, expectedContent bool) {
	content := strings.ToLower(string(body))
	maintenance = strings.Contains(content, "maintenance")
	expectedContent = strings.Contains(content, "property") &&
		(strings.Contains(content, "tax") || strings.Contains(content, "search"))
	return maintenance, expectedContent
}

func normalizeAttributeKey(s string) string {
	s = strings.ToLower(htmlutil.CleanText(s))
	s = strings.TrimSuffix(s, ":")
	s = attributeKey.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
