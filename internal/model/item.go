package model

import (
	"strings"

	"github.com/jomei/notionapi"
)

// WorkItem is one queued row from the source Notion database.
type WorkItem struct {
	PageID     string
	Title      string
	URL        string
	RetryCount int
}

// ItemFromPage builds a WorkItem from a Notion page, reading the title
// property (whichever property carries type "title"), the URL property, and
// the retry counter. Missing or malformed properties degrade to zero values;
// only the page ID is guaranteed.
func ItemFromPage(page notionapi.Page, urlProp, retryProp string) WorkItem {
	item := WorkItem{
		PageID: string(page.ID),
	}

	for _, prop := range page.Properties {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			for _, rt := range tp.Title {
				item.Title += rt.PlainText
			}
			item.Title = strings.TrimSpace(item.Title)
			break
		}
	}

	if prop, ok := page.Properties[urlProp]; ok {
		if up, ok := prop.(*notionapi.URLProperty); ok {
			item.URL = up.URL
		}
	}

	if prop, ok := page.Properties[retryProp]; ok {
		if np, ok := prop.(*notionapi.NumberProperty); ok {
			item.RetryCount = int(np.Number)
		}
	}

	return item
}
