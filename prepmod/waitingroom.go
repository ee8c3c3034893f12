package prepmod

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// WaitingRoomTitle is the <title> of the queue page served instead of
	// search results while the site is overloaded.
	WaitingRoomTitle = "Waiting Room"
	// WaitingRoomSummarySelector locates the human-readable queue status.
	WaitingRoomSummarySelector = "body h1"
)

// WaitingRoom describes a waiting-room page.
type WaitingRoom struct {
	Summary string
}

// DetectWaitingRoom reports whether doc is the waiting-room interstitial and,
// if so, the status line it shows.
func DetectWaitingRoom(doc *goquery.Document) (WaitingRoom, bool) {
	if doc.Find("title").First().Text() != WaitingRoomTitle {
		return WaitingRoom{}, false
	}

	summary := strings.Join(strings.Fields(doc.Find(WaitingRoomSummarySelector).First().Text()), " ")
	if summary == "" {
		summary = WaitingRoomTitle
	}
	return WaitingRoom{Summary: summary}, true
}
