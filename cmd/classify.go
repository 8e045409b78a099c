package main

import (
	"sort"
	"strings"
	"time"
)

// Sentinel location and call-number values used by the DAIA connector.
const (
	callNumberUnknown = "Unknown"
	locationUnknown   = "Unknown"
	locationRara      = "rara"
	locationInternet  = "Internet"
)

// Display labels for copies without a browsable location.
const (
	labelClosedStack     = "Closed Stack"
	labelRara            = "Rara"
	labelSpecialLocation = "Special Location"
)

// Call numbers containing this marker identify copies on order that have
// not arrived yet.
const onOrderMarker = "bestellt"

// Recall timing: a lent copy without a due date is assumed back after 39
// days per outstanding request; every outstanding request then adds 28 days
// of reservation queue.
const (
	recallLoanPeriod    = 39 * 24 * time.Hour
	recallReservePeriod = 28 * 24 * time.Hour
)

// Option is the zero-or-one patron action a single copy offers.
type Option struct {
	Kind     OptionKind
	Location string
	Href     string
	Item     *HoldingItem

	// sort key for recalled copies, soonest-free first
	expectedFree time.Time
}

// classification carries everything the item loop learned about one work.
type classification struct {
	counts  Counts
	options []Option
	recalls []Option

	available        bool
	electronic       bool
	useUnknownStatus bool
	statusNote       string

	callNumbers []string
	locations   []string
	services    []string
	locHref     string
}

// Classify reduces the holding items of one work to aggregate counts and
// the ordered option list the resolver consumes: per-item options in input
// order, recalled copies appended soonest-free first.
func Classify(items []HoldingItem, now time.Time) (Counts, []Option) {
	c := classifyItems(items, now)
	return c.counts, c.allOptions()
}

func classifyItems(items []HoldingItem, now time.Time) *classification {
	c := &classification{}
	c.counts.Total = len(items)

	for i := range items {
		item := items[i]

		// Every offered service carries a limitation: treat the copy as
		// unavailable and derive its location from the call-number shape.
		if len(item.LimitationTypes) > 0 && len(item.Services) == len(item.LimitationTypes) {
			item.Available = false
			if strings.HasPrefix(item.CallNumber, "rara") || strings.HasPrefix(item.CallNumber, "MagLs") {
				item.Location = locationRara
			} else {
				item.Location = locationUnknown
			}
		}

		// VZG DAIA2 call numbers embed the location ahead of a colon; only
		// the last segment is the displayable call number.
		if idx := strings.LastIndex(item.CallNumber, ":"); idx != -1 {
			item.CallNumber = item.CallNumber[idx+1:]
		}

		if item.Available {
			c.classifyAvailable(&item)
		} else {
			c.classifyUnavailable(&item, now)
		}

		if item.Status == statusMissing || item.Status == statusLost {
			c.statusNote = item.Status
		}
		if item.UseUnknownStatus {
			c.useUnknownStatus = true
		}

		c.callNumbers = append(c.callNumbers, item.CallNumber)
		c.locations = append(c.locations, item.Location)

		// Marc21 location link; the DAIA weblink wins when both are present
		c.locHref = item.LocationHref
		if item.Weblink != "" {
			c.locHref = item.Weblink
		}

		c.services = append(c.services, item.Services...)
	}

	c.counts.Borrowable = borrowableCount(c.counts)

	sort.SliceStable(c.recalls, func(i, j int) bool {
		if c.recalls[i].expectedFree.Equal(c.recalls[j].expectedFree) {
			return c.recalls[i].Item.RequestsPlaced < c.recalls[j].Item.RequestsPlaced
		}
		return c.recalls[i].expectedFree.Before(c.recalls[j].expectedFree)
	})

	return c
}

// allOptions returns the collected options with the recalled copies
// appended after the rest.
func (c *classification) allOptions() []Option {
	out := make([]Option, 0, len(c.options)+len(c.recalls))
	out = append(out, c.options...)
	out = append(out, c.recalls...)
	return out
}

func (c *classification) classifyAvailable(item *HoldingItem) {
	c.available = true
	c.counts.Available++
	resolved := false

	// requestable from the closed stack
	if item.HasStorageRetrievalLink && item.StorageRetrievalLink != "" {
		c.counts.StackOrder++
		c.options = append(c.options, Option{
			Kind:     OptStorageRetrieval,
			Location: labelClosedStack,
			Href:     item.StorageRetrievalLink,
			Item:     item,
		})
		resolved = true
	}

	// Presentation use only: the presentation service is the only one, or
	// loan is offered alongside it but carries the single limitation.
	if hasService(item, "presentation") &&
		(len(item.Services) == 1 ||
			(len(item.Services) > 1 && hasService(item, "loan") && len(item.LimitationTypes) == 1)) &&
		item.CallNumber != callNumberUnknown {
		if isDutyRoomCallNumber(item.CallNumber) {
			c.counts.DienstApp++
			if !resolved {
				c.options = append(c.options, Option{Kind: OptDA, Location: item.Location, Item: item})
			}
		} else {
			c.counts.Reference++
			if !resolved {
				c.options = append(c.options, Option{Kind: OptLocal, Location: item.Location, Item: item})
			}
		}
		resolved = true
	}

	// purely electronic copy
	if (hasService(item, "remote") || item.CallNumber == callNumberUnknown) && !resolved {
		c.counts.Electronic++
		c.electronic = true
		c.options = append(c.options, Option{
			Kind:     OptElectronic,
			Location: item.Location,
			Href:     item.Weblink,
			Item:     item,
		})
		resolved = true
	}

	// Available with no request link: the copy sits on the open shelf.
	if !resolved {
		c.options = append(c.options, Option{Kind: OptShelf, Location: item.Location, Item: item})
	}
}

func (c *classification) classifyUnavailable(item *HoldingItem, now time.Time) {
	switch {
	case isDutyRoomCallNumber(item.CallNumber):
		c.counts.DienstApp++
		c.options = append(c.options, Option{Kind: OptDA, Location: item.Location, Item: item})

	// approval required
	case item.Location == locationRara:
		c.options = append(c.options, Option{Kind: OptRara, Location: labelRara, Item: item})

	// no location at all; the copy cannot be lent
	case item.Location == locationUnknown:
		c.counts.CompletelyUnavailable++
		c.options = append(c.options, Option{Kind: OptLocal, Location: labelSpecialLocation, Item: item})

	case item.Location == locationInternet:
		c.counts.Electronic++
		c.options = append(c.options, Option{Kind: OptElectronic, Location: locationInternet, Item: item})

	// the normal case: the copy is on loan and can be recalled
	case item.HasRecallLink && item.RecallLink != "":
		c.counts.Lent++
		c.recalls = append(c.recalls, Option{
			Kind:         OptRecall,
			Href:         item.RecallLink,
			Item:         item,
			expectedFree: expectedFree(item, now),
		})

	case item.RequestsPlaced > 0:
		c.counts.ReservedWithoutLink++
		c.options = append(c.options, Option{Kind: OptReservedWithoutLink, Item: item})

	default:
		c.counts.CompletelyUnavailable++
		c.options = append(c.options, Option{Kind: OptAskStaff, Item: item})
	}
}

// expectedFree estimates when a lent copy becomes available again. An
// overdue estimate restarts the reservation queue from now.
func expectedFree(item *HoldingItem, now time.Time) time.Time {
	ts, ok := parseDueDate(item.DueDate)
	if !ok {
		ts = now.Add(time.Duration(item.RequestsPlaced) * recallLoanPeriod)
	}
	ts = ts.Add(time.Duration(item.RequestsPlaced) * recallReservePeriod)
	if !ts.After(now) {
		ts = now.Add(time.Duration(item.RequestsPlaced) * recallReservePeriod)
	}
	return ts
}

var dueDateFormats = []string{"2006-01-02", "02.01.2006", time.RFC3339}

func parseDueDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateFormats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Duty-room copies ("Dienstapparat") are recognized by their call-number
// shape: seven characters starting with D.
func isDutyRoomCallNumber(callNumber string) bool {
	return len(callNumber) == 7 && strings.HasPrefix(callNumber, "D")
}

func hasService(item *HoldingItem, name string) bool {
	for _, s := range item.Services {
		if s == name {
			return true
		}
	}
	return false
}

// borrowableCount derives the copies a patron could take home right now.
// A closed-stack order counts as borrowable since it arrives within a day.
// Contradictory upstream data can push the raw figure below zero; clamp it.
func borrowableCount(counts Counts) int {
	n := counts.Total - counts.Reference - counts.Lent - counts.DienstApp -
		counts.Electronic - counts.ReservedWithoutLink
	if n < 0 {
		return 0
	}
	return n
}

// referenceIndicator rates the reference-only to borrowable ratio: "1" all
// copies are reference only, "2" reference copies exist alongside
// borrowable stock, "3" reference copies remain while every borrowable
// copy is on loan, "0" no statement.
func referenceIndicator(counts Counts) string {
	if counts.Reference == 0 || counts.Reference == counts.Electronic {
		return "0"
	}
	switch {
	case counts.Reference == counts.Available && counts.Available == counts.Total:
		return "1"
	case counts.Reference != counts.Available && counts.Borrowable != 0 && counts.Lent > 0:
		return "2"
	// nothing loaned but borrowable stock present: same code as above on
	// purpose, the distinction carries no extra message
	case counts.Reference != counts.Available && counts.Borrowable > 0 && counts.Lent == 0:
		return "2"
	default:
		return "3"
	}
}
