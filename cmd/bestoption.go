package main

// Locations reported when the cascade decides without a concrete copy.
const (
	labelNoOptions     = "no options for this item"
	labelByAppointment = "By appointment only"
	labelDutyRoom      = "In-house workstation"
	labelShipping      = "Shipping"
	labelIrrelevant    = "irrelevant"
	labelWeb           = "Web"
)

// BestOption is the single recommended patron action for one work.
type BestOption struct {
	Option     PatronOption
	Location   string
	Href       string
	Item       *HoldingItem
	RecallHref string
}

// ResolveBestOption applies the priority cascade to the classified options
// of one work. The second return value is false when no rule matched; the
// caller must then fall back to the exhaustive per-location summary. That
// outcome is an escape hatch, not an error.
func ResolveBestOption(counts Counts, options []Option, available bool) (*BestOption, bool) {
	// nothing to offer at all
	if len(options) == 0 || counts.Total == counts.CompletelyUnavailable {
		return &BestOption{Option: BestNone, Location: labelNoOptions}, true
	}

	// Not checked out, not lent, not electronic: the copies exist but
	// require advance registration before use.
	if !available && counts.DienstApp == 0 && counts.ReservedWithoutLink == 0 && counts.Lent == 0 &&
		counts.Electronic < counts.Total && counts.CompletelyUnavailable < counts.Total {
		return &BestOption{Option: BestShelf, Location: labelByAppointment}, true
	}

	if counts.Total == counts.DienstApp {
		return &BestOption{Option: BestDA, Location: labelDutyRoom}, true
	}

	best := &BestOption{}
	var refSeen, storageSeen, recallSeen bool
	var lastLocation string
	var storageHref, storageLocation string

	for i := range options {
		opt := &options[i]
		switch opt.Kind {
		case OptShelf:
			// a copy on the open shelf beats everything else
			return &BestOption{Option: BestShelf, Location: opt.Location, Href: opt.Href, Item: opt.Item}, true

		case OptLocal:
			best.Option = BestLocal
			best.Location = opt.Location
			lastLocation = opt.Location
			if best.Item == nil {
				best.Item = opt.Item
			}
			refSeen = true

		case OptStorageRetrieval:
			best.Option = BestStorageRetrieval
			best.Href = opt.Href
			storageHref = opt.Href
			storageLocation = opt.Location
			lastLocation = opt.Location
			if best.Item == nil {
				best.Item = opt.Item
			}
			storageSeen = true

		case OptRecall:
			// Recalls arrive sorted soonest-free first; the first one is the
			// representative copy even when a reference copy was seen before.
			best.Option = BestRecall
			if !recallSeen {
				best.RecallHref = opt.Href
				best.Item = opt.Item
				lastLocation = opt.Location
			}
			recallSeen = true

		case OptDA:
			// a duty-room copy only wins when nothing else remains
			if !available && counts.Total == counts.DienstApp+counts.CompletelyUnavailable {
				return &BestOption{Option: BestServiceDesk, Location: opt.Location, Item: opt.Item}, true
			}

		case OptReservedWithoutLink:
			if !available && counts.Total == counts.ReservedWithoutLink+counts.DienstApp+counts.CompletelyUnavailable {
				return &BestOption{Option: BestReservedWithoutLink, Location: opt.Location, Item: opt.Item}, true
			}

		case OptAskStaff:
			if !available && counts.Total == counts.DienstApp+counts.CompletelyUnavailable {
				return &BestOption{Option: BestAskStaff, Location: locationUnknown, Item: opt.Item}, true
			}

		case OptElectronic:
			if counts.Total == counts.Electronic {
				return &BestOption{Option: BestEOnly, Location: locationInternet, Item: opt.Item}, true
			}

		case OptRara:
			// resolved by the appointment-only exit above
		}
	}

	switch {
	case storageSeen && refSeen && counts.Total > 1:
		best.Option = BestRequestOrLocal
		return best, true

	// journal volumes bound in parts: point the patron at the copy list
	case storageSeen && counts.Total > 1:
		best.Option = BestSeeCopies
		best.Location = storageLocation
		return best, true

	case storageSeen:
		best.Option = BestStorageRetrieval
		best.Href = storageHref
		best.Location = storageLocation
		return best, true

	case recallSeen && refSeen && counts.Total > 1 && counts.Lent > 0:
		best.Option = BestReserveOrLocal
		best.Href = best.RecallHref
		if lastLocation != "" {
			best.Location = lastLocation
		}
		return best, true

	case refSeen || recallSeen:
		if best.Href == "" {
			best.Href = best.RecallHref
		}
		if lastLocation != "" {
			best.Location = lastLocation
		}
		return best, true
	}

	return nil, false
}
