package main

// simpleItemStatus is the exhaustive per-location fallback used when the
// best-option cascade cannot decide. It summarizes every copy with the
// value reducer and recommends nothing.
func simpleItemStatus(id string, items []HoldingItem, cfg StatusConfig) StatusResult {
	var callNumbers, locations, services []string
	available := false
	useUnknown := false

	for i := range items {
		item := &items[i]
		if item.Available {
			available = true
		}
		if item.UseUnknownStatus {
			useUnknown = true
		}
		callNumbers = append(callNumbers, item.CallNumber)
		locations = append(locations, item.Location)
		services = append(services, item.Services...)
	}

	var message string
	switch {
	case len(services) > 0:
		message = reduceServices(services, cfg.PreferredService, cfg.RenderServices)
	case useUnknown:
		message = cfg.Messages.Unknown
	case available:
		message = cfg.Messages.Available
	default:
		message = cfg.Messages.Unavailable
	}

	return StatusResult{
		ID:                  id,
		PatronBestOption:    BestUnknown,
		Available:           available,
		AvailabilityMessage: message,
		Location:            pickValue(locations, cfg.LocationMode, msgMultipleLocations, cfg.Translate, "location_"),
		CallNumber:          pickValue(callNumbers, cfg.CallNumberMode, msgMultipleCallNumbers, nil, ""),
		PresenceIndicator:   "0",
	}
}
