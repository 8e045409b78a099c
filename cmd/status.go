package main

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-querystring/query"
)

// StatusMessages are the per-state availability messages shown in the
// result list.
type StatusMessages struct {
	Available   string
	Unavailable string
	Unknown     string
	NotForLoan  string
	Electronic  string
}

// StatusConfig carries the display configuration and collaborators for one
// status run. All collaborators are optional; missing ones degrade to
// defaults instead of failing.
type StatusConfig struct {
	CallNumberMode   string
	LocationMode     string
	PreferredService string
	Messages         StatusMessages
	Translate        TranslateFunc
	RenderServices   RenderServicesFunc
	MultiVolumes     func(id string) bool

	// Now pins the clock for recall ordering; zero means time.Now.
	Now time.Time
}

// ComputeStatus runs the full decision pipeline for one work: classify all
// copies, resolve the best patron option and assemble the display record.
// It performs no I/O and is deterministic for a pinned clock.
func ComputeStatus(id string, items []HoldingItem, patronHeld map[string]bool, cfg StatusConfig) StatusResult {
	// A work the patron already borrowed or reserved needs no analysis.
	if patronHeld[id] {
		return StatusResult{
			ID:                 id,
			PatronBestOption:   BestAlreadyTaken,
			BestOptionLocation: labelIrrelevant,
			CallNumber:         labelIrrelevant,
		}
	}

	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	c := classifyItems(items, now)

	best, ok := ResolveBestOption(c.counts, c.allOptions(), c.available)
	if !ok {
		return StatusResult{ID: id, Unresolved: true}
	}

	callNumber := ""
	if best.Item != nil {
		callNumber = best.Item.CallNumber
	} else {
		callNumber = pickValue(c.callNumbers, cfg.CallNumberMode, msgMultipleCallNumbers, nil, "")
	}

	// A call number carrying the on-order marker overrides every other
	// resolution, electronic-only included.
	if strings.Contains(strings.ToLower(callNumber), onOrderMarker) {
		best.Option = BestAcquired
		best.Href = ""
		best.Location = labelShipping
	}

	dueDate := ""
	if best.Item != nil {
		dueDate = best.Item.DueDate
	}

	var message string
	switch {
	case len(c.services) > 0:
		message = reduceServices(c.services, cfg.PreferredService, cfg.RenderServices)
	case c.useUnknownStatus:
		message = cfg.Messages.Unknown
	case c.available:
		message = cfg.Messages.Available
	default:
		message = cfg.Messages.Unavailable
	}
	if !c.available && len(c.services) == 0 && dueDate == "" {
		message = cfg.Messages.NotForLoan
	}

	additional := ""
	if !c.available && dueDate != "" {
		additional = c.statusNote
	}

	placed := 0
	if best.Item != nil {
		placed = best.Item.RequestsPlaced
	}

	multiVols := false
	if cfg.MultiVolumes != nil {
		multiVols = cfg.MultiVolumes(id)
	}

	return StatusResult{
		ID:                  id,
		PatronBestOption:    best.Option,
		BestOptionHref:      best.Href,
		BestOptionLocation:  best.Location,
		PlacedRequests:      placed,
		Available:           c.available,
		AvailabilityMessage: message,
		AdditionalMessage:   additional,
		LocationHref:        c.locHref,
		CallNumber:          callNumber,
		DueDate:             dueDate,
		PresenceIndicator:   referenceIndicator(c.counts),
		Electronic:          c.electronic,
		MultiVolumes:        multiVols,
	}
}

// getItemStatuses is the batch endpoint: one StatusResult per requested ID.
// A failing ID never aborts the rest of the batch.
func (svc *ServiceContext) getItemStatuses(c *gin.Context) {
	ids := c.QueryArray("id")
	if len(ids) == 0 {
		c.String(http.StatusBadRequest, "id param is required")
		return
	}
	lang := c.DefaultQuery("lang", "en")
	log.Printf("Getting item statuses for %d ids with DAIA connector...", len(ids))

	cfg := svc.statusConfig(lang)
	patronHeld := svc.patronHeldIDs(c)

	statuses := make([]StatusResult, 0, len(ids))
	catalogIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		switch {
		case isNationalLicenseID(id):
			statuses = append(statuses, nationalLicenseStatus(id, cfg.Messages))
		case !isCatalogID(id):
			// record-driver backends are not wired here; report missing data
			statuses = append(statuses, missingItemStatus(id, cfg.Messages))
		default:
			catalogIDs = append(catalogIDs, id)
		}
	}

	holdings := svc.getHoldings(catalogIDs, lang, c.GetString("jwt"))
	for _, id := range catalogIDs {
		items := filterSuppressedLocations(holdings[id], svc.SuppressedLocations)
		if len(items) == 0 {
			statuses = append(statuses, missingItemStatus(id, cfg.Messages))
			continue
		}
		status := ComputeStatus(id, items, patronHeld, cfg)
		if status.Unresolved {
			log.Printf("INFO: best option for %s unresolved; falling back to full status summary", id)
			status = simpleItemStatus(id, items, cfg)
		}
		statuses = append(statuses, status)
	}

	// tie each record to its request position and escape display values
	for i := range statuses {
		statuses[i].RecordNumber = indexOf(ids, statuses[i].ID)
		statuses[i].CallNumber = html.EscapeString(statuses[i].CallNumber)
		statuses[i].Location = html.EscapeString(statuses[i].Location)
	}

	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}

// getHoldings asks the DAIA connector for the holding items of each ID and
// groups them per ID. IDs that fail upstream are simply absent from the
// result so the caller can emit missing-data records for them.
func (svc *ServiceContext) getHoldings(ids []string, lang string, jwt string) map[string][]HoldingItem {
	holdings := make(map[string][]HoldingItem, len(ids))
	for _, id := range ids {
		params, _ := query.Values(daiaQuery{ID: id, Format: "json", Lang: lang})
		daiaURL := fmt.Sprintf("%s/availability?%s", svc.DAIAAPI, params.Encode())
		bodyBytes, daiaErr := svc.DAIAConnectorGet(daiaURL, jwt, svc.HTTPClient)
		if daiaErr != nil {
			log.Printf("ERROR: DAIA Connector failure for %s: %d:%s", id, daiaErr.StatusCode, daiaErr.Message)
			continue
		}

		var doc daiaDocument
		if err := json.Unmarshal(bodyBytes, &doc); err != nil {
			log.Printf("ERROR: unable to parse DAIA document for %s: %s", id, err.Error())
			continue
		}
		for _, holding := range doc.Holdings {
			holdings[id] = append(holdings[id], holding.Items...)
		}
	}
	return holdings
}

// daiaQuery are the request parameters of the connector's availability
// endpoint.
type daiaQuery struct {
	ID     string `url:"id"`
	Format string `url:"format"`
	Lang   string `url:"lang,omitempty"`
}

// filterSuppressedLocations drops copies whose location is hidden from
// patrons before any classification happens.
func filterSuppressedLocations(items []HoldingItem, suppressed []string) []HoldingItem {
	if len(suppressed) == 0 {
		return items
	}
	filtered := make([]HoldingItem, 0, len(items))
	for _, item := range items {
		if !containsString(suppressed, item.Location) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// National licenses and DOAJ titles are online-only; they short-circuit to
// an electronic record without consulting the connector.
func isNationalLicenseID(id string) bool {
	if strings.HasPrefix(id, "DOAJ") {
		return true
	}
	return strings.HasPrefix(id, "NL") && !strings.HasPrefix(id, "NLM")
}

// Catalog IDs start with two digits; OLC and NLM records resolve through
// the catalog as well.
func isCatalogID(id string) bool {
	if len(id) >= 2 {
		if _, err := strconv.Atoi(id[:2]); err == nil {
			return true
		}
	}
	return strings.HasPrefix(id, "OLC") || strings.HasPrefix(id, "NLM")
}

func nationalLicenseStatus(id string, messages StatusMessages) StatusResult {
	return StatusResult{
		ID:                  id,
		PatronBestOption:    BestEOnly,
		BestOptionLocation:  labelWeb,
		Available:           true,
		AvailabilityMessage: messages.Electronic,
		Location:            labelWeb,
		Electronic:          true,
		PresenceIndicator:   "0",
	}
}

// missingItemStatus is the dummy record for an ID the connector returned no
// usable items for.
func missingItemStatus(id string, messages StatusMessages) StatusResult {
	return StatusResult{
		ID:                  id,
		PatronBestOption:    BestUnknown,
		AvailabilityMessage: messages.Unavailable,
		Location:            locationUnknown,
		PresenceIndicator:   "0",
		MissingData:         true,
	}
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}
