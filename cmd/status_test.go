package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStatusConfig() StatusConfig {
	return StatusConfig{
		CallNumberMode: reduceMsg,
		LocationMode:   reduceMsg,
		Messages:       defaultMessages(),
		Now:            testNow,
	}
}

func TestComputeStatusPatronHeld(t *testing.T) {
	held := map[string]bool{"123456789": true}
	status := ComputeStatus("123456789", nil, held, testStatusConfig())

	assert.Equal(t, BestAlreadyTaken, status.PatronBestOption)
	assert.Equal(t, labelIrrelevant, status.BestOptionLocation)
	assert.Equal(t, labelIrrelevant, status.CallNumber)
}

func TestComputeStatusShelfCopy(t *testing.T) {
	items := []HoldingItem{
		{Available: true, Location: "LS1", CallNumber: "AB 100"},
	}
	status := ComputeStatus("123456789", items, nil, testStatusConfig())

	assert.Equal(t, BestShelf, status.PatronBestOption)
	assert.Equal(t, "LS1", status.BestOptionLocation)
	assert.Equal(t, "AB 100", status.CallNumber)
	assert.True(t, status.Available)
	assert.Equal(t, "Available", status.AvailabilityMessage)
	assert.Equal(t, "0", status.PresenceIndicator)
	assert.False(t, status.Unresolved)
}

func TestComputeStatusElectronicOnly(t *testing.T) {
	items := []HoldingItem{
		{Available: true, Location: "Internet", CallNumber: callNumberUnknown,
			Weblink: "https://doi.org/x"},
	}
	status := ComputeStatus("123456789", items, nil, testStatusConfig())

	assert.Equal(t, BestEOnly, status.PatronBestOption)
	assert.Equal(t, locationInternet, status.BestOptionLocation)
	assert.True(t, status.Electronic)
	assert.Equal(t, "https://doi.org/x", status.LocationHref)
}

func TestComputeStatusAcquiredOverride(t *testing.T) {
	items := []HoldingItem{
		{Available: true, Location: "LS1", CallNumber: "Bestellt 01.02.2026"},
	}
	status := ComputeStatus("123456789", items, nil, testStatusConfig())

	assert.Equal(t, BestAcquired, status.PatronBestOption)
	assert.Equal(t, labelShipping, status.BestOptionLocation)
	assert.Equal(t, "", status.BestOptionHref)
}

func TestComputeStatusAcquiredBeatsElectronic(t *testing.T) {
	items := []HoldingItem{
		{Available: true, Location: "Internet", CallNumber: "bestellt",
			Services: []string{"remote"}},
	}
	status := ComputeStatus("123456789", items, nil, testStatusConfig())
	assert.Equal(t, BestAcquired, status.PatronBestOption)
}

func TestComputeStatusServiceMessage(t *testing.T) {
	items := []HoldingItem{
		{Available: true, Location: "LS1", CallNumber: "AB 100",
			Services: []string{"presentation", "loan"}},
	}
	status := ComputeStatus("123456789", items, nil, testStatusConfig())
	assert.Equal(t, "loan, presentation", status.AvailabilityMessage)
}

func TestComputeStatusNotForLoan(t *testing.T) {
	// unavailable, no services, no due date: the copy cannot be lent at all
	items := []HoldingItem{
		{Available: false, Location: "rara", CallNumber: "rara 17"},
	}
	status := ComputeStatus("123456789", items, nil, testStatusConfig())

	assert.Equal(t, BestShelf, status.PatronBestOption)
	assert.Equal(t, labelByAppointment, status.BestOptionLocation)
	assert.Equal(t, "Not for loan", status.AvailabilityMessage)
}

func TestComputeStatusRecallCarriesDueDate(t *testing.T) {
	items := []HoldingItem{
		{Available: false, Location: "LS1", CallNumber: "AB 100", DueDate: "2026-04-01",
			RequestsPlaced: 1, HasRecallLink: true, RecallLink: "https://lbs/recall/1",
			Status: statusMissing},
	}
	status := ComputeStatus("123456789", items, nil, testStatusConfig())

	assert.Equal(t, BestRecall, status.PatronBestOption)
	assert.Equal(t, "https://lbs/recall/1", status.BestOptionHref)
	assert.Equal(t, "2026-04-01", status.DueDate)
	assert.Equal(t, 1, status.PlacedRequests)
	assert.Equal(t, "Checked Out", status.AvailabilityMessage)
	assert.Equal(t, statusMissing, status.AdditionalMessage)
}

func TestComputeStatusUnresolved(t *testing.T) {
	// a mixed electronic/approval-only work matches no cascade rule
	items := []HoldingItem{
		{Available: true, Location: "Internet", CallNumber: "AB 1", Services: []string{"remote"}},
		{Available: false, Location: "rara", CallNumber: "rara 17"},
	}
	status := ComputeStatus("123456789", items, nil, testStatusConfig())
	assert.True(t, status.Unresolved)
	assert.Equal(t, "123456789", status.ID)
}

func TestComputeStatusDeterministic(t *testing.T) {
	items := []HoldingItem{
		{Available: false, CallNumber: "AB 1", HasRecallLink: true, RecallLink: "r1", RequestsPlaced: 2},
		{Available: false, CallNumber: "AB 2", HasRecallLink: true, RecallLink: "r2", DueDate: "2026-04-01"},
		{Available: true, Location: "LS1", CallNumber: "AB 3", Services: []string{"presentation"}},
	}
	first := ComputeStatus("123456789", items, nil, testStatusConfig())
	second := ComputeStatus("123456789", items, nil, testStatusConfig())
	assert.Equal(t, first, second)
}

func TestSimpleItemStatusFallback(t *testing.T) {
	items := []HoldingItem{
		{Available: true, Location: "LS1", CallNumber: "AB 1"},
		{Available: false, Location: "MAG", CallNumber: "AB 2"},
	}
	status := simpleItemStatus("123456789", items, testStatusConfig())

	assert.Equal(t, BestUnknown, status.PatronBestOption)
	assert.True(t, status.Available)
	assert.Equal(t, "Available", status.AvailabilityMessage)
	assert.Equal(t, msgMultipleLocations, status.Location)
	assert.Equal(t, msgMultipleCallNumbers, status.CallNumber)
	assert.Equal(t, "0", status.PresenceIndicator)
}

func TestFilterSuppressedLocations(t *testing.T) {
	items := []HoldingItem{
		{Location: "LS1", CallNumber: "AB 1"},
		{Location: "bindery", CallNumber: "AB 2"},
	}
	filtered := filterSuppressedLocations(items, []string{"bindery"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "LS1", filtered[0].Location)

	// no suppression list configured
	assert.Len(t, filterSuppressedLocations(items, nil), 2)
}

func TestIsNationalLicenseID(t *testing.T) {
	assert.True(t, isNationalLicenseID("NL12345"))
	assert.True(t, isNationalLicenseID("DOAJ12345"))
	assert.False(t, isNationalLicenseID("NLM12345"))
	assert.False(t, isNationalLicenseID("123456789"))
}

func TestIsCatalogID(t *testing.T) {
	assert.True(t, isCatalogID("123456789"))
	assert.True(t, isCatalogID("OLC12345"))
	assert.True(t, isCatalogID("NLM12345"))
	assert.False(t, isCatalogID("ai-49-xyz"))
	assert.False(t, isCatalogID("x"))
}

func TestNationalLicenseStatus(t *testing.T) {
	status := nationalLicenseStatus("NL12345", defaultMessages())
	assert.Equal(t, BestEOnly, status.PatronBestOption)
	assert.Equal(t, labelWeb, status.Location)
	assert.True(t, status.Available)
	assert.True(t, status.Electronic)
	assert.Equal(t, "Available online", status.AvailabilityMessage)
}

func TestMissingItemStatus(t *testing.T) {
	status := missingItemStatus("123456789", defaultMessages())
	assert.Equal(t, BestUnknown, status.PatronBestOption)
	assert.Equal(t, locationUnknown, status.Location)
	assert.True(t, status.MissingData)
	assert.False(t, status.Available)
}

func TestGetItemStatusesEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	daia := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/multivolumes/") {
			w.Write([]byte(`{"multiVols": false}`))
			return
		}
		doc := daiaDocument{ID: r.URL.Query().Get("id")}
		doc.Holdings = []struct {
			Items []HoldingItem `json:"items"`
		}{
			{Items: []HoldingItem{
				{Available: true, Location: "LS1", CallNumber: "AB <100>"},
			}},
		}
		out, _ := json.Marshal(doc)
		w.Write(out)
	}))
	defer daia.Close()

	svc := ServiceContext{
		Version:        "test",
		DAIAAPI:        daia.URL,
		ItemStatus:     ItemStatusConfig{CallNumberMode: reduceMsg, LocationMode: reduceMsg},
		Messages:       map[string]StatusMessages{"en": defaultMessages()},
		HTTPClient:     daia.Client(),
		FastHTTPClient: daia.Client(),
	}

	router := gin.New()
	router.GET("/items", svc.getItemStatuses)

	req := httptest.NewRequest("GET", "/items?id=123456789&id=NL555", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		Statuses []StatusResult `json:"statuses"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Statuses, 2)

	byID := make(map[string]StatusResult)
	for _, s := range resp.Statuses {
		byID[s.ID] = s
	}

	catalog := byID["123456789"]
	assert.Equal(t, BestShelf, catalog.PatronBestOption)
	assert.Equal(t, 0, catalog.RecordNumber)
	// display values are escaped for the renderer
	assert.Equal(t, "AB &lt;100&gt;", catalog.CallNumber)

	national := byID["NL555"]
	assert.Equal(t, BestEOnly, national.PatronBestOption)
	assert.Equal(t, 1, national.RecordNumber)
}

func TestGetItemStatusesRequiresIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := ServiceContext{}
	router := gin.New()
	router.GET("/items", svc.getItemStatuses)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/items", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
