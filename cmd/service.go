package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

// ServiceContext contains common data used by all handlers
type ServiceContext struct {
	Version           string
	DAIAAPI           string
	JWTKey            string
	SMTP              SMTPConfig
	StaffRequestEmail string
	ItemStatus        ItemStatusConfig

	// computed once at startup and passed into every status run
	SuppressedLocations []string

	Translations translationTable
	Messages     map[string]StatusMessages

	ServiceTemplate *template.Template
	RequestTemplate *template.Template

	HTTPClient     *http.Client
	FastHTTPClient *http.Client
}

// RequestError contains http status code and message for a
// failed connector request
type RequestError struct {
	StatusCode int
	Message    string
}

// initializeService will initialize the service context based on the config parameters
func initializeService(version string, cfg *ServiceConfig) (*ServiceContext, error) {
	svc := ServiceContext{Version: version,
		DAIAAPI:           cfg.DAIAAPI,
		JWTKey:            cfg.JWTKey,
		SMTP:              cfg.SMTP,
		StaffRequestEmail: cfg.StaffRequestEmail,
		ItemStatus:        cfg.ItemStatus,
	}

	log.Printf("Create HTTP client for external service calls")
	defaultTransport := &http.Transport{
		Dial: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 600 * time.Second,
		}).Dial,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
	}
	svc.HTTPClient = &http.Client{
		Transport: defaultTransport,
		Timeout:   10 * time.Second,
	}
	svc.FastHTTPClient = &http.Client{
		Transport: defaultTransport,
		Timeout:   5 * time.Second,
	}

	svc.initDisplayData(cfg.DataDir)
	svc.initSuppressedLocations(&cfg.DB)

	var err error
	svc.ServiceTemplate, err = template.ParseFiles(filepath.Join(cfg.TemplateDir, "status_services.txt"))
	if err != nil {
		return nil, fmt.Errorf("unable to parse service list template: %s", err.Error())
	}
	svc.RequestTemplate, err = template.ParseFiles(filepath.Join(cfg.TemplateDir, "staff_request.txt"))
	if err != nil {
		return nil, fmt.Errorf("unable to parse staff request template: %s", err.Error())
	}

	return &svc, nil
}

// statusConfig bundles the display settings and collaborators the decision
// pipeline needs for one request language.
func (svc *ServiceContext) statusConfig(lang string) StatusConfig {
	return StatusConfig{
		CallNumberMode:   svc.ItemStatus.CallNumberMode,
		LocationMode:     svc.ItemStatus.LocationMode,
		PreferredService: svc.ItemStatus.PreferredService,
		Messages:         svc.messagesFor(lang),
		Translate:        svc.translator(lang),
		RenderServices:   svc.serviceListRenderer(lang),
		MultiVolumes:     svc.getMultiVolumes,
	}
}

// getMultiVolumes asks the connector whether a work has multipart children.
func (svc *ServiceContext) getMultiVolumes(id string) bool {
	url := fmt.Sprintf("%s/multivolumes/%s", svc.DAIAAPI, id)
	bodyBytes, err := svc.DAIAConnectorGet(url, "", svc.FastHTTPClient)
	if err != nil {
		log.Printf("WARN: unable to get multivolume info for %s: %s", id, err.Message)
		return false
	}
	var resp struct {
		MultiVols bool `json:"multiVols"`
	}
	if jsonErr := json.Unmarshal(bodyBytes, &resp); jsonErr != nil {
		log.Printf("WARN: unable to parse multivolume info for %s: %s", id, jsonErr.Error())
		return false
	}
	return resp.MultiVols
}

// ignoreFavicon is a dummy to handle browser favicon requests without warnings
func (svc *ServiceContext) ignoreFavicon(c *gin.Context) {
}

// getVersion reports the version of the serivce
func (svc *ServiceContext) getVersion(c *gin.Context) {
	build := "unknown"
	// cos our CWD is the bin directory
	files, _ := filepath.Glob("../buildtag.*")
	if len(files) == 1 {
		build = strings.Replace(files[0], "../buildtag.", "", 1)
	}

	vMap := make(map[string]string)
	vMap["version"] = svc.Version
	vMap["build"] = build
	c.JSON(http.StatusOK, vMap)
}

// healthCheck reports the health of the server
func (svc *ServiceContext) healthCheck(c *gin.Context) {
	log.Printf("Got healthcheck request")
	type hcResp struct {
		Healthy bool   `json:"healthy"`
		Message string `json:"message,omitempty"`
	}
	hcMap := make(map[string]hcResp)

	if svc.DAIAAPI != "" {
		resp, err := svc.FastHTTPClient.Get(svc.DAIAAPI)
		if resp != nil {
			defer resp.Body.Close()
		}
		if err != nil {
			log.Printf("ERROR: Failed response from DAIA Connector PING: %s - %s", err.Error(), svc.DAIAAPI)
			hcMap["daia_connector"] = hcResp{Healthy: false, Message: err.Error()}
		} else {
			hcMap["daia_connector"] = hcResp{Healthy: true}
		}
	}

	if svc.SMTP.Host != "" || svc.SMTP.DevMode {
		hcMap["smtp"] = hcResp{Healthy: true}
	} else {
		hcMap["smtp"] = hcResp{Healthy: false, Message: "smtp relay is not configured"}
	}

	c.JSON(http.StatusOK, hcMap)
}

// DAIAConnectorGet sends a GET request to the DAIA connector and returns the response
func (svc *ServiceContext) DAIAConnectorGet(url string, jwt string, httpClient *http.Client) ([]byte, *RequestError) {
	log.Printf("DAIA Connector GET request: %s, timeout  %.0f sec", url, httpClient.Timeout.Seconds())
	req, _ := http.NewRequest("GET", url, nil)
	if jwt != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", jwt))
	}

	startTime := time.Now()
	rawResp, rawErr := httpClient.Do(req)
	resp, err := handleAPIResponse(url, rawResp, rawErr)
	elapsedNanoSec := time.Since(startTime)
	elapsedMS := int64(elapsedNanoSec / time.Millisecond)

	if err != nil {
		if shouldLogAsError(err.StatusCode) {
			log.Printf("ERROR: Failed response from DAIA GET %s - %d:%s. Elapsed Time: %d (ms)",
				url, err.StatusCode, err.Message, elapsedMS)
		} else {
			log.Printf("INFO: Response from DAIA GET %s - %d:%s. Elapsed Time: %d (ms)",
				url, err.StatusCode, err.Message, elapsedMS)
		}
	} else {
		log.Printf("Successful response from DAIA GET %s. Elapsed Time: %d (ms)", url, elapsedMS)
	}
	return resp, err
}

func handleAPIResponse(logURL string, resp *http.Response, err error) ([]byte, *RequestError) {
	if err != nil {
		status := http.StatusBadRequest
		errMsg := err.Error()
		if strings.Contains(err.Error(), "Timeout") {
			status = http.StatusRequestTimeout
			errMsg = fmt.Sprintf("%s timed out", logURL)
		} else if strings.Contains(err.Error(), "connection refused") {
			status = http.StatusServiceUnavailable
			errMsg = fmt.Sprintf("%s refused connection", logURL)
		}
		return nil, &RequestError{StatusCode: status, Message: errMsg}
	} else if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		defer resp.Body.Close()
		bodyBytes, _ := ioutil.ReadAll(resp.Body)
		status := resp.StatusCode
		errMsg := string(bodyBytes)
		return nil, &RequestError{StatusCode: status, Message: errMsg}
	}

	defer resp.Body.Close()
	bodyBytes, _ := ioutil.ReadAll(resp.Body)
	return bodyBytes, nil
}

// do we log this http response as an error or is it expected under normal circumstances
func shouldLogAsError(httpStatus int) bool {
	return httpStatus != http.StatusOK && httpStatus != http.StatusNotFound
}
