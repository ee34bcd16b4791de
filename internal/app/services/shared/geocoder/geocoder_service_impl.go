package geocoder

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const upstreamName = "geocoder"

type reverseResponse struct {
	Address struct {
		Postcode string `json:"postcode"`
	} `json:"address"`
	Error string `json:"error"`
}

type geocoderService struct {
	BaseUrl    string
	UserAgent  string
	HTTPClient *http.Client
	Log        *zap.Logger
}

var (
	geocoderServiceInstance contracts.Geocoder
	onceGeocoderService     sync.Once
)

func NewGeocoderService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.Geocoder {
	onceGeocoderService.Do(func() {
		geocoderServiceInstance = &geocoderService{
			BaseUrl:   strings.TrimSuffix(internalConfig.Geocoder.BaseUrl, "/"),
			UserAgent: internalConfig.Geocoder.UserAgent,
			HTTPClient: &http.Client{
				Timeout: time.Duration(internalConfig.Geocoder.RequestTimeoutInSeconds) * time.Second,
			},
			Log: logger,
		}
	})
	return geocoderServiceInstance
}

// ReversePostalCode resolves coordinates to the postal code of the address
// found there. It returns "" when the location has no postal code.
func (s *geocoderService) ReversePostalCode(ctx context.Context, latitude, longitude float64) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("geocoderService.ReversePostalCode called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Float64(constvars.LoggingLatitudeKey, latitude),
		zap.Float64(constvars.LoggingLongitudeKey, longitude),
	)

	query := url.Values{}
	query.Set("format", "json")
	query.Set("addressdetails", "1")
	query.Set("lat", strconv.FormatFloat(latitude, 'f', 6, 64))
	query.Set("lon", strconv.FormatFloat(longitude, 'f', 6, 64))
	endpoint := fmt.Sprintf("%s/reverse?%s", s.BaseUrl, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set("Accept", constvars.MIMEApplicationJSON)
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		s.Log.Error("geocoderService.ReversePostalCode error sending request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrSendHTTPRequest(err, upstreamName)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code %d", resp.StatusCode)
		s.Log.Error("geocoderService.ReversePostalCode upstream returned error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return "", exceptions.ErrUpstream(err, upstreamName)
	}

	var result reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", exceptions.ErrUpstream(err, upstreamName)
	}

	postalCode := strings.ReplaceAll(strings.TrimSpace(result.Address.Postcode), " ", "")
	s.Log.Info("geocoderService.ReversePostalCode succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPostalCodeKey, postalCode),
	)
	return postalCode, nil
}
