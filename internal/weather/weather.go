// Package weather fetches local weather and analyzes its impact on pond
// water quality.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the OpenWeather 2.5 API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// ErrNoAPIKey is returned by the OpenWeather client when no key is configured.
var ErrNoAPIKey = errors.New("weather API key not configured")

// Current is the subset of the OpenWeather current-weather response we use.
type Current struct {
	Weather []Condition `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// Condition is a textual weather condition.
type Condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Description returns the first weather description, or "N/A".
func (c *Current) Description() string {
	if c == nil || len(c.Weather) == 0 {
		return "N/A"
	}
	return c.Weather[0].Description
}

// Icon returns the first weather icon code.
func (c *Current) Icon() string {
	if c == nil || len(c.Weather) == 0 {
		return ""
	}
	return c.Weather[0].Icon
}

// Forecast is the subset of the OpenWeather 3-hourly forecast we use.
type Forecast struct {
	List []Slot `json:"list"`
}

// Slot is one 3-hour forecast window.
type Slot struct {
	Rain struct {
		ThreeHours float64 `json:"3h"`
	} `json:"rain"`
}

// Provider supplies current weather and a short-range forecast.
type Provider interface {
	Current(ctx context.Context) (*Current, error)
	Forecast(ctx context.Context) (*Forecast, error)
}

// Snapshot is current weather plus forecast, fetched together.
type Snapshot struct {
	Current  *Current
	Forecast *Forecast
}

// Fetch retrieves current weather and forecast concurrently.
func Fetch(ctx context.Context, p Provider) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := p.Current(ctx)
		if err != nil {
			return fmt.Errorf("current weather: %w", err)
		}
		snap.Current = c
		return nil
	})
	g.Go(func() error {
		f, err := p.Forecast(ctx)
		if err != nil {
			return fmt.Errorf("weather forecast: %w", err)
		}
		snap.Forecast = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// --- OpenWeather client ---

// OpenWeather queries the OpenWeather HTTP API for a fixed location.
type OpenWeather struct {
	APIKey  string
	BaseURL string
	Lat     float64
	Lon     float64
	Client  *http.Client
}

// NewOpenWeather creates a client for the given key and coordinates.
func NewOpenWeather(apiKey string, lat, lon float64) *OpenWeather {
	return &OpenWeather{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Lat:     lat,
		Lon:     lon,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Current implements Provider.
func (o *OpenWeather) Current(ctx context.Context) (*Current, error) {
	var c Current
	if err := o.get(ctx, "weather", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Forecast implements Provider.
func (o *OpenWeather) Forecast(ctx context.Context) (*Forecast, error) {
	var f Forecast
	if err := o.get(ctx, "forecast", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (o *OpenWeather) get(ctx context.Context, endpoint string, out interface{}) error {
	if o.APIKey == "" {
		return ErrNoAPIKey
	}
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(o.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(o.Lon, 'f', -1, 64))
	q.Set("appid", o.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+"/"+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := o.Client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// --- Mock and fallback ---

// Mock returns fixed demo weather. Abnormal switches to a severe storm.
type Mock struct {
	Abnormal bool
}

// Current implements Provider.
func (m Mock) Current(ctx context.Context) (*Current, error) {
	c := &Current{}
	if m.Abnormal {
		c.Weather = []Condition{{Description: "severe thunderstorm", Icon: "11d"}}
		c.Main.Temp, c.Main.Humidity, c.Main.Pressure = 38.5, 95, 980
		c.Wind.Speed = 25.5
		c.Rain.OneHour = 15
		return c, nil
	}
	c.Weather = []Condition{{Description: "light rain", Icon: "10d"}}
	c.Main.Temp, c.Main.Humidity, c.Main.Pressure = 18.5, 82, 1012
	c.Wind.Speed = 12.5
	c.Rain.OneHour = 2.5
	return c, nil
}

// Forecast implements Provider.
func (m Mock) Forecast(ctx context.Context) (*Forecast, error) {
	f := &Forecast{List: make([]Slot, 2)}
	f.List[0].Rain.ThreeHours = 5
	return f, nil
}

// AQI returns the mock air-quality index.
func (m Mock) AQI() int {
	if m.Abnormal {
		return 5
	}
	return 2
}

// Fallback serves from Primary and switches to Mock on any error.
type Fallback struct {
	Primary Provider
	Mock    Mock
	Logger  *zap.Logger
}

// Current implements Provider.
func (f *Fallback) Current(ctx context.Context) (*Current, error) {
	if f.Mock.Abnormal || f.Primary == nil {
		return f.Mock.Current(ctx)
	}
	c, err := f.Primary.Current(ctx)
	if err != nil {
		f.logger().Warn("Weather API unavailable, using mock data", zap.Error(err))
		return f.Mock.Current(ctx)
	}
	return c, nil
}

// Forecast implements Provider.
func (f *Fallback) Forecast(ctx context.Context) (*Forecast, error) {
	if f.Primary == nil {
		return f.Mock.Forecast(ctx)
	}
	fc, err := f.Primary.Forecast(ctx)
	if err != nil {
		f.logger().Warn("Weather forecast unavailable, using mock data", zap.Error(err))
		return f.Mock.Forecast(ctx)
	}
	return fc, nil
}

func (f *Fallback) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}
