package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWeatherCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "53.93", r.URL.Query().Get("lat"))
		w.Write([]byte(`{"weather":[{"description":"clear sky","icon":"01d"}],"main":{"temp":21.5,"humidity":60,"pressure":1015},"wind":{"speed":3.2},"rain":{"1h":0.4}}`))
	}))
	defer srv.Close()

	ow := NewOpenWeather("secret", 53.93, -9.58)
	ow.BaseURL = srv.URL

	c, err := ow.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 21.5, c.Main.Temp)
	assert.Equal(t, 3.2, c.Wind.Speed)
	assert.Equal(t, 0.4, c.Rain.OneHour)
	assert.Equal(t, "clear sky", c.Description())
	assert.Equal(t, "01d", c.Icon())
}

func TestOpenWeatherErrors(t *testing.T) {
	_, err := NewOpenWeather("", 0, 0).Current(context.Background())
	assert.True(t, errors.Is(err, ErrNoAPIKey))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	ow := NewOpenWeather("bad", 0, 0)
	ow.BaseURL = srv.URL
	_, err = ow.Forecast(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFallbackUsesMockOnError(t *testing.T) {
	fb := &Fallback{Primary: NewOpenWeather("", 0, 0)}
	c, err := fb.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "light rain", c.Description())

	f, err := fb.Forecast(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.List, 2)
}

func TestFallbackAbnormal(t *testing.T) {
	fb := &Fallback{Primary: NewOpenWeather("key", 0, 0), Mock: Mock{Abnormal: true}}
	c, err := fb.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 38.5, c.Main.Temp)
	assert.Equal(t, 5, fb.Mock.AQI())
	assert.Equal(t, 2, Mock{}.AQI())
}

func TestFetchConcurrent(t *testing.T) {
	snap, err := Fetch(context.Background(), Mock{})
	require.NoError(t, err)
	require.NotNil(t, snap.Current)
	require.NotNil(t, snap.Forecast)
}

type failingProvider struct{ Mock }

func (failingProvider) Forecast(ctx context.Context) (*Forecast, error) {
	return nil, errors.New("boom")
}

func TestFetchPropagatesError(t *testing.T) {
	_, err := Fetch(context.Background(), failingProvider{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather forecast")
}

func TestAnalyzeImpact(t *testing.T) {
	ctx := context.Background()

	normal, _ := Mock{}.Current(ctx)
	normalFc, _ := Mock{}.Forecast(ctx)
	impacts := AnalyzeImpact(normal, normalFc)
	// 18.5°C, 12.5 m/s wind, 2.5 mm rain: only the wind note.
	require.Len(t, impacts, 1)
	assert.Equal(t, ImpactInfo, impacts[0].Type)
	assert.Equal(t, "Aeration", impacts[0].Param)

	storm, _ := Mock{Abnormal: true}.Current(ctx)
	impacts = AnalyzeImpact(storm, normalFc)
	types := make([]string, 0, len(impacts))
	for _, im := range impacts {
		types = append(types, im.Type)
	}
	assert.Equal(t, []string{ImpactRisk, ImpactWarning, ImpactRisk, ImpactInfo}, types)

	calm := &Current{}
	calm.Main.Temp = 15
	impacts = AnalyzeImpact(calm, nil)
	require.Len(t, impacts, 1)
	assert.Equal(t, ImpactOK, impacts[0].Type)

	cold := &Current{}
	cold.Main.Temp = 2
	impacts = AnalyzeImpact(cold, nil)
	require.Len(t, impacts, 1)
	assert.Equal(t, "Metabolism", impacts[0].Param)

	impacts = AnalyzeImpact(nil, nil)
	assert.Len(t, impacts, 2)
}

func TestForecastRainWindow(t *testing.T) {
	f := &Forecast{List: make([]Slot, 10)}
	for i := range f.List {
		f.List[i].Rain.ThreeHours = 3
	}
	// Only the first 8 slots (24 h) count: 24 mm > 20 mm.
	assert.Equal(t, 24.0, forecastRain(f))
	calm := &Current{}
	calm.Main.Temp = 15
	impacts := AnalyzeImpact(calm, f)
	require.Len(t, impacts, 1)
	assert.Equal(t, "Turbidity & pH", impacts[0].Param)
}
