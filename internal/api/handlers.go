package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/forecast"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/simulate"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/store"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/weather"
)

// maxImageBytes caps uploads to /api/diagnose.
const maxImageBytes = 10 << 20

// defaultAverageWindow is the /api/history average_health window.
const defaultAverageWindow = 24 * time.Hour

// HealthAverager is implemented by history stores that can summarize the
// stored health scores. *store.SQLiteStore satisfies it.
type HealthAverager interface {
	AverageHealth(ctx context.Context, since time.Time) (float64, int, error)
}

// AverageHealth is the average_health block of /api/history.
type AverageHealth struct {
	Window   string  `json:"window"`
	Score    float64 `json:"score"`
	Readings int     `json:"readings"`
}

// PredictRequest is the /predict body. Ammonia defaults to 0 and salinity
// to the simulator baseline when omitted.
type PredictRequest struct {
	Temperature     *float64 `json:"temperature" binding:"required"`
	PH              *float64 `json:"ph" binding:"required"`
	DissolvedOxygen *float64 `json:"dissolved_oxygen" binding:"required"`
	Turbidity       *float64 `json:"turbidity" binding:"required"`
	Ammonia         *float64 `json:"ammonia"`
	Salinity        *float64 `json:"salinity"`
}

func (p PredictRequest) reading() model.Reading {
	r := model.Reading{
		Temperature:     *p.Temperature,
		PH:              *p.PH,
		DissolvedOxygen: *p.DissolvedOxygen,
		Turbidity:       *p.Turbidity,
		Salinity:        simulate.DefaultBaseline.Salinity,
	}
	if p.Ammonia != nil {
		r.Ammonia = *p.Ammonia
	}
	if p.Salinity != nil {
		r.Salinity = *p.Salinity
	}
	return r
}

// PredictResponse is the full rule-based analysis of a reading.
type PredictResponse struct {
	DiseaseName       string                           `json:"disease_name"`
	HealthScore       int                              `json:"health_score"`
	DiseaseRisk       int                              `json:"disease_risk"`
	RiskStatus        model.RiskStatus                 `json:"risk_status"`
	DiseaseLevel      int                              `json:"disease_level"`
	Confidence        float64                          `json:"confidence"`
	Recommendation    string                           `json:"recommendation"`
	Suggestions       []string                         `json:"suggestions"`
	SuggestionsMap    map[model.Parameter]string       `json:"suggestions_map"`
	Triggers          []string                         `json:"triggers"`
	ParameterStatus   map[model.Parameter]model.Status `json:"parameter_status"`
	Band              model.HealthBand                 `json:"band"`
	DetailedSolutions []model.Solution                 `json:"detailed_solutions"`
	InputValues       model.Reading                    `json:"input_values"`
}

func newPredictResponse(a model.Assessment) PredictResponse {
	suggestions := []string{}
	suggestionsMap := map[model.Parameter]string{}
	for _, p := range model.Parameters() {
		if s, ok := a.Suggestions[p]; ok {
			suggestions = append(suggestions, s)
			suggestionsMap[p] = s
		}
	}
	solutions := a.Solutions
	if solutions == nil {
		solutions = []model.Solution{}
	}
	name := "Healthy"
	if a.RiskStatus != model.RiskOptimal {
		name = "Analysis Pending"
	}
	return PredictResponse{
		DiseaseName:       name,
		HealthScore:       a.HealthScore,
		DiseaseRisk:       a.DiseaseRisk,
		RiskStatus:        a.RiskStatus,
		DiseaseLevel:      a.RiskStatus.Level(),
		Confidence:        a.Confidence,
		Recommendation:    a.Recommendation,
		Suggestions:       suggestions,
		SuggestionsMap:    suggestionsMap,
		Triggers:          a.Triggers,
		ParameterStatus:   a.ParameterStatus,
		Band:              a.Band,
		DetailedSolutions: solutions,
		InputValues:       a.Reading,
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "AquaNova Water Quality Predictor API",
		"status":  "active",
		"mode":    s.deps.Mode,
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r := req.reading()
	if err := r.Validate(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPredictResponse(model.Assess(r, s.deps.Noise)))
}

func (s *Server) handleLiveData(c *gin.Context) {
	if s.deps.Live == nil {
		respondError(c, fmt.Errorf("live data: %w", errUnavailable))
		return
	}
	r, err := s.deps.Live.Latest()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sensor_data": r,
		"analysis":    newPredictResponse(model.Assess(r, s.deps.Noise)),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.deps.History == nil {
		respondError(c, fmt.Errorf("history: %w", errUnavailable))
		return
	}
	limit := store.DefaultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(c, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}
	window := defaultAverageWindow
	if v := c.Query("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			badRequest(c, fmt.Errorf("invalid window %q", v))
			return
		}
		window = d
	}

	readings, err := s.deps.History.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"readings": readings, "count": len(readings)}
	if avg, ok := s.deps.History.(HealthAverager); ok {
		score, n, err := avg.AverageHealth(c.Request.Context(), time.Now().Add(-window))
		if err != nil {
			respondError(c, err)
			return
		}
		resp["average_health"] = AverageHealth{Window: window.String(), Score: score, Readings: n}
	}
	c.JSON(http.StatusOK, resp)
}

// ForecastRequest is the /api/forecast body.
type ForecastRequest struct {
	History   []model.Reading `json:"history"`
	Timeframe string          `json:"timeframe"`
}

func (s *Server) handleForecast(c *gin.Context) {
	var req ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	f, err := s.deps.Forecaster.Forecast(c.Request.Context(), req.History, forecast.Horizon(req.Timeframe))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// WeatherView is the weather block of /api/weather-impact.
type WeatherView struct {
	Temp        float64 `json:"temp"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	Rain1h      float64 `json:"rain_1h"`
	AQI         int     `json:"aqi"`
	Access      string  `json:"access"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

func (s *Server) handleWeatherImpact(c *gin.Context) {
	abnormal := false
	if v := c.Query("abnormal"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid abnormal %q", v))
			return
		}
		abnormal = b
	}

	mock := weather.Mock{Abnormal: abnormal}
	var provider weather.Provider = s.deps.Weather
	if abnormal {
		provider = mock
	}
	snap, err := weather.Fetch(c.Request.Context(), provider)
	if err != nil {
		respondError(c, err)
		return
	}

	cur := snap.Current
	c.JSON(http.StatusOK, gin.H{
		"weather": WeatherView{
			Temp:        cur.Main.Temp,
			Humidity:    cur.Main.Humidity,
			Pressure:    cur.Main.Pressure,
			WindSpeed:   cur.Wind.Speed,
			Rain1h:      cur.Rain.OneHour,
			AQI:         mock.AQI(),
			Access:      "Connected",
			Description: cur.Description(),
			Icon:        cur.Icon(),
		},
		"impact_analysis":       weather.AnalyzeImpact(cur, snap.Forecast),
		"digital_twin_location": s.deps.Location,
	})
}

// ChatRequest is the /api/chat body. Context defaults to the latest live
// reading, then to the simulator baseline.
type ChatRequest struct {
	Message string         `json:"message" binding:"required"`
	Context *model.Reading `json:"context"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r := simulate.DefaultBaseline
	switch {
	case req.Context != nil:
		r = *req.Context
	case s.deps.Live != nil:
		if latest, err := s.deps.Live.Latest(); err == nil {
			r = latest
		}
	}

	answer, err := s.deps.Chat.Respond(c.Request.Context(), req.Message, r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": answer})
}

func (s *Server) handleDiagnose(c *gin.Context) {
	if s.deps.Diagnoser == nil {
		respondError(c, fmt.Errorf("image diagnosis requires GEMINI_API_KEY: %w", errUnavailable))
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		badRequest(c, fmt.Errorf("image: %w", err))
		return
	}
	if fh.Size > maxImageBytes {
		badRequest(c, fmt.Errorf("image too large: %d bytes (max %d)", fh.Size, maxImageBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, fmt.Errorf("image: %w", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		badRequest(c, fmt.Errorf("image: %w", err))
		return
	}

	diag, err := s.deps.Diagnoser.Diagnose(c.Request.Context(), data, fh.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, diag)
}

// SimulateRequest is the /api/simulate body. Preset overrides are applied
// first, then explicit overrides.
type SimulateRequest struct {
	Baseline  *model.Reading     `json:"baseline"`
	Preset    string             `json:"preset"`
	Overrides map[string]float64 `json:"overrides"`
}

func (s *Server) handleSimulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	base := simulate.DefaultBaseline
	if req.Baseline != nil {
		base = *req.Baseline
	}
	if err := base.Validate(); err != nil {
		respondError(c, err)
		return
	}

	overrides := simulate.Overrides{}
	if req.Preset != "" {
		for p, v := range simulate.GetPreset(req.Preset).Overrides {
			overrides[p] = v
		}
	}
	for name, v := range req.Overrides {
		p, err := model.ParseParameter(name)
		if err != nil {
			respondError(c, err)
			return
		}
		overrides[p] = v
	}

	res, err := simulate.Run(base, overrides, s.deps.Noise)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ParameterInfo describes one parameter's thresholds.
type ParameterInfo struct {
	Name       model.Parameter `json:"name"`
	Title      string          `json:"title"`
	Unit       string          `json:"unit"`
	Thresholds string          `json:"thresholds"`
}

func (s *Server) handleParameters(c *gin.Context) {
	params := make([]ParameterInfo, 0, len(model.Parameters()))
	for _, p := range model.Parameters() {
		info := ParameterInfo{Name: p, Title: p.Title(), Unit: p.Unit()}
		if t, ok := model.ThresholdFor(p); ok {
			info.Thresholds = t.Describe()
		}
		params = append(params, info)
	}
	c.JSON(http.StatusOK, gin.H{"parameters": params, "presets": simulate.PresetNames()})
}

