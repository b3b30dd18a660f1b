package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/diff"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/forecast"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/simulate"
)

// handleScoreReading runs the full assessment of one reading.
func handleScoreReading(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)

	r := simulate.DefaultBaseline
	r.Ammonia = 0
	for _, p := range []model.Parameter{model.Temperature, model.PH, model.DissolvedOxygen, model.Turbidity} {
		v, ok := numberArg(args, string(p))
		if !ok {
			return errResult(fmt.Sprintf("%s is required", p)), nil
		}
		r = r.With(p, v)
	}
	for _, p := range []model.Parameter{model.Salinity, model.Ammonia} {
		if v, ok := numberArg(args, string(p)); ok {
			r = r.With(p, v)
		}
	}
	if err := r.Validate(); err != nil {
		return errResult(err.Error()), nil
	}

	var noise model.NoiseSource
	if seed, ok := numberArg(args, "seed"); ok {
		noise = rand.New(rand.NewSource(int64(seed)))
	}

	a := model.Assess(r, noise)
	if a.Triggers == nil {
		a.Triggers = []string{}
	}
	return jsonResult(a)
}

// handleClassifyParameter classifies one value.
func handleClassifyParameter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	p, res := parameterArg(args)
	if res != nil {
		return res, nil
	}
	v, ok := numberArg(args, "value")
	if !ok {
		return errResult("value is required"), nil
	}

	result := map[string]interface{}{
		"parameter": p,
		"value":     v,
		"unit":      p.Unit(),
		"status":    model.Classify(p, v),
	}
	if t, ok := model.ThresholdFor(p); ok {
		result["thresholds"] = t.Describe()
	}
	if s := model.Suggest(p, v); s != "" {
		result["suggestion"] = s
	}
	return jsonResult(result)
}

// handleExplainParameter provides the detailed explanation for a parameter.
func handleExplainParameter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	name := stringArg(args, "parameter", "")
	if name == "" {
		return errResult("parameter is required"), nil
	}

	p, err := model.ParseParameter(name)
	if err != nil {
		return newTextResult(fmt.Sprintf(
			"No explanation for parameter '%s'. "+
				"Known parameters: %s. Use list_parameters for thresholds.",
			name, strings.Join(parameterNames(), ", "),
		)), nil
	}
	return newTextResult(parameterExplanations[p]), nil
}

// handleListParameters returns every parameter with its unit and thresholds.
func handleListParameters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		Unit       string `json:"unit"`
		Thresholds string `json:"thresholds"`
		Brief      string `json:"brief"`
	}

	entries := make([]entry, 0, len(model.Parameters()))
	for _, p := range model.Parameters() {
		e := entry{ID: string(p), Title: p.Title(), Unit: p.Unit(), Brief: brief(parameterExplanations[p])}
		if t, ok := model.ThresholdFor(p); ok {
			e.Thresholds = t.Describe()
		}
		entries = append(entries, e)
	}
	return jsonResult(entries)
}

// handleForecastTrend projects one parameter from a series of samples.
func handleForecastTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	p, res := parameterArg(args)
	if res != nil {
		return res, nil
	}
	values, err := numberSliceArg(args, "values")
	if err != nil {
		return errResult(err.Error()), nil
	}

	history := make([]model.Reading, len(values))
	for i, v := range values {
		history[i] = simulate.DefaultBaseline.With(p, v)
	}
	horizon := forecast.Horizon(stringArg(args, "timeframe", string(forecast.Horizon5m)))

	f, err := forecast.NewLinearForecaster().Forecast(ctx, history, horizon)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientHistory) {
			return errResult(fmt.Sprintf("need at least %d values: %v", forecast.MinHistory, err)), nil
		}
		return errResult(fmt.Sprintf("forecast failed: %v", err)), nil
	}

	proj, ok := f.Projections[p]
	if !ok {
		return errResult(fmt.Sprintf("%s is not forecast; supported: ph, temperature, dissolved_oxygen, turbidity", p)), nil
	}
	insights := []string{}
	for _, in := range f.Insights {
		if strings.HasPrefix(in, p.Title()+" ") {
			insights = append(insights, in)
		}
	}
	end := proj[len(proj)-1]
	return jsonResult(map[string]interface{}{
		"parameter":    p,
		"timeframe":    horizon,
		"steps":        len(proj),
		"current":      values[len(values)-1],
		"projected":    end,
		"status_now":   model.Classify(p, values[len(values)-1]),
		"status_after": model.Classify(p, end),
		"insights":     insights,
	})
}

// handleSimulateScenario runs a named what-if preset.
func handleSimulateScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	preset := simulate.GetPreset(stringArg(args, "preset", "normal"))

	res, err := simulate.Run(simulate.DefaultBaseline, preset.Overrides, nil)
	if err != nil {
		return errResult(fmt.Sprintf("simulation failed: %v", err)), nil
	}
	return newTextResult(fmt.Sprintf("Scenario: %s (%s)\n\n%s", preset.Name, preset.Description, diff.FormatDiff(res.Diff))), nil
}

// getArgs safely extracts the arguments map from a CallToolRequest.
// Returns an empty map if Arguments is nil or not a map.
func getArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errResult creates an MCP tool error result (IsError=true).
// This is returned as a tool-level error, not a transport-level JSON-RPC error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
	}
}

// numberArg extracts a numeric argument. JSON numbers arrive as float64.
func numberArg(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// numberSliceArg extracts an array of numbers.
func numberSliceArg(args map[string]interface{}, key string) ([]float64, error) {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of numbers", key)
	}
	out := make([]float64, 0, len(raw))
	for i, item := range raw {
		v, ok := numberArg(map[string]interface{}{"v": item}, "v")
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not a number", key, i)
		}
		out = append(out, v)
	}
	return out, nil
}

// parameterArg resolves the "parameter" argument, or returns an error result.
func parameterArg(args map[string]interface{}) (model.Parameter, *mcp.CallToolResult) {
	name := stringArg(args, "parameter", "")
	if name == "" {
		return "", errResult("parameter is required")
	}
	p, err := model.ParseParameter(name)
	if err != nil {
		return "", errResult(fmt.Sprintf("%v (known: %s)", err, strings.Join(parameterNames(), ", ")))
	}
	return p, nil
}

func parameterNames() []string {
	var names []string
	for _, p := range model.Parameters() {
		names = append(names, string(p))
	}
	return names
}

// brief returns the first line of a markdown explanation without bold markers.
func brief(desc string) string {
	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return strings.ReplaceAll(line, "**", "")
		}
	}
	return ""
}

// jsonResult marshals v into an indented text result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(jsonData)), nil
}

var parameterExplanations = map[model.Parameter]string{
	model.Temperature: `**Water Temperature**
Tilapia grow best between 26 and 30 °C. Below 20 °C feeding and immunity drop; above 34 °C oxygen demand outruns supply.
**Root Causes:**
- Seasonal air temperature and direct sun on shallow ponds
- Heater or chiller failure in recirculating systems
- Large cold-water exchanges or heavy rain
**Recommendations:**
- Shade or deepen ponds during heatwaves and add aeration
- Check heater/chiller setpoints daily
- Exchange water gradually (no more than 2 °C change per hour)`,

	model.PH: `**pH**
Optimal range is 7.0 to 8.0; below 6.5 or above 8.5 is critical. High pH turns total ammonia into toxic unionized NH3.
**Root Causes:**
- CO2 build-up from respiration lowers pH overnight
- Algal photosynthesis raises pH in the afternoon
- Low alkalinity lets pH swing widely
- Acidic runoff after rain
**Recommendations:**
- Raise pH with agricultural lime, crushed coral or sodium bicarbonate
- Lower pH with CO2 injection, peat or a partial water exchange
- Keep alkalinity above 50 mg/L CaCO3 to buffer swings`,

	model.DissolvedOxygen: `**Dissolved Oxygen**
Keep DO above 6 mg/L; below 5 mg/L fish stop feeding and gasp at the surface, below 3 mg/L mortality begins.
**Root Causes:**
- Aerator or blower failure
- Night-time algal respiration, lowest just before dawn
- High temperature reduces oxygen solubility
- Decomposing uneaten feed and sludge
**Recommendations:**
- Run emergency aeration and check air stones and diffusers
- Stop feeding until DO recovers
- Remove sludge and reduce stocking density`,

	model.Turbidity: `**Turbidity**
Above 15 NTU gills clog and visual feeding suffers; above 25 NTU is critical.
**Root Causes:**
- Storm runoff carrying soil into the pond
- Algal bloom or bloom collapse
- Overfeeding and resuspended sediment
**Recommendations:**
- Clean mechanical filters and settle incoming water
- Reduce feeding for 24-48 hours
- Perform a partial water change`,

	model.Salinity: `**Salinity**
For brackish tilapia culture keep salinity between 10 and 20 ppt. Outside this band osmoregulation costs energy and growth slows.
**Root Causes:**
- Evaporation concentrates salt during hot, dry periods
- Rainfall or freshwater top-ups dilute it
**Recommendations:**
- Dose marine salt gradually to raise salinity
- Exchange with fresh water to lower it
- Change salinity by no more than 2 ppt per day`,

	model.Ammonia: `**Total Ammonia**
Keep total ammonia below 0.02 ppm; above 0.05 ppm is critical and damages gills, more so at high pH and temperature.
**Root Causes:**
- Overfeeding and uneaten feed
- Immature or overloaded biofilter
- Dead fish or decaying organic matter
**Recommendations:**
- Stop feeding and perform a water exchange
- Check biofilter flow and add nitrifying bacteria
- Lower pH slightly to reduce the toxic NH3 fraction`,
}
