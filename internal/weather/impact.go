package weather

import "fmt"

// Impact types, most severe first.
const (
	ImpactRisk    = "RISK"
	ImpactWarning = "WARNING"
	ImpactInfo    = "INFO"
	ImpactOK      = "OK"
)

// Impact thresholds.
const (
	extremeAirTemp    = 35.0 // °C
	extremeWind       = 20.0 // m/s
	heavyRainHour     = 5.0  // mm in the last hour
	heavyRainForecast = 20.0 // mm over the next 24 h
	hotAirTemp        = 25.0
	coldAirTemp       = 5.0
	strongWind        = 10.0
	forecastSlots24h  = 8 // 3-hour slots
)

// Impact is one weather-driven risk to water quality.
type Impact struct {
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// AnalyzeImpact derives water-quality impacts from current weather and an
// optional forecast.
func AnalyzeImpact(current *Current, forecast *Forecast) []Impact {
	if current == nil {
		return []Impact{
			{Type: ImpactInfo, Message: "Using simulated weather data. Add a valid API key to disable."},
			{Type: ImpactWarning, Param: "Turbidity", Message: "Simulated storm: high chance of runoff.", Action: "Check filters."},
		}
	}

	var impacts []Impact

	if current.Main.Temp > extremeAirTemp || current.Wind.Speed > extremeWind {
		impacts = append(impacts, Impact{
			Type:    ImpactRisk,
			Param:   "CRITICAL WEATHER EVENT",
			Message: "Extreme weather detected (storm/heatwave). Immediate action required.",
			Action:  "Activate emergency protocols.",
		})
	}

	if current.Rain.OneHour > heavyRainHour || forecastRain(forecast) > heavyRainForecast {
		impacts = append(impacts, Impact{
			Type:    ImpactWarning,
			Param:   "Turbidity & pH",
			Message: "Heavy rainfall detected/forecast. Expect turbidity spike and pH drop due to runoff.",
			Action:  "Monitor filters and pH levels.",
		})
	}

	switch temp := current.Main.Temp; {
	case temp > hotAirTemp:
		impacts = append(impacts, Impact{
			Type:    ImpactRisk,
			Param:   "Dissolved Oxygen",
			Message: fmt.Sprintf("High air temperature (%.1f°C). Water oxygen holding capacity is decreasing.", temp),
			Action:  "Increase aeration proactively.",
		})
	case temp < coldAirTemp:
		impacts = append(impacts, Impact{
			Type:    ImpactWarning,
			Param:   "Metabolism",
			Message: fmt.Sprintf("Low air temperature (%.1f°C). Fish metabolism will slow down.", temp),
			Action:  "Reduce feeding intensity.",
		})
	}

	if current.Wind.Speed > strongWind {
		impacts = append(impacts, Impact{
			Type:    ImpactInfo,
			Param:   "Aeration",
			Message: "Strong winds detected. Natural aeration is high, but check for sediment disturbance.",
			Action:  "Monitor turbidity.",
		})
	}

	if len(impacts) == 0 {
		impacts = append(impacts, Impact{
			Type:    ImpactOK,
			Message: "Weather conditions stable. No immediate environmental risks detected.",
		})
	}
	return impacts
}

// forecastRain sums rain over the next 24 hours of the forecast.
func forecastRain(f *Forecast) float64 {
	if f == nil {
		return 0
	}
	total := 0.0
	for i, slot := range f.List {
		if i >= forecastSlots24h {
			break
		}
		total += slot.Rain.ThreeHours
	}
	return total
}
