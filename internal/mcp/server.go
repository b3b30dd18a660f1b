package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server instance.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server with registered tools.
func NewServer(version string) *Server {
	s := server.NewMCPServer("aquanova", version, server.WithLogging())

	registerTools(s)

	return &Server{
		mcpServer: s,
	}
}

// Start runs the server in stdio mode (blocking).
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools adds all supported tools to the server.
func registerTools(s *server.MCPServer) {
	// Tool: score_reading
	scoreTool := mcp.NewTool("score_reading",
		mcp.WithDescription("Score a water-quality reading. Returns 0-100 health score, disease risk, per-parameter status, triggers and remediation suggestions."),
		mcp.WithNumber("temperature", mcp.Required(), mcp.Description("Water temperature in °C")),
		mcp.WithNumber("ph", mcp.Required(), mcp.Description("pH (0-14)")),
		mcp.WithNumber("dissolved_oxygen", mcp.Required(), mcp.Description("Dissolved oxygen in mg/L")),
		mcp.WithNumber("turbidity", mcp.Required(), mcp.Description("Turbidity in NTU")),
		mcp.WithNumber("salinity", mcp.Description("Salinity in ppt (default 15)")),
		mcp.WithNumber("ammonia", mcp.Description("Total ammonia in ppm (default 0)")),
		mcp.WithNumber("seed", mcp.Description("Seed for the disease-risk noise. Omit for a noise-free score.")),
	)
	s.AddTool(scoreTool, handleScoreReading)

	// Tool: classify_parameter
	classifyTool := mcp.NewTool("classify_parameter",
		mcp.WithDescription("Classify a single parameter value as optimal, warning or critical, with a remediation hint."),
		mcp.WithString("parameter",
			mcp.Required(),
			mcp.Description("Parameter name: temperature, ph, dissolved_oxygen, turbidity, salinity, ammonia (short forms like 'do' and 'nh3' accepted)"),
		),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Measured value")),
	)
	s.AddTool(classifyTool, handleClassifyParameter)

	// Tool: explain_parameter
	explainTool := mcp.NewTool("explain_parameter",
		mcp.WithDescription("Get a detailed explanation of a water-quality parameter: why it matters, what causes it to drift, and how to correct it."),
		mcp.WithString("parameter",
			mcp.Required(),
			mcp.Description("Parameter name. Use list_parameters to see all."),
		),
	)
	s.AddTool(explainTool, handleExplainParameter)

	// Tool: list_parameters
	listTool := mcp.NewTool("list_parameters",
		mcp.WithDescription("List all water-quality parameters with units and status thresholds."),
	)
	s.AddTool(listTool, handleListParameters)

	// Tool: forecast_trend
	forecastTool := mcp.NewTool("forecast_trend",
		mcp.WithDescription("Project a parameter's trend from recent samples (5 s apart) by linear regression and report expected threshold crossings."),
		mcp.WithString("parameter", mcp.Required(), mcp.Description("Parameter to project")),
		mcp.WithArray("values",
			mcp.Required(),
			mcp.Description("Recent samples, oldest first (at least 5)"),
			mcp.Items(map[string]any{"type": "number"}),
		),
		mcp.WithString("timeframe",
			mcp.Description("Projection horizon"),
			mcp.DefaultString("5m"),
			mcp.Enum("5m", "1h", "24h"),
		),
	)
	s.AddTool(forecastTool, handleForecastTrend)

	// Tool: simulate_scenario
	simulateTool := mcp.NewTool("simulate_scenario",
		mcp.WithDescription("Run a what-if scenario against the default baseline and report how health and parameter statuses change."),
		mcp.WithString("preset",
			mcp.Description("Named scenario"),
			mcp.DefaultString("normal"),
			mcp.Enum("normal", "hypoxia", "ammonia-spike", "heatwave", "storm-runoff"),
		),
	)
	s.AddTool(simulateTool, handleSimulateScenario)
}
