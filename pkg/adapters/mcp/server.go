// Package mcp exposes the planning service as MCP tools, so agent hosts can
// start travel searches and poll their progress.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/pkg/domain"
)

// Planner is the client surface the MCP tools call. *planner.Client
// satisfies it.
type Planner interface {
	StartPlan(ctx context.Context, form domain.TravelForm) (*domain.PlanState, error)
	FetchState(ctx context.Context, planRunID string) (*domain.PlanState, error)
}

// Server wraps a planning-service client and exposes it as an MCP Server.
type Server struct {
	planner   Planner
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(p Planner) *Server {
	s := &Server{
		planner:   p,
		mcpServer: server.NewMCPServer("voyant-mcp", strings.TrimSpace(voyant.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: sseServer,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: start_travel_plan
	startTool := mcp.NewTool("start_travel_plan",
		mcp.WithDescription("Start a travel plan search for a round trip. Returns the initial plan state; poll get_plan_state until it is COMPLETE or FAILED."),
		mcp.WithString("origin", mcp.Required(), mcp.Description("Departure city")),
		mcp.WithString("destination", mcp.Required(), mcp.Description("Arrival city")),
		mcp.WithString("departure_date", mcp.Required(), mcp.Description("Outbound date, e.g. 2026-09-12")),
		mcp.WithString("return_date", mcp.Required(), mcp.Description("Return date")),
		mcp.WithString("cabin_class", mcp.Description("One of: economy, premiumeconomy, business, first (default economy)")),
		mcp.WithNumber("passengers", mcp.Description("Passenger count, 1 to 8 (default 1)")),
		mcp.WithOutputSchema[domain.PlanState](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStartPlan))

	// TOOL: get_plan_state
	stateTool := mcp.NewTool("get_plan_state",
		mcp.WithDescription("Read the current state of a plan run."),
		mcp.WithString("plan_run_id", mcp.Required(), mcp.Description("The plan run ID returned by start_travel_plan")),
		mcp.WithOutputSchema[domain.PlanState](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleGetPlanState))
}

func (s *Server) handleStartPlan(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.PlanState, error) {
	form := domain.DefaultForm()
	form.Origin, _ = args["origin"].(string)
	form.Destination, _ = args["destination"].(string)
	form.DepartureDate, _ = args["departure_date"].(string)
	form.ReturnDate, _ = args["return_date"].(string)

	if cabin, ok := args["cabin_class"].(string); ok && cabin != "" {
		c := domain.CabinClass(cabin)
		if !c.Valid() {
			return domain.PlanState{}, fmt.Errorf("unknown cabin class %q", cabin)
		}
		form.CabinClass = c
	}
	if n, ok := args["passengers"].(float64); ok && n != 0 {
		form.Passengers = int(n)
	}

	if err := form.Validate(); err != nil {
		return domain.PlanState{}, err
	}

	state, err := s.planner.StartPlan(ctx, form)
	if err != nil {
		return domain.PlanState{}, fmt.Errorf("start plan failed: %w", err)
	}
	return *state, nil
}

func (s *Server) handleGetPlanState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.PlanState, error) {
	planRunID, _ := args["plan_run_id"].(string)
	if planRunID == "" {
		return domain.PlanState{}, fmt.Errorf("plan_run_id is required")
	}

	state, err := s.planner.FetchState(ctx, planRunID)
	if err != nil {
		return domain.PlanState{}, fmt.Errorf("fetch state failed: %w", err)
	}
	return *state, nil
}
