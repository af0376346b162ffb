// Package dashboard provides the dashboard handler listing the studio's voice agents.
package dashboard

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/agent"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/profile"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	authmiddleware "github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.DashboardPath

	// AgentPath deletes one agent listing row.
	AgentPath = handler.APIPath + "agents/:id"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 10

	// MaxPageSize caps the pageSize query parameter.
	MaxPageSize = 100

	// Sort fields.
	SortName    = "name"
	SortStatus  = "status"
	SortCreated = "created"

	desc = "desc"
)

// QueryParams holds the query and pagination parameters.
type QueryParams struct {
	Page         int
	PageSize     int
	SearchQuery  string
	FilterStatus string
	SortField    string
	SortOrder    string
}

// Data represents the page of agents rendered by the template.
type Data struct {
	Agents      []models.VoiceAgent
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
	Params      QueryParams
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, authmiddleware.RequireSession, s.Get)
	app.Delete(AgentPath, authmiddleware.RequireSession, s.DeleteAgent)

	return nil
}

// Get handles the dashboard page rendering.
// Users that have not finished onboarding are sent to the wizard.
func (s *Service) Get(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)

	p, err := profile.Get(c.UserContext(), s.db, sess.UserID)

	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		return c.Redirect(handler.OnboardingPath)
	case err != nil:
		log.Error().Err(err).Uint64("user_id", sess.UserID).Msg("failed to load profile")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	case !p.CompletedOnboarding:
		return c.Redirect(handler.OnboardingPath)
	}

	params := parseParams(c)

	agents, err := agent.List(c.UserContext(), s.db, sess.UserID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", sess.UserID).Msg("failed to list voice agents")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard")
	}

	total := len(agents)

	agents = filterAgents(agents, params.SearchQuery, params.FilterStatus)
	sortAgents(agents, params.SortField, params.SortOrder)

	data := buildData(agents, &params)

	log.Debug().
		Uint64("user_id", sess.UserID).
		Int("total_agents", total).
		Int("matching_agents", data.TotalItems).
		Int("page", data.CurrentPage).
		Msg("dashboard agents retrieved")

	nav := navigation.NewContext("Dashboard", navigation.PageDashboard)

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Profile":    p,
		"Data":       data,
		"AllCount":   total,
	}, handler.BaseLayout)
}

// DeleteAgent removes a listing row owned by the caller.
func (s *Service) DeleteAgent(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return handler.JSONError(c, fiber.StatusBadRequest, "invalid agent id")
	}

	err = agent.Delete(c.UserContext(), s.db, sess.UserID, id)

	switch {
	case errors.Is(err, agent.ErrAgentNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, agent.ErrAgentNotFound.Error())
	case err != nil:
		log.Error().Err(err).Uint64("user_id", sess.UserID).Uint64("agent_id", id).Msg("failed to delete voice agent")
		return handler.JSONError(c, fiber.StatusInternalServerError, "failed to delete voice agent")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseParams(c *fiber.Ctx) QueryParams {
	params := QueryParams{
		Page:         c.QueryInt("page", 1),
		PageSize:     c.QueryInt("pageSize", DefaultPageSize),
		SearchQuery:  strings.TrimSpace(c.Query("search")),
		FilterStatus: c.Query("status"),
		SortField:    c.Query("sort", SortCreated),
		SortOrder:    c.Query("order", desc),
	}

	if params.Page < 1 {
		params.Page = 1
	}

	if params.PageSize < 1 || params.PageSize > MaxPageSize {
		params.PageSize = DefaultPageSize
	}

	switch params.SortField {
	case SortName, SortStatus, SortCreated:
	default:
		params.SortField = SortCreated
	}

	if params.SortOrder != desc {
		params.SortOrder = "asc"
	}

	return params
}

// filterAgents applies the search and status filters.
// Search matches name, phone number and language case-insensitively.
func filterAgents(agents []models.VoiceAgent, searchQuery, filterStatus string) []models.VoiceAgent {
	if searchQuery == "" && filterStatus == "" {
		return agents
	}

	q := strings.ToLower(searchQuery)
	filtered := make([]models.VoiceAgent, 0, len(agents))

	for _, a := range agents {
		if filterStatus != "" && string(a.Status) != filterStatus {
			continue
		}

		if q != "" &&
			!strings.Contains(strings.ToLower(a.Name), q) &&
			!strings.Contains(strings.ToLower(a.PhoneNumber), q) &&
			!strings.Contains(strings.ToLower(a.Language), q) {
			continue
		}

		filtered = append(filtered, a)
	}

	return filtered
}

// sortAgents sorts agents by the specified field and order. Ties keep the list order.
func sortAgents(agents []models.VoiceAgent, sortField, sortOrder string) {
	less := func(i, j int) bool {
		switch sortField {
		case SortName:
			return strings.ToLower(agents[i].Name) < strings.ToLower(agents[j].Name)
		case SortStatus:
			return agents[i].Status < agents[j].Status
		default:
			return agents[i].CreatedAt.Before(agents[j].CreatedAt)
		}
	}

	sort.SliceStable(agents, func(i, j int) bool {
		if sortOrder == desc {
			return less(j, i)
		}

		return less(i, j)
	})
}

// paginate returns the requested page, clamped to the last page.
func paginate(agents []models.VoiceAgent, page, pageSize int) (paginated []models.VoiceAgent, totalPages, actualPage int) {
	totalItems := len(agents)

	totalPages = (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	startIdx := (page - 1) * pageSize
	endIdx := min(startIdx+pageSize, totalItems)

	if startIdx < totalItems {
		paginated = agents[startIdx:endIdx]
	} else {
		paginated = []models.VoiceAgent{}
	}

	return paginated, totalPages, page
}

func buildData(agents []models.VoiceAgent, params *QueryParams) Data {
	page, totalPages, actualPage := paginate(agents, params.Page, params.PageSize)
	params.Page = actualPage

	return Data{
		Agents:      page,
		CurrentPage: actualPage,
		PageSize:    params.PageSize,
		TotalItems:  len(agents),
		TotalPages:  totalPages,
		HasPrevPage: actualPage > 1,
		HasNextPage: actualPage < totalPages,
		PrevPage:    actualPage - 1,
		NextPage:    actualPage + 1,
		Params:      *params,
	}
}
