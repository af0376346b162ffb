// Package home serves the public marketing page and the ROI calculator endpoint.
package home

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/payment"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/roi"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
)

const (
	// Path is the home page.
	Path = handler.RootPath

	// ROIPath returns a projection for posted inputs.
	ROIPath = handler.APIPath + "roi"

	// TemplateName is the name of the home template.
	TemplateName = "home"

	// MsgInvalidInputs is the error of an out of range calculator post.
	MsgInvalidInputs = "invalid calculator inputs"
)

// Service is the home handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the home handler.
var Handler = Service{}

// Init registers the routes. The page needs no database.
func (s *Service) Init(app *fiber.App, cfg *config.Config, _ *gorm.DB) error {
	if app == nil || cfg == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	app.Get(Path, s.Get)
	app.Post(ROIPath, s.PostROI)

	return nil
}

// Get renders the home page.
func (s *Service) Get(c *fiber.Ctx) error {
	inputs := roi.DefaultInputs()

	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"FAQs":       FAQs,
		"Categories": Categories(),
		"Plans":      payment.Plans(),
		"ROIInputs":  inputs,
		"Projection": roi.Calculate(inputs),
	}, handler.PublicLayout)
}

// PostROI returns the projection of the posted inputs.
func (s *Service) PostROI(c *fiber.Ctx) error {
	inputs := roi.DefaultInputs()
	if err := c.BodyParser(&inputs); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, MsgInvalidInputs)
	}

	if err := inputs.Validate(); err != nil {
		return handler.JSONFieldErrors(c, MsgInvalidInputs, fieldErrors(err))
	}

	return c.JSON(roi.Calculate(inputs))
}

func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = "out of range"
	}

	return out
}
