package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/finmd/internal/converter"
	"github.com/insightdelivered/finmd/internal/logger"
	"github.com/insightdelivered/finmd/internal/models"
	"github.com/insightdelivered/finmd/internal/timeseries"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Version string
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)

	financial := app.Group("/api/v1/financial")
	financial.Post("/convert", h.HandleConvert)
	financial.Post("/convert/file", h.HandleConvertFile)

	llm := app.Group("/api/v1/llm-data")
	llm.Post("/normalize", h.HandleNormalize)
	llm.Post("/markdown", h.HandleTimeSeriesMarkdown)
}

// HandleHealth reports that the server is up and which version it runs.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.Version,
		"engine":  "fiber",
	})
}

// HandleConvert renders a JSON envelope.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	var env models.Envelope
	if err := json.Unmarshal(c.Body(), &env); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
	}

	payload, err := converter.PayloadFromEnvelope(env)
	if err != nil {
		return err
	}
	res, err := converter.Convert(payload)
	if err != nil {
		return err
	}
	return h.writeResult(c, res)
}

// HandleConvertFile renders a multipart upload from form field "file". The
// optional "format" field is a detection hint.
func (h *Handler) HandleConvertFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("opening upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}

	res, err := converter.ConvertFile(models.FileUpload{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Hint:        c.FormValue("format"),
	})
	if err != nil {
		return err
	}
	return h.writeResult(c, res)
}

// HandleNormalize returns the compact JSON form of a time-series document.
func (h *Handler) HandleNormalize(c *fiber.Ctx) error {
	doc, err := decodeObject(c.Body())
	if err != nil {
		return err
	}
	series, err := timeseries.Normalize(doc)
	if err != nil {
		return err
	}

	log := logger.FromContext(c.UserContext())
	log.Debug().
		Str("symbol", series.Symbol).
		Int("bars", len(series.Bars)).
		Msg("normalized time series")
	return c.JSON(series.Compact())
}

// HandleTimeSeriesMarkdown renders a time-series document as markdown.
func (h *Handler) HandleTimeSeriesMarkdown(c *fiber.Ctx) error {
	doc, err := decodeObject(c.Body())
	if err != nil {
		return err
	}
	res, err := converter.ConvertTimeSeries(doc)
	if err != nil {
		return err
	}
	return h.writeResult(c, res)
}

func (h *Handler) writeResult(c *fiber.Ctx, res *models.Result) error {
	log := logger.FromContext(c.UserContext())
	log.Debug().
		Str("format", res.Format).
		Int("item_count", res.ItemCount).
		Msg("converted")
	return c.JSON(res)
}

// decodeObject decodes a JSON object keeping numbers as json.Number so
// prices keep their digits.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
	}
	if doc == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "JSON body must be an object")
	}
	return doc, nil
}
