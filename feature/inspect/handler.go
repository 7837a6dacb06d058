package inspect

import (
	"errors"
	"strconv"

	"ddn-storage/core/buffer"
	"ddn-storage/core/logger"
	"ddn-storage/core/storage"
	"ddn-storage/core/transport"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the storage client.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the client routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/client")
	group.Get("/", h.HandleStatus)
	group.Post("/initialize", h.HandleInitialize)
	group.Post("/connect", h.HandleConnect)
	group.Post("/disconnect", h.HandleDisconnect)
	group.Post("/cleanup", h.HandleCleanup)
	group.Post("/write", h.HandleWrite)
	group.Get("/read", h.HandleRead)
	group.Post("/allocate", h.HandleAllocate)
}

// HandleStatus returns the client status.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleInitialize initializes the client.
func (h *Handler) HandleInitialize(c *fiber.Ctx) error {
	status, err := h.service.Initialize(c.Context())
	if err != nil {
		return h.fail(c, "Initialize failed", err)
	}
	return c.JSON(status)
}

// HandleConnect connects with retries. Exhausted retries are reported as 503
// together with the status; they are not an error of the handler.
func (h *Handler) HandleConnect(c *fiber.Ctx) error {
	ok, status := h.service.Connect(c.Context())
	if !ok {
		logger.WithRayID(h.service.logger, c).Warn("Connect gave up")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"connected": false,
			"status":    status,
		})
	}
	return c.JSON(fiber.Map{
		"connected": true,
		"status":    status,
	})
}

// HandleDisconnect closes the transport.
func (h *Handler) HandleDisconnect(c *fiber.Ctx) error {
	return c.JSON(h.service.Disconnect())
}

// HandleCleanup releases the client.
func (h *Handler) HandleCleanup(c *fiber.Ctx) error {
	return c.JSON(h.service.Cleanup())
}

// HandleWrite writes the request body.
func (h *Handler) HandleWrite(c *fiber.Ctx) error {
	data := c.Body()
	if err := h.service.Write(c.Context(), data); err != nil {
		return h.fail(c, "Write failed", err)
	}
	return c.JSON(fiber.Map{"written": len(data)})
}

// HandleRead reads ?size bytes.
func (h *Handler) HandleRead(c *fiber.Ctx) error {
	size, err := sizeParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	data, err := h.service.Read(c.Context(), size)
	if err != nil {
		return h.fail(c, "Read failed", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(data)
}

// HandleAllocate replaces the buffer with one of ?size bytes.
func (h *Handler) HandleAllocate(c *fiber.Ctx) error {
	size, err := sizeParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	status, err := h.service.Allocate(c.Context(), size)
	if err != nil {
		return h.fail(c, "Allocate failed", err)
	}
	return c.JSON(status)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	code := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if code >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	var initErr *storage.InitializationError
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return fiber.StatusConflict
	case errors.Is(err, buffer.ErrBufferOverflow):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, transport.ErrNotConnected):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &initErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func sizeParam(c *fiber.Ctx) (int, error) {
	raw := c.Query("size")
	if raw == "" {
		return 0, errors.New("size is required")
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 0 {
		return 0, errors.New("size must be a non-negative integer")
	}
	return size, nil
}
