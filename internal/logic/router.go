package logic

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"apisagro-backend/internal/common"
	"apisagro-backend/internal/db"
)

// Generator produces model text for a prompt; *llm.ReplyClient in production.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Handler struct {
	store db.Store
	gen   Generator
}

func NewHandler(store db.Store, gen Generator) *Handler {
	return &Handler{store: store, gen: gen}
}

// SetupRouter 路由入口
func SetupRouter(store db.Store, gen Generator) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(), recovery(), CORS())

	h := NewHandler(store, gen)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "API is running"})
	})
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/chat", h.CreateChat)
	r.GET("/chat", h.ListChats)
	r.POST("/bee-traffic", h.CreateBeeTraffic)
	r.GET("/bee-traffic", h.ListBeeTraffic)
	r.POST("/crop-rotation", h.CreateCropRotation)
	r.GET("/crop-rotation", h.ListCropRotations)

	return r
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		common.LoggerFromContext(c.Request.Context()).WithError(err).Warn("store ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateChat stores the message and, for a user message, stores and returns
// a generated reply.
func (h *Handler) CreateChat(c *gin.Context) {
	const fallback = "Internal server error"

	var req ChatCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, db.KindChat, unprocessable(err), fallback)
		return
	}
	isUser, err := req.Validate()
	if err != nil {
		writeError(c, db.KindChat, err, fallback)
		return
	}

	ctx := c.Request.Context()
	userChat := db.Chat{Message: req.Message, IsUser: isUser}
	if err := h.store.CreateChat(ctx, &userChat); err != nil {
		writeError(c, db.KindChat, err, fallback)
		return
	}
	recordsCreated.WithLabelValues(db.KindChat).Inc()

	if !isUser {
		c.JSON(http.StatusOK, userChat)
		return
	}

	reply, err := h.gen.Generate(ctx, common.ChatPrompt(req.Message))
	if err != nil {
		writeError(c, db.KindChat, err, fallback)
		return
	}

	aiChat := db.Chat{Message: reply, IsUser: false}
	if err := h.store.CreateChat(ctx, &aiChat); err != nil {
		writeError(c, db.KindChat, err, fallback)
		return
	}
	recordsCreated.WithLabelValues(db.KindChat).Inc()

	c.JSON(http.StatusOK, aiChat)
}

// ListChats 聊天历史, oldest first. An empty history is not an error.
func (h *Handler) ListChats(c *gin.Context) {
	chats, err := h.store.ListChats(c.Request.Context())
	if err != nil {
		writeError(c, db.KindChat, err, "Failed to load chat history")
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (h *Handler) CreateBeeTraffic(c *gin.Context) {
	const fallback = "Failed to save bee traffic report"

	var req BeeTrafficCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, db.KindBeeTraffic, unprocessable(err), fallback)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, db.KindBeeTraffic, err, fallback)
		return
	}

	report := db.BeeTraffic{Level: req.Level}
	if err := h.store.CreateBeeTraffic(c.Request.Context(), &report); err != nil {
		writeError(c, db.KindBeeTraffic, err, fallback)
		return
	}
	recordsCreated.WithLabelValues(db.KindBeeTraffic).Inc()

	c.JSON(http.StatusCreated, report)
}

// ListBeeTraffic answers 404 when nothing has been reported yet.
func (h *Handler) ListBeeTraffic(c *gin.Context) {
	reports, err := h.store.ListBeeTraffic(c.Request.Context())
	if err != nil {
		writeError(c, db.KindBeeTraffic, err, "Failed to load bee traffic reports")
		return
	}
	if len(reports) == 0 {
		writeError(c, db.KindBeeTraffic, notFound("No bee traffic reports found"), "")
		return
	}
	c.JSON(http.StatusOK, reports)
}

// CreateCropRotation generates the plan text first when the caller left it
// empty or sent "auto".
func (h *Handler) CreateCropRotation(c *gin.Context) {
	const fallback = "Failed to save crop rotation plan"

	var req CropRotationCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, db.KindCropRotation, unprocessable(err), fallback)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, db.KindCropRotation, err, fallback)
		return
	}

	ctx := c.Request.Context()
	plan := req.Plan
	if req.WantsGeneratedPlan() {
		generated, err := h.gen.Generate(ctx, common.CropRotationPrompt(req.Crop, req.Soil, req.Duration))
		if err != nil {
			writeError(c, db.KindCropRotation, err, fallback)
			return
		}
		plan = generated
	}

	record := db.CropRotation{
		Crop:     req.Crop,
		Soil:     req.Soil,
		Duration: req.Duration,
		Plan:     plan,
	}
	if err := h.store.CreateCropRotation(ctx, &record); err != nil {
		writeError(c, db.KindCropRotation, err, fallback)
		return
	}
	recordsCreated.WithLabelValues(db.KindCropRotation).Inc()

	c.JSON(http.StatusOK, CropRotationSaved{
		Message: common.CropRotationSavedMessage,
		Data:    record,
	})
}

// ListCropRotations answers 404 when no plan exists.
func (h *Handler) ListCropRotations(c *gin.Context) {
	plans, err := h.store.ListCropRotations(c.Request.Context())
	if err != nil {
		writeError(c, db.KindCropRotation, err, "Failed to load crop rotation plans")
		return
	}
	if len(plans) == 0 {
		writeError(c, db.KindCropRotation, notFound("No crop rotation plans found"), "")
		return
	}
	c.JSON(http.StatusOK, plans)
}
