package server

import (
	"log/slog"
	"net/http"
	"time"

	"ctchen222/tictactoe-local/internal/api/controller"
	"ctchen222/tictactoe-local/internal/api/response"
	"ctchen222/tictactoe-local/internal/api/service"
	"ctchen222/tictactoe-local/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	hub              *hub.Hub
	gameService      service.GameService
	playerController *controller.PlayerController
	gameController   *controller.GameController
	upgrader         websocket.Upgrader
	engine           *gin.Engine
}

func NewServer(h *hub.Hub, playerService service.PlayerService, gameService service.GameService) *Server {
	s := &Server{
		hub:              h,
		gameService:      gameService,
		playerController: controller.NewPlayerController(playerService),
		gameController:   controller.NewGameController(gameService),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Only served on a local address; any page may connect.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine = s.routes()
	return s
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"status": "ok"})
	})
	r.GET("/ws", s.handleWebSocket)

	api := r.Group("/api")

	players := api.Group("/players")
	players.GET("", s.playerController.List)
	players.GET("/standings", s.playerController.Standings)
	players.GET("/selectable", s.playerController.Selectable)
	players.POST("", s.playerController.Add)
	players.POST("/reset", s.playerController.Reset)
	players.DELETE("", s.playerController.DeleteAll)
	players.DELETE("/:name", s.playerController.Delete)

	g := api.Group("/game")
	g.POST("", s.gameController.Start)
	g.GET("", s.gameController.State)
	g.POST("/move", s.gameController.Move)
	g.POST("/restart", s.gameController.Restart)
	g.DELETE("", s.gameController.End)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "HTTP request",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// handleWebSocket upgrades the connection and hands it to the hub for the
// rest of its life.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		span.End()
		return
	}
	span.End()

	s.hub.Serve(ctx, conn, s.gameService)
}
