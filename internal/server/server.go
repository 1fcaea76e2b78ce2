package server

import (
	"ctchen222/Tic-Tac-Toe-AI/internal/api/controller"
	"ctchen222/Tic-Tac-Toe-AI/internal/api/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("server")

type Server struct {
	engine      *gin.Engine
	gameService service.GameService
	upgrader    websocket.Upgrader
}

// NewServer builds the gin engine serving the REST API and the WebSocket
// endpoint.
func NewServer(gameService service.GameService, gameController *controller.GameController) *Server {
	s := &Server{
		engine:      gin.New(),
		gameService: gameService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery())
	s.registerHandlers(gameController)
	return s
}

func (s *Server) registerHandlers(gc *controller.GameController) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		api.POST("/games", gc.Create)
		api.GET("/games/:id", gc.Get)
		api.POST("/games/:id/moves", gc.Move)
		api.DELETE("/games/:id", gc.Delete)
	}

	s.engine.GET("/ws", s.handleWebSocket)
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
