package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/judgegodwins/chess-rooms/util"
	"github.com/judgegodwins/chess-rooms/ws"
	"github.com/rs/cors"
)

type Server struct {
	config    *util.Config
	wsManager *ws.Manager
	router    *gin.Engine
}

func NewServer(config *util.Config, manager *ws.Manager) *Server {
	router := gin.Default()
	router.SetHTMLTemplate(pageTemplates)

	server := &Server{
		config:    config,
		wsManager: manager,
		router:    router,
	}

	router.GET("/ws", server.wsManager.ServeWS)
	router.GET("/", server.Index)
	router.GET("/new", server.NewRoom)
	router.GET("/room/:id", server.RoomPage)

	return server
}

func (s *Server) Start() error {
	handler := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(s.router)

	return http.ListenAndServe(fmt.Sprintf(":%v", s.config.Port), handler)
}
