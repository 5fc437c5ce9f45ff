// Package api is the gin-based HTTP command surface over the modem engine.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/i4energy/gsm-core/atproto"
	"github.com/i4energy/gsm-core/modem"
)

// Server wires gin routes to a running Modem.
type Server struct {
	Logger *slog.Logger
	Modem  *modem.Modem

	router *gin.Engine
}

// NewServer builds the gin router and registers every route. releaseMode
// suppresses gin's default request logger, the way the teacher's restapi.go
// avoids it for anything above debug level.
func NewServer(m *modem.Modem, logger *slog.Logger, releaseMode bool) *Server {
	var router *gin.Engine
	if releaseMode {
		gin.SetMode(gin.ReleaseMode)
		router = gin.New()
		router.Use(gin.Recovery())
	} else {
		router = gin.Default()
	}

	s := &Server{Logger: logger, Modem: m, router: router}
	s.routes()
	return s
}

// Handler returns the http.Handler to mount on an *http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealthz)

	s.router.POST("/sms", s.handleSendSMS)
	s.router.GET("/sms", s.handleListSMS)
	s.router.GET("/sms/:index", s.handleReadSMS)
	s.router.DELETE("/sms/:index", s.handleDeleteSMS)

	s.router.GET("/network", s.handleNetwork)
	s.router.GET("/network/operators", s.handleOperators)

	s.router.GET("/sim", s.handleSIM)

	s.router.POST("/calls/dial", s.handleDial)
	s.router.POST("/calls/answer", s.handleAnswer)
	s.router.POST("/calls/hangup", s.handleHangup)
	s.router.GET("/calls", s.handleCalls)

	s.router.GET("/phonebook", s.handleReadPhonebook)
	s.router.GET("/phonebook/search", s.handleFindPhonebook)
	s.router.POST("/phonebook", s.handleWritePhonebook)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// memoryFromQuery resolves a "memory" query parameter (e.g. "SM", "ME") to
// its MemoryKind via the same token table the wire parsers use, defaulting
// to SM (the SIM's own storage) when absent or unrecognized.
func memoryFromQuery(c *gin.Context) atproto.MemoryKind {
	token := c.DefaultQuery("memory", "SM")
	for _, entry := range atproto.DefaultMemoryMap {
		if entry.Token == token {
			return entry.Kind
		}
	}
	return atproto.MemSM
}

// statusCode maps an engine-level error to the HTTP status the teacher's
// sendError helper would have picked, generalized from a single bare 500
// to the full Status taxonomy.
func statusCode(err error) int {
	var cmdErr *modem.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Status {
		case modem.StatusBusy:
			return http.StatusTooManyRequests
		case modem.StatusTimeout:
			return http.StatusGatewayTimeout
		case modem.StatusParameter:
			return http.StatusBadRequest
		case modem.StatusError, modem.StatusNoMemory:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	s.Logger.Error("command failed", "path", c.FullPath(), "error", err)
	c.JSON(statusCode(err), gin.H{"message": err.Error()})
}

type sendSMSRequest struct {
	To      string `json:"to" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleSendSMS(c *gin.Context) {
	var req sendSMSRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := s.Modem.SendSMS(c.Request.Context(), req.To, req.Message); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (s *Server) handleListSMS(c *gin.Context) {
	memory := memoryFromQuery(c)
	status := c.DefaultQuery("status", "ALL")
	entries, err := s.Modem.ListSMS(c.Request.Context(), memory, status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleReadSMS(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "index must be an integer"})
		return
	}
	memory := memoryFromQuery(c)
	entry, err := s.Modem.ReadSMS(c.Request.Context(), memory, index)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleDeleteSMS(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "index must be an integer"})
		return
	}
	if err := s.Modem.DeleteSMS(c.Request.Context(), index); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleNetwork(c *gin.Context) {
	reg, err := s.Modem.RegistrationStatus(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	operator, err := s.Modem.CurrentOperator(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registration": reg, "operator": operator})
}

func (s *Server) handleOperators(c *gin.Context) {
	operators, err := s.Modem.ScanOperators(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, operators)
}

func (s *Server) handleSIM(c *gin.Context) {
	state, err := s.Modem.SIMState(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sim": state})
}

type dialRequest struct {
	Number string `json:"number" binding:"required"`
}

func (s *Server) handleDial(c *gin.Context) {
	var req dialRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := s.Modem.Dial(c.Request.Context(), req.Number); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "dialing"})
}

func (s *Server) handleAnswer(c *gin.Context) {
	if err := s.Modem.Answer(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "answered"})
}

func (s *Server) handleHangup(c *gin.Context) {
	if err := s.Modem.Hangup(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "hung up"})
}

func (s *Server) handleCalls(c *gin.Context) {
	calls, err := s.Modem.Calls(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, calls)
}

func (s *Server) handleReadPhonebook(c *gin.Context) {
	from, _ := strconv.Atoi(c.DefaultQuery("from", "1"))
	to, _ := strconv.Atoi(c.DefaultQuery("to", "20"))
	entries, err := s.Modem.ReadPhonebook(c.Request.Context(), from, to)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleFindPhonebook(c *gin.Context) {
	name := c.Query("name")
	entries, err := s.Modem.FindPhonebook(c.Request.Context(), name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type writePhonebookRequest struct {
	Position int    `json:"position"`
	Number   string `json:"number" binding:"required"`
	Type     int    `json:"type"`
	Name     string `json:"name" binding:"required"`
}

func (s *Server) handleWritePhonebook(c *gin.Context) {
	var req writePhonebookRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	numberType := atproto.NumberType(req.Type)
	if req.Type == 0 {
		numberType = atproto.NumberInternational
	}
	if err := s.Modem.WritePhonebook(c.Request.Context(), req.Position, req.Number, numberType, req.Name); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "written"})
}
