package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/benbeisheim/chess-relay/internal/middleware"
	"github.com/benbeisheim/chess-relay/internal/service"
)

var (
	errClientClosed = errors.New("client closed")
	errSlowClient   = errors.New("outbound queue full")
)

// wsClient queues outbound frames for a single writer goroutine so the relay
// never blocks on a slow socket.
type wsClient struct {
	conn   *websocket.Conn
	out    chan []byte
	closed chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newWSClient(conn *websocket.Conn, size int) *wsClient {
	return &wsClient{
		conn:   conn,
		out:    make(chan []byte, size),
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (c *wsClient) Send(data []byte) error {
	select {
	case <-c.closed:
		return errClientClosed
	default:
	}
	select {
	case c.out <- data:
		return nil
	default:
		c.shutdown()
		return errSlowClient
	}
}

// writeLoop is the only writer on conn. done is closed when it returns; the
// handler must wait for it before giving conn back to the pool.
func (c *wsClient) writeLoop(logger *zap.Logger) {
	defer close(c.done)
	for {
		select {
		case <-c.closed:
			return
		case data := <-c.out:
			select {
			case <-c.closed:
				return
			default:
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("write failed", zap.Error(err))
				c.shutdown()
				return
			}
		}
	}
}

// shutdown closes the socket, which also unblocks the read loop.
func (c *wsClient) shutdown() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

type WebSocketController struct {
	ctx          context.Context
	gameService  *service.GameService
	outboundSize int
	logger       *zap.Logger
}

func NewWebSocketController(ctx context.Context, gameService *service.GameService, outboundSize int, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		ctx:          ctx,
		gameService:  gameService,
		outboundSize: outboundSize,
		logger:       logger,
	}
}

// RequireGame rejects upgrades for unknown games with a plain 404.
func (wsc *WebSocketController) RequireGame(c *fiber.Ctx) error {
	if _, err := wsc.gameService.GetGameState(c.Params("gameId")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Next()
}

// HandleConnection is called when a new websocket connection is established.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	addr, _ := c.Locals(middleware.LocalClientAddr).(string)
	logger := wsc.logger.With(zap.String("game_id", gameID), zap.String("addr", addr))

	client := newWSClient(c, wsc.outboundSize)
	cs, err := wsc.gameService.Open(wsc.ctx, gameID, addr, client)
	if err != nil {
		logger.Info("connection refused", zap.Error(err))
		_ = c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, err.Error()))
		client.shutdown()
		return
	}
	go client.writeLoop(logger)
	defer func() {
		cs.Close()
		client.shutdown()
		<-client.done
	}()

	logger.Info("connection established", zap.String("role", string(cs.Role())))
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("read error", zap.Error(err))
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if err := cs.Handle(wsc.ctx, message); err != nil {
			if errors.Is(err, service.ErrSessionClosed) || errors.Is(err, context.Canceled) {
				break
			}
			logger.Debug("frame dropped", zap.Error(err))
		}
	}
	logger.Info("connection closed")
}
