package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/domain/entities"
	"github.com/alextgu/groq-voicebot/domain/repositories"
	"github.com/alextgu/groq-voicebot/internal/audio"
	"github.com/alextgu/groq-voicebot/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 2 * 1024 * 1024 // recorded utterances arrive whole
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Hub maintains the set of active clients. Each client owns its own
// session; the hub only tracks membership and shared dependencies.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	transcriber repositories.Transcriber
	turns       *usecase.TurnService

	detectorConfig audio.DetectorConfig

	// captureDir, when non-empty, archives detector-closed utterances
	// as WAV files for transcription debugging.
	captureDir string

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(
	transcriber repositories.Transcriber,
	turns *usecase.TurnService,
	detectorConfig audio.DetectorConfig,
	captureDir string,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		clients:        make(map[string]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		transcriber:    transcriber,
		turns:          turns,
		detectorConfig: detectorConfig,
		captureDir:     captureDir,
		logger:         logger,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.session.ID] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("sessionID", client.session.ID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.session.ID]; ok {
				delete(h.clients, client.session.ID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("sessionID", client.session.ID))
		}
	}
}

// Counts reports total and awake session counts for the health surface.
func (h *Hub) Counts() (total, awake int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		total++
		if client.session.Awake() {
			awake++
		}
	}
	return total, awake
}

// WriteData pairs a websocket frame type with its payload.
type WriteData struct {
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and the
// session logic. Reads, turn execution and writes each run on their
// own goroutine; turns on one session stay strictly sequential because
// a single goroutine drains the turn queue.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	session  *entities.Session
	detector *audio.Detector

	// utterances queues transcribed text for the turn goroutine so the
	// read loop stays responsive to ping and stop while a turn runs.
	utterances chan string

	// playTok is the cancellation token of the turn currently speaking,
	// nil between turns.
	playTok atomic.Pointer[audio.Token]

	ctx    context.Context
	cancel context.CancelFunc

	logger *zap.Logger
}

// HandleWebSocket handles websocket upgrade requests from the peer.
func HandleWebSocket(hub *Hub, c echo.Context, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan WriteData, 256),
		session:    entities.NewSession(),
		detector:   audio.NewDetector(hub.detectorConfig),
		utterances: make(chan string, 4),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}

	client.hub.register <- client

	go client.writePump()
	go client.runTurns()
	go client.readPump()

	// The client starts asleep and hears that immediately.
	_ = client.SendStatus(entities.ModeAsleep, "waiting for wake phrase")

	return nil
}

// readPump pumps messages from the websocket connection to the session.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		close(c.utterances)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.processTextMessage(message)
		case websocket.BinaryMessage:
			c.processAudioPayload(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the session to the websocket connection.
// Its defer cancels the client context: when the writer dies, senders
// blocked on a full send buffer must unwind or the client never
// unregisters.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.cancel()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// runTurns executes queued turns one at a time. It is the only
// goroutine that touches the session after registration, and it owns
// the unregister so the send channel cannot close under a running turn.
func (c *Client) runTurns() {
	defer func() { c.hub.unregister <- c }()

	for text := range c.utterances {
		tok := audio.NewToken()
		c.playTok.Store(tok)

		if err := c.hub.turns.HandleUtterance(c.ctx, c.session, c, text, tok); err != nil {
			c.logger.Error("Turn failed",
				zap.String("sessionID", c.session.ID),
				zap.Error(err))
		}

		c.playTok.Store(nil)
	}
}

// processTextMessage dispatches one inbound JSON frame. A malformed
// frame produces an error message; the connection stays open.
func (c *Client) processTextMessage(message []byte) {
	msg, err := ParseInbound(message)
	if err != nil {
		c.logger.Warn("Rejected inbound message", zap.Error(err))
		_ = c.SendError("invalid_message", err.Error())
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.enqueue(NewPongMessage())

	case MessageTypeStop:
		if tok := c.playTok.Load(); tok != nil {
			tok.Cancel()
			c.logger.Info("Playback interrupted by client",
				zap.String("sessionID", c.session.ID))
		}

	case MessageTypeConfig:
		c.applyConfig(msg)

	case MessageTypeText:
		c.queueUtterance(msg.Text)
	}
}

// applyConfig rebuilds the detector with the client's tuning and
// acknowledges the values in effect.
func (c *Client) applyConfig(msg *InboundMessage) {
	cfg := c.hub.detectorConfig
	if msg.SilenceThreshold > 0 {
		cfg.SilenceThreshold = msg.SilenceThreshold
	}
	if msg.SilenceDuration > 0 {
		cfg.SilenceDuration = time.Duration(msg.SilenceDuration * float64(time.Second))
	}
	c.detector = audio.NewDetector(cfg)

	if cfg.SilenceThreshold == 0 {
		cfg.SilenceThreshold = 500
	}
	if cfg.SilenceDuration == 0 {
		cfg.SilenceDuration = 2 * time.Second
	}
	c.enqueue(&ConfigAckMessage{
		BaseMessage:      BaseMessage{Type: MessageTypeConfigAck, Timestamp: stamp()},
		SilenceThreshold: cfg.SilenceThreshold,
		SilenceDuration:  cfg.SilenceDuration.Seconds(),
	})
}

// processAudioPayload handles one binary frame. Recorded utterances
// (wav/webm) transcribe immediately; raw PCM feeds the boundary
// detector until sustained silence closes the utterance.
func (c *Client) processAudioPayload(data []byte) {
	format := audio.DetectFormat(data)

	if format == audio.FormatPCM {
		c.feedDetector(data)
		return
	}

	if len(data) < audio.MinPayloadBytes {
		c.logger.Debug("Dropping undersized audio payload",
			zap.String("sessionID", c.session.ID),
			zap.Int("size", len(data)))
		return
	}
	c.transcribe(data, format)
}

// feedDetector slices a PCM payload into detector frames and reacts to
// the verdict. An utterance closed by silence is wrapped in a WAV
// container before transcription.
func (c *Client) feedDetector(data []byte) {
	for start := 0; start < len(data); start += audio.FrameBytes {
		end := start + audio.FrameBytes
		if end > len(data) {
			end = len(data)
		}

		switch c.detector.Feed(data[start:end]) {
		case audio.VerdictPending:

		case audio.VerdictTooShort:
			c.logger.Debug("Discarding capture too short to transcribe",
				zap.String("sessionID", c.session.ID),
				zap.Duration("duration", c.detector.Duration()))
			c.detector.Reset()

		case audio.VerdictComplete:
			pcm := c.detector.Utterance()
			c.detector.Reset()
			if c.hub.captureDir != "" {
				c.saveCapture(pcm)
			}
			wav := audio.EncodeWAV(pcm, audio.SampleRate, audio.Channels)
			c.transcribe(wav, audio.FormatWAV)
		}
	}
}

// saveCapture archives a detector-closed utterance to the capture
// directory. Archival failures are logged and never block the turn.
func (c *Client) saveCapture(pcm []byte) {
	path := filepath.Join(c.hub.captureDir,
		fmt.Sprintf("%s-%d.wav", c.session.ID, time.Now().UnixNano()))

	sink, err := audio.CreateWAVFile(path, audio.SampleRate, audio.Channels)
	if err != nil {
		c.logger.Warn("Failed to open capture file", zap.Error(err))
		return
	}
	if _, err := sink.Write(pcm); err != nil {
		c.logger.Warn("Failed to write capture file", zap.Error(err))
		sink.Close()
		return
	}
	if err := sink.Close(); err != nil {
		c.logger.Warn("Failed to close capture file", zap.Error(err))
		return
	}

	c.logger.Debug("Archived utterance capture",
		zap.String("sessionID", c.session.ID),
		zap.String("path", path),
		zap.Int("pcmBytes", len(pcm)))
}

// transcribe converts audio to text, echoes the transcription and
// queues the turn.
func (c *Client) transcribe(data []byte, format string) {
	ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
	defer cancel()

	text, err := c.hub.transcriber.Transcribe(ctx, data, format)
	if err != nil {
		c.logger.Error("Transcription failed",
			zap.String("sessionID", c.session.ID),
			zap.Error(err))
		_ = c.SendError("transcription_failed", "Could not understand the audio.")
		return
	}
	if text == "" {
		return
	}

	_ = c.SendTranscription(text)
	c.queueUtterance(text)
}

// queueUtterance hands a transcribed utterance to the turn goroutine.
// A full queue drops the utterance rather than stalling the read loop.
func (c *Client) queueUtterance(text string) {
	select {
	case c.utterances <- text:
	default:
		c.logger.Warn("Turn queue full, dropping utterance",
			zap.String("sessionID", c.session.ID))
		_ = c.SendError("busy", "Still processing the previous turn.")
	}
}

// enqueue serializes a message onto the send channel. A full send
// buffer blocks the caller until the write pump drains it or the
// client context is cancelled, which happens as soon as either pump
// exits.
func (c *Client) enqueue(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// Client implements the transport the turn service speaks through.
var _ usecase.Transport = (*Client)(nil)

// SendStatus implements usecase.Transport.
func (c *Client) SendStatus(mode entities.SessionMode, detail string) error {
	return c.enqueue(NewStatusMessage(c.session.ID, mode, detail))
}

// SendTranscription implements usecase.Transport.
func (c *Client) SendTranscription(text string) error {
	return c.enqueue(&TranscriptionMessage{
		BaseMessage: BaseMessage{Type: MessageTypeTranscription, Timestamp: stamp()},
		Text:        text,
	})
}

// SendAudioCue implements usecase.Transport.
func (c *Client) SendAudioCue(cue string) error {
	return c.enqueue(&AudioCueMessage{
		BaseMessage: BaseMessage{Type: MessageTypeAudioCue, Timestamp: stamp()},
		Cue:         cue,
	})
}

// SendFragment implements usecase.Transport.
func (c *Client) SendFragment(text string) error {
	return c.enqueue(&ResponseMessage{
		BaseMessage: BaseMessage{Type: MessageTypeResponse},
		Text:        text,
	})
}

// SendTurnComplete implements usecase.Transport.
func (c *Client) SendTurnComplete(fullText string, hasAudio bool) error {
	return c.enqueue(&ResponseMessage{
		BaseMessage: BaseMessage{Type: MessageTypeResponse, Timestamp: stamp()},
		Done:        true,
		FullText:    fullText,
		HasAudio:    hasAudio,
	})
}

// SendAudio implements usecase.Transport. Synthesized speech ships as
// one binary frame, always after the turn completion message.
func (c *Client) SendAudio(data []byte) error {
	select {
	case c.send <- WriteData{Type: websocket.BinaryMessage, Payload: data}:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// SendError implements usecase.Transport.
func (c *Client) SendError(code, message string) error {
	return c.enqueue(NewErrorMessage(code, message))
}
