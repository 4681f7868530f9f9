// Package livefeed reads camera frames pushed by the parking lot's live stream socket.
package livefeed

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"parkvision-client/internal/common/config"
	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/common/logger"
)

var jpegMagic = []byte{0xFF, 0xD8}

// Frame is one decoded JPEG image.
type Frame struct {
	JPEG       []byte
	ReceivedAt time.Time
}

// message is the server payload: {"frame": "<base64 jpeg>"}.
type message struct {
	Frame string `json:"frame"`
}

// Feed owns one socket connection. There is no reconnection; dial again
// after Done is closed.
type Feed struct {
	conn    *websocket.Conn
	frames  chan Frame
	done    chan struct{}
	logger  logger.Logger
	once    sync.Once
	closing atomic.Bool
	err     atomic.Value
	skipped atomic.Int64
}

// Dial connects to cfg.URL. The returned Feed delivers frames until the
// socket closes or Close is called.
func Dial(ctx context.Context, cfg config.LiveStreamConfig, log logger.Logger) (*Feed, error) {
	if cfg.URL == "" {
		return nil, apperrors.NewValidationError("Live stream is not configured", "live_stream.url is empty")
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: config.GetDuration(cfg.HandshakeTimeout),
		ReadBufferSize:   64 * 1024,
	}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		log.Error("live stream dial failed", map[string]interface{}{"url": cfg.URL, "error": err.Error()})
		return nil, apperrors.NewStreamFailedError(err)
	}
	log.Info("live stream connected", map[string]interface{}{"url": cfg.URL})

	f := &Feed{
		conn:   conn,
		frames: make(chan Frame, 1),
		done:   make(chan struct{}),
		logger: log.WithFields(map[string]interface{}{"component": "livefeed"}),
	}
	go f.readLoop()
	return f, nil
}

// Frames delivers decoded frames. Slow readers only see the newest frame.
func (f *Feed) Frames() <-chan Frame { return f.frames }

// Done is closed when the connection ends.
func (f *Feed) Done() <-chan struct{} { return f.done }

// Err returns the error that ended the feed, nil after a clean close.
func (f *Feed) Err() error {
	if v, ok := f.err.Load().(error); ok {
		return v
	}
	return nil
}

// Skipped counts messages dropped as malformed.
func (f *Feed) Skipped() int64 { return f.skipped.Load() }

// Close sends a close frame and tears the connection down.
func (f *Feed) Close() error {
	var err error
	f.once.Do(func() {
		f.closing.Store(true)
		_ = f.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = f.conn.Close()
	})
	<-f.done
	return err
}

func (f *Feed) readLoop() {
	defer close(f.done)
	defer close(f.frames)

	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !f.closing.Load() {
				f.err.Store(error(apperrors.NewStreamFailedError(err)))
				f.logger.Warn("live stream disconnected", map[string]interface{}{"error": err.Error()})
			} else {
				f.logger.Info("live stream closed", nil)
			}
			return
		}

		jpeg, err := DecodeFrame(data)
		if err != nil {
			f.skipped.Add(1)
			f.logger.Debug("skipping frame", map[string]interface{}{"error": err.Error()})
			continue
		}
		if jpeg == nil {
			continue
		}
		f.deliver(Frame{JPEG: jpeg, ReceivedAt: time.Now()})
	}
}

// deliver replaces an unread frame rather than blocking the socket.
func (f *Feed) deliver(frame Frame) {
	select {
	case f.frames <- frame:
		return
	default:
	}
	select {
	case <-f.frames:
	default:
	}
	select {
	case f.frames <- frame:
	default:
	}
}

// DecodeFrame extracts the JPEG bytes from a socket message. Messages without
// a frame yield nil, nil.
func DecodeFrame(data []byte) ([]byte, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, apperrors.NewMalformedMessageError("invalid json: " + err.Error())
	}
	if msg.Frame == "" {
		return nil, nil
	}
	jpeg, err := base64.StdEncoding.DecodeString(msg.Frame)
	if err != nil {
		return nil, apperrors.NewMalformedMessageError("invalid base64: " + err.Error())
	}
	if !bytes.HasPrefix(jpeg, jpegMagic) {
		return nil, apperrors.NewMalformedMessageError("frame is not a jpeg image")
	}
	return jpeg, nil
}
