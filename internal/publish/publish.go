// Package publish republishes decoded ARIB captions over a WebRTC data
// channel.
package publish

import (
	"context"
	"encoding/json"

	"github.com/pion/webrtc/v3"
	"go.uber.org/zap"

	"github.com/ariblive/captionb24/b24"
	"github.com/ariblive/captionb24/internal/config"
)

// captionMessage is the JSON envelope sent over the data channel.
type captionMessage struct {
	Type      string   `json:"type"`
	StartTime int64    `json:"startTime"`
	Text      string   `json:"text"`
	Cleared   bool     `json:"cleared,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// Publisher owns a WebRTC peer connection and its caption data channel.
type Publisher struct {
	cfg *config.Config
	log *zap.SugaredLogger
	api *webrtc.API
}

// New builds a Publisher.
func New(cfg *config.Config, log *zap.SugaredLogger) *Publisher {
	mediaEngine := &webrtc.MediaEngine{}
	_ = mediaEngine.RegisterDefaultCodecs()
	api := webrtc.NewAPI(webrtc.WithMediaEngine(mediaEngine))
	return &Publisher{cfg: cfg, log: log, api: api}
}

// CreatePeerConnection sets up a peer connection configured with the
// STUN servers from Config, calling cancel once the ICE connection state
// becomes Closed, Disconnected, Completed or Failed.
func (p *Publisher) CreatePeerConnection(cancel context.CancelFunc) (*webrtc.PeerConnection, error) {
	peerConnection, err := p.api.NewPeerConnection(webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{{URLs: p.cfg.StunServers}},
	})
	if err != nil {
		p.log.Errorw("error while creating a new peer connection", "error", err)
		return nil, err
	}

	peerConnection.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		finished := state == webrtc.ICEConnectionStateClosed ||
			state == webrtc.ICEConnectionStateDisconnected ||
			state == webrtc.ICEConnectionStateCompleted ||
			state == webrtc.ICEConnectionStateFailed
		if finished {
			cancel()
		}
		p.log.Infow("OnICEConnectionStateChange", "status", state.String())
	})

	return peerConnection, nil
}

// CreateCaptionChannel opens the data channel captions are sent on.
func (p *Publisher) CreateCaptionChannel(peer *webrtc.PeerConnection) (*webrtc.DataChannel, error) {
	return peer.CreateDataChannel("captions", nil)
}

// Publish marshals a decoded caption into a captionMessage and sends it
// on channel.
func (p *Publisher) Publish(channel *webrtc.DataChannel, c b24.Caption) error {
	msg := captionMessage{
		Type:      captionTypeName(c.Type),
		StartTime: c.PTS,
	}
	switch c.Type {
	case b24.CaptionText:
		msg.Text = captionText(c)
	case b24.ClearScreen:
		msg.Cleared = true
	case b24.CaptionManagement:
		for _, lang := range c.Languages {
			msg.Languages = append(msg.Languages, iso639String(lang.ISO639Code))
		}
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return channel.SendText(string(b))
}

// captionTypeName renders a CaptionType for the wire message, since
// CaptionType carries no String method of its own.
func captionTypeName(t b24.CaptionType) string {
	switch t {
	case b24.CaptionText:
		return "text"
	case b24.CaptionManagement:
		return "management"
	case b24.ClearScreen:
		return "clear"
	default:
		return "unknown"
	}
}

// captionText flattens a caption's regions into a single display
// string, concatenating every character's codepoints in region order.
func captionText(c b24.Caption) string {
	var runes []rune
	for _, region := range c.Regions {
		for _, ch := range region.Chars {
			runes = append(runes, ch.Content.Codepoints...)
		}
	}
	return string(runes)
}

// iso639String unpacks a 3-byte-packed ISO 639 code back into its
// ASCII letters, the inverse of framer.go's management-data packing.
func iso639String(code uint32) string {
	return string([]byte{
		byte(code >> 16),
		byte(code >> 8),
		byte(code),
	})
}
