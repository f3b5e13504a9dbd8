// Package tsingest demuxes an MPEG-TS stream over SRT and hands ARIB
// caption PES payloads to a b24.Decoder.
package tsingest

import (
	"context"
	"fmt"
	"io"

	astisrt "github.com/asticode/go-astisrt/pkg"
	"github.com/asticode/go-astits"
	"go.uber.org/zap"

	"github.com/ariblive/captionb24/b24"
	"github.com/ariblive/captionb24/internal/config"
)

// componentTag descriptor values ARIB STD-B10 reserves for closed
// captions and superimposed text carried as private data (stream_type
// 0x06). go-astits exposes the stream identifier descriptor's raw tag
// as Descriptor.StreamIdentifier.ComponentTag; the exact accessor name
// is assumed from the library's documented descriptor tag table since
// no vendored copy of go-astits ships with this module.
const (
	componentTagCaptionLow  = 0x30
	componentTagCaptionHigh = 0x37
	componentTagSuperimpose = 0x87
)

// Ingester owns an SRT connection and feeds demuxed ARIB caption PES
// payloads into a b24.Decoder.
type Ingester struct {
	cfg *config.Config
	log *zap.SugaredLogger
}

// New builds an Ingester.
func New(cfg *config.Config, log *zap.SugaredLogger) *Ingester {
	return &Ingester{cfg: cfg, log: log}
}

// Connect dials the configured SRT endpoint. astisrt.Startup/CleanUp is
// the caller's responsibility, wired through an fx.Lifecycle hook.
func (i *Ingester) Connect(ctx context.Context, cancel context.CancelFunc) (*astisrt.Connection, error) {
	conn, err := astisrt.Dial(astisrt.DialOptions{
		ConnectionOptions: []astisrt.ConnectionOption{
			astisrt.WithLatency(i.cfg.SRTConnectionLatencyMS),
			astisrt.WithStreamid(i.cfg.SRTStreamID),
			astisrt.WithCongestion("live"),
			astisrt.WithTranstype(astisrt.Transtype(astisrt.TranstypeLive)),
		},
		OnDisconnect: func(conn *astisrt.Connection, err error) {
			i.log.Infow("srt disconnected", "error", err)
			cancel()
		},
		Host: i.cfg.SRTHost,
		Port: i.cfg.SRTPort,
	})
	if err != nil {
		i.log.Errorw("failed to connect srt", "error", err)
		return nil, err
	}
	return conn, nil
}

// Run reads MPEG-TS packets from conn, locates the ARIB caption
// elementary stream via the PMT, and forwards its PES payloads to dec.
// onCaption is invoked with every caption dec emits.
func (i *Ingester) Run(ctx context.Context, conn *astisrt.Connection, dec *b24.Decoder, onCaption func(b24.Caption)) error {
	r, w := io.Pipe()
	defer r.Close()

	go i.readIntoPipe(conn, w)

	dmx := astits.NewDemuxer(ctx, r)
	captionPID := uint16(0)

	for {
		d, err := dmx.NextData()
		if err != nil {
			i.log.Errorw("failed to demux mpeg ts", "error", err)
			return fmt.Errorf("tsingest: demux: %w", err)
		}

		if d.PMT != nil {
			captionPID = i.findCaptionPID(d.PMT)
		}

		if captionPID != 0 && d.PID == captionPID && d.PES != nil {
			pts := b24.PTSNoPTS
			if d.PES.Header.OptionalHeader != nil && d.PES.Header.OptionalHeader.PTS != nil {
				pts = d.PES.Header.OptionalHeader.PTS.Base / 90 // 90 kHz ticks to milliseconds
			}
			if _, err := dec.Decode(d.PES.Data, pts, onCaption); err != nil {
				i.log.Errorw("failed to decode arib caption pes", "error", err)
			}
		}
	}
}

// findCaptionPID looks for the private-data elementary stream carrying
// an ARIB caption or superimposed-text component descriptor.
func (i *Ingester) findCaptionPID(pmt *astits.PMTData) uint16 {
	for _, es := range pmt.ElementaryStreams {
		if es.StreamType != astits.StreamTypePrivateData {
			continue
		}
		for _, d := range es.ElementaryStreamDescriptors {
			if d.StreamIdentifier == nil {
				continue
			}
			tag := d.StreamIdentifier.ComponentTag
			if (tag >= componentTagCaptionLow && tag <= componentTagCaptionHigh) || tag == componentTagSuperimpose {
				return es.ElementaryPID
			}
		}
	}
	return 0
}

func (i *Ingester) readIntoPipe(conn *astisrt.Connection, w *io.PipeWriter) {
	defer conn.Close()
	defer w.Close()

	buf := make([]byte, i.cfg.SRTReadBufferSizeBytes)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			i.log.Errorw("srt conn failed to read mpeg ts", "error", err)
			return
		}
		if _, err := w.Write(buf[:n]); err != nil {
			i.log.Errorw("failed to write mpeg ts into pipe", "error", err)
			return
		}
	}
}
