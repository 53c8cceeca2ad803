package input

import (
	"fmt"
	"io"
	"math"

	"github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"
	"go.uber.org/zap"

	"github.com/decibelcooper/zfinder"
)

// ProioSource reads events from a proio file. Reco electrons are the
// "Reconstructed" tracks, generator electrons the "GenStable" particles with
// |PDG| = 11.
type ProioSource struct {
	stream
	path   string
	reader *proio.Reader
	opts   Options
}

func OpenProio(path string, opts Options) (*ProioSource, error) {
	reader, err := proio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open proio file %s: %w", path, err)
	}
	s := &ProioSource{path: path, reader: reader, opts: opts.withDefaults()}
	s.init()
	return s, nil
}

func (s *ProioSource) ScanEvents() <-chan *zfinder.Event {
	return s.scan(s.run)
}

func (s *ProioSource) run() {
	var number uint64
	for event := range s.reader.ScanEvents() {
		number++
		ev := buildEvent(0, number, proioTracks(event), proioElectrons(event), s.opts)
		if ev == nil {
			s.skip()
			continue
		}
		if !s.send(ev) {
			return
		}
	}

	if err := s.readErr(); err != nil {
		s.err = fmt.Errorf("failed to read proio file %s: %w", s.path, err)
	}
	s.opts.Logger.Debug("proio file done",
		zap.String("file", s.path),
		zap.Uint64("events", number),
		zap.Int64("skipped", s.Skipped()),
	)
}

// readErr collects what the reader reported while scanning. The scan ends
// with io.EOF both at the end of the file and when a bucket is cut short;
// in the latter case the last bucket header is still loaded.
func (s *ProioSource) readErr() error {
	for {
		select {
		case err, ok := <-s.reader.Err:
			if !ok {
				return nil
			}
			if err == nil {
				continue
			}
			if err != io.EOF {
				return err
			}
			if s.reader.BucketHeader != nil {
				return io.ErrUnexpectedEOF
			}
		default:
			return nil
		}
	}
}

func (s *ProioSource) Close() error {
	s.stop()
	s.reader.Close()
	return nil
}

func proioTracks(event *proio.Event) []*zfinder.Electron {
	var out []*zfinder.Electron
	for _, id := range event.TaggedEntries("Reconstructed") {
		track, ok := event.GetEntry(id).(*eic.Track)
		if !ok || len(track.Segment) == 0 {
			continue
		}
		seg := track.Segment[0]
		poq := seg.GetPoq()
		charge := int(math.Copysign(1, float64(seg.GetChargesign())))
		out = append(out, electronFromMomentum(poq.GetX(), poq.GetY(), poq.GetZ(), charge))
	}
	return out
}

func proioElectrons(event *proio.Event) []*zfinder.Electron {
	var out []*zfinder.Electron
	for _, id := range event.TaggedEntries("GenStable") {
		part, ok := event.GetEntry(id).(*eic.Particle)
		if !ok {
			continue
		}
		pdg := part.GetPdg()
		if pdg != 11 && pdg != -11 {
			continue
		}
		charge := -1
		if pdg < 0 {
			charge = 1
		}
		p := part.GetP()
		out = append(out, electronFromMomentum(float64(p.GetX()), float64(p.GetY()), float64(p.GetZ()), charge))
	}
	return out
}
