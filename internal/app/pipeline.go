package app

import (
	"context"
	"log"
	"time"

	"github.com/ayusman/pingpoint/internal/capture"
	"github.com/ayusman/pingpoint/internal/config"
	"github.com/ayusman/pingpoint/internal/detector"
)

// run is the detection loop. Motion only changes the tick rate: every frame
// read is handed to the active detector.
//
//  1. Start at IdleFPS.
//  2. On motion switch to ActiveFPS.
//  3. After IdleTimeout without motion drop back to IdleFPS.
//
// It returns true when ctx ended the loop, leaving the caller to tear the
// session down.
func (s *Session) run(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) (cancelled bool) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(capture.IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return false
		case <-ctx.Done():
			return true
		case <-ticker.C:
			if !s.IsEnabled() {
				continue
			}
			if fps, changed := s.tick(); changed {
				ticker.Reset(time.Second / time.Duration(fps))
			}
		}
	}
}

// tick reads one frame and runs the active detector on it. It returns the
// new frame rate when the cadence changed.
func (s *Session) tick() (fps int, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.tickTime = now

	frame, err := s.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return 0, false
	}
	defer frame.Close()

	if s.cadence != nil {
		fps, changed = s.cadence.Observe(frame, now)
		if changed {
			s.camera.SetFPS(fps)
			s.stateMu.Lock()
			s.fps = fps
			s.stateMu.Unlock()
			if fps == capture.ActiveFPS {
				log.Println("Switched to active mode")
			} else {
				log.Println("Switched to idle mode")
			}
		}
	}

	switch s.mode {
	case config.ModeBall:
		f, err := capture.FrameFromMat(frame)
		if err != nil {
			log.Printf("Error converting frame: %v", err)
			return fps, changed
		}
		s.tracker.Process(f, now)

	case config.ModeGesture:
		if s.hands == nil {
			return fps, changed
		}
		hands, err := s.hands.Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			return fps, changed
		}
		var hand *detector.HandLandmarks
		if len(hands) > 0 {
			hand = &hands[0]
		}
		s.recognizer.Process(hand, now)
	}

	return fps, changed
}
