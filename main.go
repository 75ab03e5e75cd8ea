// Command qrcode-positioning reads frames from a camera or video file, finds
// the three finder patterns of a QR symbol in each frame and decodes it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaochangyu/qrcode-positioning/internal/capture"
	"github.com/gaochangyu/qrcode-positioning/internal/config"
	"github.com/gaochangyu/qrcode-positioning/internal/decode"
	"github.com/gaochangyu/qrcode-positioning/internal/logging"
	"github.com/gaochangyu/qrcode-positioning/internal/render"
	"github.com/gaochangyu/qrcode-positioning/internal/scanner"
	"github.com/gaochangyu/qrcode-positioning/internal/version"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

const appName = "qrcode-positioning"

// maxReadFailures ends a camera session after this many consecutive
// failed reads.
const maxReadFailures = 100

func main() {
	configPath := flag.String("config", "", "Config file (default ~/.config/qrcode-positioning/config.json)")
	videoPath := flag.String("video", "", "Read frames from a video file instead of the camera")
	debug := flag.Bool("debug", false, "Show debug windows with tuning trackbars")
	saveConfig := flag.Bool("save-config", false, "Write the effective config back to its file and exit")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}
	if *saveConfig {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", cfg.Path())
		return
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	log.Infof("Starting %s %s", appName, version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *videoPath, log); err != nil {
		log.WithError(err).Error("scan loop failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, videoPath string, log *logrus.Logger) error {
	current := func() *config.Config { return cfg }
	if w, err := config.Watch(cfg, log); err != nil {
		log.WithError(err).Warn("config changes will not be picked up")
	} else {
		defer w.Close()
		current = w.Current
	}

	var src capture.Source
	var err error
	if videoPath != "" {
		src, err = capture.OpenVideo(videoPath)
	} else {
		src, err = capture.OpenCamera(cfg.Camera.Device, cfg.Camera.Width, cfg.Camera.Height)
	}
	if err != nil {
		return err
	}
	defer src.Close()

	decoderName := cfg.Decoder
	dec, err := decode.New(decoderName)
	if err != nil {
		return err
	}
	s := scanner.New(cfg.Scanner, dec, log)

	var dbg *render.Debug
	var overlay *render.Overlay
	if cfg.Debug {
		dbg = render.NewDebug(cfg.Scanner)
		defer dbg.Close()
		overlay = &render.Overlay{}
		s.Sink = overlay
		s.KeepImages = true
	}

	frame := gocv.NewMat()
	defer frame.Close()

	failures := 0
	for ctx.Err() == nil {
		if !src.Read(&frame) || frame.Empty() {
			if videoPath != "" {
				log.Info("end of video")
				return nil
			}
			failures++
			if failures >= maxReadFailures {
				return fmt.Errorf("camera stopped delivering frames")
			}
			continue
		}
		failures = 0

		c := current()
		if c.Decoder != decoderName {
			next, err := decode.New(c.Decoder)
			if err != nil {
				log.WithError(err).Warn("keeping previous decoder")
			} else {
				dec, decoderName = next, c.Decoder
				s.Decoder = dec
			}
		}
		s.Params = c.Scanner
		if dbg != nil {
			s.Params = dbg.Params(c.Scanner)
			overlay.Reset()
		}

		res, err := s.ScanFrame(frame)
		if err != nil {
			log.WithError(err).Warn("frame skipped")
			if dbg != nil {
				if key := dbg.Show(frame, nil, overlay); key == 'q' || key == 27 {
					return nil
				}
			}
			continue
		}

		if dbg != nil {
			key := dbg.Show(frame, res, overlay)
			res.Close()
			if key == 'q' || key == 27 {
				return nil
			}
		}
	}
	return nil
}
