// Command cvfilterd serves the filter method channel over stdin/stdout.
//
// Each input line is a JSON request such as
//
//	{"id":1,"method":"apply","args":{"type":"deuteranopia","intensity":0.6}}
//
// and each output line is the matching response.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alex-vit/cvfilter/filter"
	"github.com/alex-vit/cvfilter/internal/channel"
	"github.com/alex-vit/cvfilter/internal/magnify"
	"github.com/alex-vit/cvfilter/internal/preview"
)

type isoLogWriter struct{ w io.Writer }

func (lw isoLogWriter) Write(p []byte) (int, error) {
	return fmt.Fprintf(lw.w, "%s %s", time.Now().Format("2006-01-02 15:04:05"), p)
}

func main() {
	sinkName := flag.String("sink", "preview", "output surface: preview or magnify")
	imagePath := flag.String("image", "", "source image for the preview sink (default: built-in color chart)")
	outPath := flag.String("out", "cvfilter-preview.png", "PNG written by the preview sink")
	width := flag.Int("width", 640, "maximum preview width in pixels")
	flag.Parse()

	// stdout carries responses; logs go to stderr.
	log.SetFlags(0)
	log.SetOutput(isoLogWriter{os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout, *sinkName, *imagePath, *outPath, *width); err != nil {
		log.Printf("cvfilterd: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer, sinkName, imagePath, outPath string, width int) error {
	var (
		sink  filter.Sink
		perms channel.Permissions = channel.NoPermissions{}
	)
	switch sinkName {
	case "preview":
		src := preview.Chart(16, 8, 40)
		if imagePath != "" {
			img, err := preview.Load(imagePath, width)
			if err != nil {
				return err
			}
			src = img
		} else {
			src = preview.Fit(src, width)
		}
		sink = preview.NewSink(src, outPath)
	case "magnify":
		ms, err := magnify.New()
		if err != nil {
			return fmt.Errorf("magnify: %w", err)
		}
		defer ms.Close()
		sink = ms
		perms = magnify.Permissions{}
	default:
		return fmt.Errorf("unknown sink %q", sinkName)
	}

	ctrl := filter.NewController(sink)
	defer func() {
		if err := ctrl.Close(); err != nil {
			log.Printf("cvfilterd: close: %v", err)
		}
	}()

	log.Printf("cvfilterd: serving on stdin with %s sink", sinkName)
	err := channel.Serve(ctx, in, out, channel.NewHandler(ctrl, perms))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
