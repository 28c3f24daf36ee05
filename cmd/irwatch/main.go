// irwatch replays infrared pulse captures through the decoder and logs the
// codes it finds. Input is mode2-style lines ("pulse 9000" / "space 4500",
// or "+9000" / "-4500", microseconds) from a file, a serial-attached pulse
// logger, or stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"

	"github.com/lodann/irrx"
)

func main() {
	var (
		file     = flag.String("file", "", "capture file to replay (defaults to stdin)")
		port     = flag.String("port", "", "serial port delivering capture lines")
		baud     = flag.Int("baud", 115200, "serial baud rate")
		logLevel = flag.String("log-level", "info", "log level (debug traces the matcher chain)")
	)
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to parse log level")
	}
	logrus.SetLevel(level)
	log := logrus.StandardLogger()

	in, err := openInput(*file, *port, *baud)
	if err != nil {
		log.WithError(err).Fatal("Failed to open capture input")
	}

	if err := watch(in, log); err != nil {
		log.WithError(err).Fatal("Replay failed")
	}
}

func openInput(file, port string, baud int) (io.Reader, error) {
	switch {
	case file != "" && port != "":
		return nil, fmt.Errorf("-file and -port are mutually exclusive")
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open capture file: %w", err)
		}
		return f, nil
	case port != "":
		s, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud})
		if err != nil {
			return nil, fmt.Errorf("open serial port: %w", err)
		}
		return s, nil
	default:
		return os.Stdin, nil
	}
}

func watch(in io.Reader, log *logrus.Logger) error {
	active := false
	rx := irrx.New(func() bool { return active })
	if log.IsLevelEnabled(logrus.DebugLevel) {
		rx.SetTrace(traceLogger{log})
	}

	// run holds the level for us microseconds of sampler ticks. A frame is
	// reported the moment it completes, so the remainder of its trailing
	// gap counts toward the next frame, as it would live.
	run := func(mark bool, us int) {
		// capture timeouts can be absurdly long; beyond the frame gap
		// they add nothing, so cap them to keep replay quick
		if us > 4*irrx.GapUS {
			us = 4 * irrx.GapUS
		}
		active = mark
		for t := 0; t < us; t += irrx.TickUS {
			rx.Sample()
			if rx.Ready() {
				report(rx, log)
			}
		}
	}

	// lead-in: the decoder needs the gap that preceded the first frame
	run(false, 2*irrx.GapUS)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		mark, us, ok := parseLine(sc.Text())
		if ok {
			run(mark, us)
		}
	}
	// flush a frame with no recorded trailing gap
	run(false, 2*irrx.GapUS)
	return sc.Err()
}

func parseLine(line string) (mark bool, us int, ok bool) {
	line = strings.TrimSpace(line)
	var v string
	switch {
	case line == "" || strings.HasPrefix(line, "#"):
		return false, 0, false
	case strings.HasPrefix(line, "pulse "):
		mark, v = true, line[len("pulse "):]
	case strings.HasPrefix(line, "space "):
		mark, v = false, line[len("space "):]
	case strings.HasPrefix(line, "timeout "):
		mark, v = false, line[len("timeout "):]
	case strings.HasPrefix(line, "+"):
		mark, v = true, line[1:]
	case strings.HasPrefix(line, "-"):
		mark, v = false, line[1:]
	default:
		return false, 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return false, 0, false
	}
	return mark, n, true
}

func report(rx *irrx.Receiver, log *logrus.Logger) {
	if !rx.Ready() {
		return
	}
	code, ok := rx.Decode()
	if !ok {
		log.Debug("Frame too short to decode, discarding")
		rx.Reset()
		return
	}
	log.WithFields(logrus.Fields{
		"protocol": code.Proto.String(),
		"value":    fmt.Sprintf("%#x", code.Value),
		"bits":     code.Bits,
		"repeat":   code.IsRepeat,
	}).Info("Decoded frame")
	rx.Reset()
}

// traceLogger adapts the decode engine's Trace hooks to logrus debug output.
type traceLogger struct {
	log *logrus.Logger
}

func (t traceLogger) Enter(p irrx.Protocol) {
	t.log.WithField("matcher", p.String()).Debug("Trying matcher")
}

func (t traceLogger) Reject(p irrx.Protocol) {
	t.log.WithField("matcher", p.String()).Debug("No match")
}

func (t traceLogger) Accept(c irrx.Code) {
	t.log.WithFields(logrus.Fields{
		"matcher": c.Proto.String(),
		"bits":    c.Bits,
	}).Debug("Matched")
}
