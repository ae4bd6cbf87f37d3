// Command flx4leds runs the built-in LED animations on a connected
// DDJ-FLX4.
package main

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	flx4 "github.com/TRC-Loop/flx4go"
	"github.com/TRC-Loop/flx4go/midiport"
)

func main() {
	demo := flag.String("demo", "wave", "animation: wave, knight, breathing, pingpong, sparkle, rainbow")
	duration := flag.Duration("duration", 10*time.Second, "how long to run the animation")
	keyword := flag.String("port", flx4.DefaultPortKeyword, "substring of the controller's MIDI port names")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	c, err := flx4.Open(
		flx4.WithPortKeyword(*keyword),
		flx4.WithLogger(logger.Sugar()),
	)
	if err != nil {
		logger.Sugar().Fatal(err)
	}
	defer midiport.CloseDriver()

	c.Start()
	defer c.Stop()

	leds := c.LEDs
	switch *demo {
	case "wave":
		err = leds.AnimateWave(*duration, 60*time.Millisecond)
	case "knight":
		err = leds.AnimateKnightRider(*duration, 50*time.Millisecond)
	case "breathing":
		err = leds.AnimateBreathing(*duration, 2*time.Second)
	case "pingpong":
		err = leds.AnimatePingPong(*duration, 50*time.Millisecond)
	case "sparkle":
		err = leds.AnimateSparkle(*duration, 80*time.Millisecond)
	case "rainbow":
		err = leds.AnimateRainbowChase(*duration, 80*time.Millisecond)
	default:
		logger.Sugar().Fatalf("unknown demo %q", *demo)
	}
	if err != nil {
		logger.Sugar().Fatalf("animation failed: %v", err)
	}
}
