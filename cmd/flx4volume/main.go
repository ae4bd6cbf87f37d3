// Command flx4volume monitors a fader on the DDJ-FLX4 and mirrors it onto
// the channel VU meter, logging every change. It is the wiring template
// for a real volume-control integration; hook the knob callback up to your
// platform's audio API.
//
// Configuration is read from flx4volume.yaml in the working directory or
// from FLX4_* environment variables:
//
//	port_keyword: FLX4
//	control: CH_FADER
//	deck: 1
package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	flx4 "github.com/TRC-Loop/flx4go"
	"github.com/TRC-Loop/flx4go/midiport"
)

func main() {
	v := viper.New()
	v.SetConfigName("flx4volume")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("FLX4")
	v.AutomaticEnv()
	v.SetDefault("port_keyword", flx4.DefaultPortKeyword)
	v.SetDefault("control", flx4.ControlChFader)
	v.SetDefault("deck", 1)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("reading config: %v", err)
		}
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	c, err := flx4.Open(
		flx4.WithPortKeyword(v.GetString("port_keyword")),
		flx4.WithLogger(sugar),
	)
	if err != nil {
		sugar.Fatal(err)
	}
	defer midiport.CloseDriver()

	control := v.GetString("control")
	deck := v.GetInt("deck")

	c.OnKnob(func(e flx4.KnobEvent) {
		sugar.Infow("volume changed", "control", e.Name, "deck", e.Deck, "value", e.Value)
		if err := c.LEDs.SetLevelMeter(deck, e.Value); err != nil {
			sugar.Warnw("level meter", "error", err)
		}
	}, flx4.FilterName(control), flx4.FilterDeck(deck))

	c.OnButton(func(e flx4.ButtonEvent) {
		if err := c.LEDs.SetButton(flx4.ButtonMasterCue, e.Pressed, flx4.DeckGlobal, false); err != nil {
			sugar.Warnw("button LED", "error", err)
		}
	}, flx4.FilterName(flx4.ButtonMasterCue), flx4.FilterShifted(false))

	go func() {
		for err := range c.Errors() {
			sugar.Warnw("subscriber failure", "error", err)
		}
	}()

	c.Start()
	sugar.Infof("listening; move the %s fader on deck %d (ctrl-c to quit)", control, deck)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	if err := c.LEDs.AllOff(); err != nil {
		sugar.Warnw("all off", "error", err)
	}
	c.Stop()
}
