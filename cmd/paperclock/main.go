// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// paperclock shows the time, the date, the weather and a sun and moon dial
// on a Waveshare 3.52inch e-paper HAT.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/trace"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/paperclock/almanac"
	"github.com/GermanBionicSystems/paperclock/clockface"
	"github.com/GermanBionicSystems/paperclock/envsensor"
	"github.com/GermanBionicSystems/paperclock/esp01"
	"github.com/GermanBionicSystems/paperclock/preview"
	"github.com/GermanBionicSystems/paperclock/termview"
	"github.com/GermanBionicSystems/paperclock/waveshare3in52"
)

var (
	spiName  = flag.String("spi", "", "SPI port of the panel; empty for the first one")
	i2cName  = flag.String("i2c", "", "I²C bus of the BME280; empty for the first one")
	bmeAddr  = flag.Uint("bme280", 0x76, "I²C address of the BME280; 0 disables the sensor")
	emulate  = flag.Bool("emulate", false, "emulate the panel instead of driving the HAT")
	bind     = flag.String("http", ":8080", "address to bind for the preview, debug and metrics server; empty disables it")
	port     = flag.String("serial", "", "serial port of an ESP-01 to read the time from; empty uses the system clock")
	baud     = flag.Int("baud", 115200, "ESP-01 baud rate")
	ssid     = flag.String("ssid", "", "Wi-Fi network joined by the ESP-01")
	pass     = flag.String("pass", "", "Wi-Fi password")
	resync   = flag.Duration("resync", time.Hour, "interval between ESP-01 time synchronizations")
	zone     = flag.String("tz", almanac.DefaultZone, "IANA time zone of the clock")
	lat      = flag.Float64("lat", 48.8566, "latitude for sunrise and sunset")
	lon      = flag.Float64("lon", 2.3522, "longitude for sunrise and sunset, east positive")
	locale   = flag.String("locale", "fr", "language of the date: fr or en")
	chronyd  = flag.String("chrony", "", "address of the chronyd command port to check, e.g. localhost:323")
	terminal = flag.Bool("term", false, "show the panel on the terminal")
)

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		log.Fatalf("unexpected argument: %s", flag.Args())
	}
	if _, err := host.Init(); err != nil {
		log.Fatalf("init periph.io: %v", err)
	}

	loc, err := time.LoadLocation(*zone)
	if err != nil {
		log.Fatalf("load time zone: %v", err)
	}
	lc, err := clockface.LookupLocale(*locale)
	if err != nil {
		log.Fatal(err)
	}

	var next waveshare3in52.Transport
	if !*emulate {
		p, err := spireg.Open(*spiName)
		if err != nil {
			log.Fatalf("open spi port %q: %v", *spiName, err)
		}
		defer p.Close()
		s, err := waveshare3in52.NewHatSPI(p)
		if err != nil {
			log.Fatalf("init panel transport: %v", err)
		}
		next = &meteredTransport{Transport: s}
	}
	mirror := waveshare3in52.NewMirror(next, &waveshare3in52.EPD3in52)
	dev, err := waveshare3in52.New(mirror, &waveshare3in52.EPD3in52)
	if err != nil {
		log.Fatalf("init panel: %v", err)
	}

	pv := preview.New(&preview.DefaultOpts)
	mirror.OnRefresh(func(img image.Image) {
		_ = pv.Draw(img.Bounds(), img, image.Point{})
	})
	if *terminal {
		tv := termview.New(&termview.DefaultOpts)
		defer tv.Halt()
		mirror.OnRefresh(func(img image.Image) {
			_ = tv.Draw(img.Bounds(), img, image.Point{})
		})
	}

	a := &app{
		dev:  dev,
		face: clockface.New(dev, &clockface.Opts{Locale: lc}),
		loc:  loc,
		lat:  *lat,
		lon:  *lon,
		l:    trace.NewEventLog("paperclock", "update"),
	}
	defer a.l.Finish()

	if *bmeAddr != 0 {
		bus, err := i2creg.Open(*i2cName)
		if err != nil {
			log.Fatalf("open i2c bus %q: %v", *i2cName, err)
		}
		defer bus.Close()
		if a.sensor, err = envsensor.NewBME280(bus, uint16(*bmeAddr)); err != nil {
			log.Fatal(err)
		}
	}

	if *port != "" {
		opts := esp01.DefaultOpts
		d, err := esp01.Open(*port, *baud, &opts)
		if err != nil {
			log.Fatal(err)
		}
		defer d.Close()
		if *ssid != "" {
			if err := d.Join(*ssid, *pass); err != nil {
				log.Fatalf("join %q: %v", *ssid, err)
			}
		}
		a.clock = &networkClock{d: d, maxAge: *resync, l: trace.NewEventLog("service", "esp01")}
	} else {
		a.clock = &systemClock{chrony: *chronyd, l: trace.NewEventLog("service", "chrony")}
	}

	if err := dev.FullRefresh(); err != nil {
		log.Fatalf("clear panel: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpServer := http.Server{Addr: *bind}
	httpDoneCh := make(chan error, 1)
	if *bind != "" {
		http.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/display", http.StatusFound)
		})
		http.Handle("/display", pv)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("http server listening on %s", httpServer.Addr)
			httpDoneCh <- httpServer.ListenAndServe()
		}()
	}

	loopDoneCh := make(chan error, 1)
	go func() {
		loopDoneCh <- a.run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-httpDoneCh:
		log.Printf("http server died: %v", err)
	case err := <-loopDoneCh:
		log.Printf("clock loop died: %v", err)
	case <-sigCh:
		log.Printf("interrupt")
	}
	signal.Stop(sigCh)
	cancel()
	_ = pv.Halt()
	if *bind != "" {
		tctx, c := context.WithTimeout(context.Background(), time.Second)
		_ = httpServer.Shutdown(tctx)
		c()
	}
	// Leave the panel blank rather than frozen on a stale time.
	if err := dev.Halt(); err != nil {
		log.Printf("halt panel: %v", err)
	}
}

// app brings the face up to date once a minute.
type app struct {
	dev    *waveshare3in52.Dev
	face   *clockface.Face
	clock  timeSource
	sensor envsensor.Sensor
	loc    *time.Location
	lat    float64
	lon    float64
	l      trace.EventLog

	env     envsensor.Reading
	lastDay int
}

// run updates the face now and then at the start of every minute until
// the context is cancelled.
func (a *app) run(ctx context.Context) error {
	tickErrCh := make(chan error, 1)
	tickCh := make(chan time.Time)
	go func() {
		tickErrCh <- tick(ctx, tickCh, time.Minute)
	}()
	for {
		if err := a.update(); err != nil {
			log.Printf("update: %v", err)
			a.l.Errorf("update: %v", err)
		}
		select {
		case <-tickCh:
		case err := <-tickErrCh:
			return fmt.Errorf("ticker: %w", err)
		}
	}
}

func (a *app) update() error {
	start := time.Now()
	defer func() {
		updateDuration.Observe(time.Since(start).Seconds())
	}()

	now, err := a.clock.Now()
	if err != nil {
		updateErrors.WithLabelValues("time").Inc()
		return fmt.Errorf("time: %w", err)
	}
	now = now.In(a.loc)
	if a.sensor != nil {
		// A failed reading keeps showing the previous one.
		if r, err := envsensor.Read(a.sensor); err != nil {
			updateErrors.WithLabelValues("sensor").Inc()
			a.l.Errorf("%v", err)
		} else {
			a.env = r
		}
	}
	rise, set := almanac.SunTimes(now, a.lat, a.lon)
	s := clockface.Snapshot{
		Date:      almanac.Local(now, a.loc),
		Env:       a.env,
		Sunrise:   rise,
		Sunset:    set,
		MoonPhase: almanac.MoonPhase(now),
	}

	// A full refresh once a day clears the ghosting left by partial ones.
	if a.lastDay != 0 && a.lastDay != s.Date.Day {
		if err := a.dev.FullRefresh(); err != nil {
			updateErrors.WithLabelValues("panel").Inc()
			return fmt.Errorf("full refresh: %w", err)
		}
		a.face.Reset()
	}
	a.lastDay = s.Date.Day

	if err := a.face.Update(s); err != nil {
		updateErrors.WithLabelValues("panel").Inc()
		return err
	}
	a.l.Printf("%v %v sun %d-%d moon %d", s.Date, s.Env, rise, set, s.MoonPhase)
	return nil
}
