package main

import (
	"math"
	"math/rand/v2"
	"time"
)

const metersPerDegree = 111_320.0

// walker двигает водителя по случайной ломаной с плавными поворотами.
type walker struct {
	lat, lng float64
	heading  float64 // градусы, 0 - север
	speed    float64 // м/с
	rnd      *rand.Rand
}

func newWalker(lat, lng float64, seed uint64) *walker {
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &walker{
		lat:     lat,
		lng:     lng,
		heading: rnd.Float64() * 360,
		speed:   8 + rnd.Float64()*6,
		rnd:     rnd,
	}
}

func (w *walker) step(dt time.Duration) {
	w.heading = math.Mod(w.heading+(w.rnd.Float64()-0.5)*30+360, 360)
	w.speed = math.Max(0, math.Min(20, w.speed+(w.rnd.Float64()-0.5)*2))

	dist := w.speed * dt.Seconds()
	rad := w.heading * math.Pi / 180

	w.lat += dist * math.Cos(rad) / metersPerDegree
	w.lng += dist * math.Sin(rad) / (metersPerDegree * math.Cos(w.lat*math.Pi/180))

	w.lat = math.Max(-89.9, math.Min(89.9, w.lat))
	if w.lng > 180 {
		w.lng -= 360
	} else if w.lng < -180 {
		w.lng += 360
	}
}
