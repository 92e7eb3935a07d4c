// Command seed generates deterministic synthetic observation history for
// local runs and manual testing. Output is a JSON array of observations,
// hourly samples with a daily temperature cycle, a seasonal cycle, and
// periodic rain.
//
// Usage:
//
//	go run ./cmd/seed -days 90 -city Seattle -lat 47.6062 -lon -122.3321 -out history.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	days := flag.Int("days", 90, "days of hourly history to generate")
	city := flag.String("city", "Seattle", "city name")
	country := flag.String("country", "US", "country code")
	lat := flag.Float64("lat", 47.6062, "latitude")
	lon := flag.Float64("lon", -122.3321, "longitude")
	seed := flag.Int64("seed", 42, "random seed")
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	if *days <= 0 {
		return fmt.Errorf("-days must be positive, got %d", *days)
	}

	loc := domain.Location{Latitude: *lat, Longitude: *lon, City: *city, Country: *country}
	observations := generate(loc, *days, *seed)

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(observations); err != nil {
		return fmt.Errorf("encoding observations: %w", err)
	}
	return nil
}

// generate produces hourly observations ending now, with a 12°C annual
// swing, an 8°C daily swing, and rain roughly every fourth day.
func generate(loc domain.Location, days int, seed int64) []domain.Observation {
	rng := rand.New(rand.NewSource(seed))
	end := time.Now().UTC().Truncate(time.Hour)
	start := end.Add(-time.Duration(days*24) * time.Hour)

	observations := make([]domain.Observation, 0, days*24)
	for ts := start; ts.Before(end); ts = ts.Add(time.Hour) {
		doy := float64(ts.YearDay())
		hour := float64(ts.Hour())

		seasonal := 12 * math.Sin(2*math.Pi*(doy-80)/365.25) // peak mid-July
		daily := 4 * math.Sin(2*math.Pi*(hour-9)/24)         // peak mid-afternoon
		temp := 11 + seasonal + daily + rng.NormFloat64()*1.5

		rainy := (ts.YearDay()%4 == 0) && hour >= 5 && hour <= 11
		precip := 0.0
		condition := "Partly Cloudy"
		if rainy {
			precip = 0.5 + rng.Float64()*2.5
			condition = "Rainy"
		} else if temp > 26 {
			condition = "Sunny"
		} else if temp < 8 {
			condition = "Cloudy"
		}

		observations = append(observations, domain.Observation{
			Location:      loc,
			Timestamp:     ts,
			Temperature:   temp,
			Humidity:      60 + 20*rng.Float64(),
			Pressure:      1013 + rng.NormFloat64()*4,
			WindSpeed:     8 + math.Abs(rng.NormFloat64())*10,
			WindDirection: rng.Float64() * 360,
			Precipitation: precip,
			CloudCover:    30 + 50*rng.Float64(),
			Condition:     condition,
		})
	}
	return observations
}
