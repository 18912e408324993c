package testkit

import (
	"math"
	"math/rand"

	"farmstat/domain/dataset"
)

// DefaultFarmCount is the size of a generated study.
const DefaultFarmCount = 200

// GeneratorConfig configures the farm generator
type GeneratorConfig struct {
	Seed      int64 `json:"seed"`
	FarmCount int   `json:"farm_count"`
}

// DefaultGeneratorConfig returns the standard 200-farm study for seed.
func DefaultGeneratorConfig(seed int64) GeneratorConfig {
	return GeneratorConfig{Seed: seed, FarmCount: DefaultFarmCount}
}

// FarmGenerator draws synthetic farm records from a seeded stream. There is no real
// treatment effect in the data: yield is independent of every other field.
type FarmGenerator struct {
	config GeneratorConfig
}

// NewFarmGenerator creates a new farm generator
func NewFarmGenerator(config GeneratorConfig) *FarmGenerator {
	if config.FarmCount <= 0 {
		config.FarmCount = DefaultFarmCount
	}
	return &FarmGenerator{config: config}
}

// Generate returns a fresh dataset. Calls with the same config return equal data.
func (g *FarmGenerator) Generate() dataset.Dataset {
	rng := newLCG(g.config.Seed)
	farms := make(dataset.Dataset, 0, g.config.FarmCount)

	for i := 1; i <= g.config.FarmCount; i++ {
		farm := dataset.Record{FarmID: i}
		if rng.next() > 0.5 {
			farm.UsesGrowMax = 1
		}
		farm.YieldKgPerHectare = math.Max(1200, rng.nextNormal(2500, 400))
		farm.CropType = rng.nextChoice(dataset.CropTypes)
		farm.SoilType = rng.nextChoice(dataset.SoilTypes)
		farm.Irrigation = rng.nextChoice(dataset.IrrigationTypes)
		farm.RainfallMM = math.Max(300, rng.nextNormal(800, 200))
		farm.AltitudeM = math.Max(50, rng.nextNormal(500, 150))
		farm.FarmSizeHectares = math.Max(1, rng.nextNormal(10, 4))
		farm.YearsSinceRotation = rng.nextInt(1, 5)
		farm.AvgMarchTempC = math.Max(15, rng.nextNormal(28, 5))

		farm.YieldKgPerHectare = roundTo(farm.YieldKgPerHectare, 0)
		farm.RainfallMM = roundTo(farm.RainfallMM, 0)
		farm.AltitudeM = roundTo(farm.AltitudeM, 0)
		farm.FarmSizeHectares = roundTo(farm.FarmSizeHectares, 1)
		farm.AvgMarchTempC = roundTo(farm.AvgMarchTempC, 1)

		farms = append(farms, farm)
	}

	return farms
}

// GenerateFarms is shorthand for a default-sized study.
func GenerateFarms(seed int64) dataset.Dataset {
	return NewFarmGenerator(DefaultGeneratorConfig(seed)).Generate()
}

// NewSeed picks a random seed in [0, 1000000).
func NewSeed() int64 {
	return rand.Int63n(1_000_000)
}
