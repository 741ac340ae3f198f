package memory

import (
	"math"
	"math/rand"
	"time"

	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/domain/position"
)

// Synthetic demo data. These generators back the demo backend and the
// loaders' soft-fail fallback, so everything is drawn from a seeded stream:
// equal seed and reference date reproduce the exact same tables.

const (
	DemoContractCount = 50
	demoWyscoutIDBase = 100001
)

var DemoClubs = []string{
	"Nacional",
	"Peñarol",
	"Defensor Sporting",
	"Wanderers",
	"Liverpool",
	"Danubio",
}

var demoSeasons = []string{"2022", "2023", "2024"}

var demoPlayerNames = []string{
	"Santiago Pereira",
	"Agustín Cabrera",
	"Mateo Fernández",
	"Bruno Techera",
	"Facundo Silva",
	"Diego Olivera",
	"Nicolás Acosta",
	"Emiliano Castro",
	"Rodrigo Viera",
	"Franco Morales",
	"Gonzalo Duarte",
	"Lucas Píriz",
	"Martín Barrios",
	"Joaquín Sosa",
	"Federico Núñez",
	"Maximiliano Gómez",
	"Sebastián Cardozo",
	"Ignacio Ramírez",
	"Matías Arrieta",
	"Thiago Bentancur",
	"Manuel Olivera",
	"Leandro Perdomo",
	"Kevin Barreto",
	"Alfonso Coelho",
}

var demoPositions = []string{
	"GK", "CB", "CB", "RB", "LB", "RWB",
	"DMF", "CMF", "CMF", "AMF",
	"CF", "CF", "ST", "RW", "LW",
}

// SeedContracts generates the demo contracts table: every row is active at
// the reference date by construction, matching the working-table semantics
// of a real load.
func SeedContracts(seed int64, now time.Time) []contract.Contract {
	rng := rand.New(rand.NewSource(seed))
	out := make([]contract.Contract, 0, DemoContractCount)

	for i := 0; i < DemoContractCount; i++ {
		rawPos := demoPositions[rng.Intn(len(demoPositions))]
		start := now.AddDate(0, 0, -(30 + rng.Intn(4*365)))
		end := now.AddDate(0, 0, 30+rng.Intn(3*365))
		salary := math.Round((2000+rng.Float64()*18000)/100) * 100

		c := contract.Contract{
			Player:        demoPlayerNames[rng.Intn(len(demoPlayerNames))],
			Club:          DemoClubs[rng.Intn(len(DemoClubs))],
			RawPosition:   rawPos,
			Category:      position.Classify(rawPos),
			StartDate:     start,
			EndDate:       end,
			MonthlySalary: salary,
			ReleaseClause: math.Round(salary * (20 + rng.Float64()*40)),
		}
		c.Derive(now)
		out = append(out, c)
	}

	return out
}

// SeedPerformance generates the demo performance table: one row per player
// per season, goals skewed by position. xG and xA stay zero so the load
// pipeline exercises the synthetic estimator on demo data too.
func SeedPerformance(seed int64) []playerstats.Record {
	rng := rand.New(rand.NewSource(seed))
	out := make([]playerstats.Record, 0, len(demoPlayerNames)*len(demoSeasons))

	for i, name := range demoPlayerNames {
		rawPos := demoPositions[i%len(demoPositions)]
		category := position.Classify(rawPos)
		club := DemoClubs[i%len(DemoClubs)]
		age := 18 + rng.Intn(17)

		for _, season := range demoSeasons {
			// Occasional mid-career transfer keeps multi-team players in
			// the accumulated view.
			if rng.Float64() < 0.15 {
				club = DemoClubs[rng.Intn(len(DemoClubs))]
			}

			minutes := 400 + rng.Intn(2300)
			goals := goalsFor(category, rng)
			out = append(out, playerstats.Record{
				WyscoutID:   int64(demoWyscoutIDBase + i),
				Player:      name,
				Team:        club,
				RawPosition: rawPos,
				Category:    category,
				Age:         age,
				Season:      season,
				Minutes:     minutes,
				Goals:       goals,
				Assists:     rng.Intn(9),
				Shots:       goals*2 + rng.Intn(25),
			})
		}
	}

	return out
}

func goalsFor(category position.Category, rng *rand.Rand) int {
	switch category {
	case position.CategoryForward:
		return rng.Intn(19)
	case position.CategoryMidfielder:
		return rng.Intn(9)
	case position.CategoryDefender:
		return rng.Intn(4)
	default:
		return rng.Intn(2)
	}
}
