package data

import (
	"fmt"
	"math/rand"
	"strconv"
)

var (
	maleFirst   = []string{"Owen", "William", "James", "John", "Thomas", "Henry", "Charles", "George"}
	femaleFirst = []string{"Laina", "Florence", "Lily", "Mary", "Anna", "Elizabeth", "Margaret", "Alice"}
	surnames    = []string{"Braund", "Cumings", "Heikkinen", "Futrelle", "Allen", "Moran", "McCarthy", "Palsson", "Johnson", "Nasser"}
	decks       = []string{"A", "B", "C", "D", "E", "F", "G"}
	ports       = []string{"S", "S", "S", "S", "S", "S", "C", "C", "Q"}
)

// GenerateSyntheticPassengers returns n labelled passengers shaped like the
// Titanic training set, including the usual gaps in Age, Cabin and Embarked.
func GenerateSyntheticPassengers(n int, seed int64) []Passenger {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Passenger, 0, n)
	for i := 0; i < n; i++ {
		pclass := 3
		switch r := rng.Float64(); {
		case r < 0.24:
			pclass = 1
		case r < 0.45:
			pclass = 2
		}
		sex := "male"
		if rng.Float64() < 0.35 {
			sex = "female"
		}
		first := maleFirst[rng.Intn(len(maleFirst))]
		title := "Mr."
		if sex == "female" {
			first = femaleFirst[rng.Intn(len(femaleFirst))]
			title = "Mrs."
		}
		name := fmt.Sprintf("%s, %s %s", surnames[rng.Intn(len(surnames))], title, first)

		age := float64(rng.Intn(70) + 1)
		var agePtr *float64
		if rng.Float64() >= 0.2 {
			agePtr = &age
		}
		sibsp := 0
		if rng.Float64() < 0.3 {
			sibsp = rng.Intn(4) + 1
		}
		parch := 0
		if rng.Float64() < 0.25 {
			parch = rng.Intn(3) + 1
		}
		fare := 7.25 + rng.Float64()*15
		switch pclass {
		case 1:
			fare = 30 + rng.Float64()*200
		case 2:
			fare = 10 + rng.Float64()*30
		}
		fare = float64(int(fare*10000)) / 10000
		fareCopy := fare

		cabin := ""
		if pclass == 1 || rng.Float64() < 0.08 {
			cabin = decks[rng.Intn(len(decks))] + strconv.Itoa(rng.Intn(120)+1)
		}
		embarked := ports[rng.Intn(len(ports))]
		if rng.Float64() < 0.005 {
			embarked = ""
		}

		score := 0.15
		if sex == "female" {
			score += 0.5
		}
		if pclass == 1 {
			score += 0.2
		} else if pclass == 2 {
			score += 0.1
		}
		if agePtr != nil && age < 12 {
			score += 0.2
		}
		if sibsp > 2 {
			score -= 0.1
		}
		survived := 0
		if rng.Float64() < score {
			survived = 1
		}

		out = append(out, Passenger{
			PassengerID: i + 1,
			Survived:    &survived,
			Pclass:      pclass,
			Name:        name,
			Sex:         sex,
			Age:         agePtr,
			SibSp:       sibsp,
			Parch:       parch,
			Ticket:      fmt.Sprintf("%d", 100000+rng.Intn(900000)),
			Fare:        &fareCopy,
			Cabin:       cabin,
			Embarked:    embarked,
		})
	}
	return out
}

// WriteSyntheticPassengers generates n passengers and writes them to outPath.
func WriteSyntheticPassengers(n int, seed int64, outPath string) error {
	return WriteCSV(outPath, PassengerTable(GenerateSyntheticPassengers(n, seed)))
}
