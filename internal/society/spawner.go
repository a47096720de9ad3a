// Founding population and name generation.
package society

import (
	"math"
	"math/rand"
)

// Namer produces person names. The simulation treats naming as an outside
// concern; PoolNamer is the built-in implementation.
type Namer interface {
	FullName(sex Sex) string
	GivenName(sex Sex) string
}

// PoolNamer draws names from fixed pools with its own random stream.
type PoolNamer struct {
	rng *rand.Rand
}

// NewPoolNamer creates a namer drawing from rng.
func NewPoolNamer(rng *rand.Rand) *PoolNamer {
	return &PoolNamer{rng: rng}
}

// GivenName returns a first name for the given sex.
func (n *PoolNamer) GivenName(sex Sex) string {
	if sex == SexFemale {
		return femaleNames[n.rng.Intn(len(femaleNames))]
	}
	return maleNames[n.rng.Intn(len(maleNames))]
}

// FullName returns "Given Surname".
func (n *PoolNamer) FullName(sex Sex) string {
	return n.GivenName(sex) + " " + surnames[n.rng.Intn(len(surnames))]
}

// ChooseAge maps a founder's index to an age on a bell curve (mean 32.5,
// sd 4.5) clamped to [10, 65]. It is deterministic in num so founding
// populations have the same shape whatever the seed.
func ChooseAge(num, peoplePerDistrict int) int {
	if peoplePerDistrict <= 0 {
		peoplePerDistrict = 1
	}
	seed := float64((num * 320) % peoplePerDistrict)
	n := float64(peoplePerDistrict)
	u1 := (seed + 1) / (n + 1)
	u2 := (seed + 2) / (n + 2)
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	age := int(math.Round(32.5 + 4.5*z))
	if age < 10 {
		return 10
	}
	if age > 65 {
		return 65
	}
	return age
}

// SpawnFounders fills every district with count founders of alternating sex.
func (pop *Population) SpawnFounders(count int, namer Namer) error {
	for _, d := range pop.Districts {
		for i := 0; i < count; i++ {
			sex := SexFemale
			if i%2 == 1 {
				sex = SexMale
			}
			if _, err := pop.AddPerson(namer.FullName(sex), sex, ChooseAge(i, count), d.Type, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

var maleNames = []string{
	"Abel", "Bastian", "Caius", "Dashiell", "Emory", "Felix", "Gideon",
	"Hollis", "Ignatius", "Jonas", "Kellan", "Lucan", "Marius", "Nolan",
	"Orrin", "Porter", "Quentin", "Rufus", "Silas", "Tobias", "Urban",
	"Vance", "Warrick", "Xavier", "Yates", "Zeke", "Ansel", "Brock",
	"Cyrus", "Darius", "Elias", "Flint", "Grady", "Hale", "Jasper",
}

var femaleNames = []string{
	"Adaline", "Bryony", "Clover", "Delphine", "Esme", "Fleur", "Gemma",
	"Hazel", "Imogen", "Juniper", "Keira", "Lark", "Marlowe", "Nola",
	"Opal", "Primrose", "Quilla", "Rosalind", "Sable", "Tamsin", "Ursa",
	"Violet", "Wynn", "Xanthe", "Yvaine", "Zinnia", "Aurelia", "Briar",
	"Cressida", "Dove", "Elowen", "Fern", "Greer", "Honor", "Ivy",
}

var surnames = []string{
	"Abernathy", "Bellweather", "Crane", "Dunmore", "Elsworth", "Fairbanks",
	"Garrow", "Hawthorne", "Ives", "Jessup", "Kilgore", "Lockwood",
	"Merriwether", "Norbury", "Oakley", "Penhallow", "Quimby", "Rutherford",
	"Sallow", "Thistlewood", "Underhill", "Vantage", "Whitlock", "Yardley",
	"Ashgrove", "Blackmoor", "Cartwright", "Dalloway", "Emberley", "Foxworth",
}
