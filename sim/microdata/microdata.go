// Package microdata loads the cleaned person-level survey extract and groups
// it into households. Records are immutable ground truth for the simulation:
// trial state lives elsewhere and is recomputed per trial.
package microdata

import (
	"fmt"
	"sort"

	"github.com/rentsim/rentsim/sim/industry"
)

// EmploymentStatus is the labor-force status reported in the extract.
type EmploymentStatus string

const (
	Employed        EmploymentStatus = "employed"
	Unemployed      EmploymentStatus = "unemployed"
	NotInLaborForce EmploymentStatus = "nilf"
)

// validStatuses registers the accepted employment_status values.
var validStatuses = map[EmploymentStatus]bool{
	Employed: true, Unemployed: true, NotInLaborForce: true,
}

// Person is one row of the extract. Weight is the person-level survey
// expansion factor; WageIncome and the benefit tiers come precomputed from
// the data-preparation stage (a zero regular benefit means the person is
// programmatically ineligible for UI).
type Person struct {
	HouseholdID    string
	PersonID       string
	Weight         float64
	WageIncome     float64 // annual dollars, 0 = no wage income
	Status         EmploymentStatus
	IndustryCode   int
	Industry       industry.Group
	BenefitRegular float64 // monthly dollars
	Benefit600     float64 // monthly dollars, regular + $600 supplement
	Benefit300     float64 // monthly dollars, regular + $300 supplement

	// Household indexes into Dataset.Households, wired by NewDataset.
	Household int
}

// Household carries the household-level fields shared by its members.
// Weight is the household-level survey expansion factor, distinct from the
// member weights.
type Household struct {
	ID        string
	Weight    float64
	Income    float64 // annual dollars, may be negative
	GrossRent float64 // monthly dollars, meaningful only for renters
	Renter    bool
	City      string // empty = not in a tracked city
	County    string // empty = not in a tracked county
	State     string

	// Members indexes into Dataset.Persons, wired by NewDataset.
	Members []int
}

// Dataset is the loaded analysis universe: persons grouped into households,
// with unclassified-industry records already filtered out.
type Dataset struct {
	Persons    []Person
	Households []Household

	// Unclassified counts the person records dropped at load because their
	// industry code fell outside every crosswalk range.
	Unclassified int

	byHousehold map[string]int
}

// NewDataset assembles a dataset from already-grouped records, wiring the
// person-to-household member links in both directions. Every person must
// reference a household present in households; household ids must be unique.
func NewDataset(persons []Person, households []Household) (*Dataset, error) {
	byID := make(map[string]int, len(households))
	for i := range households {
		h := &households[i]
		if _, dup := byID[h.ID]; dup {
			return nil, fmt.Errorf("duplicate household id %q", h.ID)
		}
		byID[h.ID] = i
		h.Members = nil
	}
	for i := range persons {
		p := &persons[i]
		hi, ok := byID[p.HouseholdID]
		if !ok {
			return nil, fmt.Errorf("person %q references unknown household %q", p.PersonID, p.HouseholdID)
		}
		p.Household = hi
		households[hi].Members = append(households[hi].Members, i)
	}
	return &Dataset{Persons: persons, Households: households, byHousehold: byID}, nil
}

// HouseholdByID returns the household record for an id.
func (d *Dataset) HouseholdByID(id string) (*Household, bool) {
	i, ok := d.byHousehold[id]
	if !ok {
		return nil, false
	}
	return &d.Households[i], true
}

// IndustryGroups returns the distinct sector groups observed across persons,
// in ascending code order. Used to fail fast when the rate table has gaps.
func (d *Dataset) IndustryGroups() []industry.Group {
	seen := make(map[industry.Group]bool)
	for i := range d.Persons {
		seen[d.Persons[i].Industry] = true
	}
	groups := make([]industry.Group, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups
}

// RenterHouseholds counts households flagged as renters.
func (d *Dataset) RenterHouseholds() int {
	n := 0
	for i := range d.Households {
		if d.Households[i].Renter {
			n++
		}
	}
	return n
}
