package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"arklift/internal/protocol"
)

//go:embed scenario.schema.json
var schemaSrc []byte

var schema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("scenario.schema.json", bytes.NewReader(schemaSrc)); err != nil {
		panic(fmt.Sprintf("scenario schema: %v", err))
	}
	return c.MustCompile("scenario.schema.json")
}

// Helper declares one roster slot: a role and the strategy that fills it.
type Helper struct {
	Kind     protocol.Kind `json:"kind"`
	Strategy string        `json:"strategy"`
}

// Scenario is the per-run setup: turn budget, ark position, helper roster,
// and the wild populations to scatter. World constants stay in tuning.
type Scenario struct {
	Name       string         `json:"name"`
	TotalTurns int            `json:"total_turns"`
	Seed       int64          `json:"seed"`
	Ark        [2]int         `json:"ark"`
	Helpers    []Helper       `json:"helpers"`
	Species    map[string]int `json:"species"` // species id (decimal string) -> population
}

// Load reads, schema-validates, and decodes a scenario file. Structural
// problems are caught by the schema before unmarshalling.
func Load(path string) (Scenario, error) {
	var s Scenario
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return s, fmt.Errorf("scenario %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return s, fmt.Errorf("scenario %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Populations converts the species map to integer ids, in ascending order
// of id when iterated via sorted keys.
func (s Scenario) Populations() (map[int]int, error) {
	out := make(map[int]int, len(s.Species))
	for key, count := range s.Species {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("species id %q: %w", key, err)
		}
		out[id] = count
	}
	return out, nil
}

// SpeciesIDs returns the declared species ids in ascending order.
func (s Scenario) SpeciesIDs() []int {
	ids := make([]int, 0, len(s.Species))
	for key := range s.Species {
		if id, err := strconv.Atoi(key); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
