package output

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/iwvelando/study-estimator/internal/estimator"
)

// Document is the JSON shape of a rendered estimate.
type Document struct {
	Header
	Result estimator.EstimationResult `json:"result"`
}

// JSONFormat writes the estimate as indented JSON. When sections excludes
// SectionCost the cost breakdown is dropped; when it excludes SectionBuses
// the load and equipment details are dropped.
func JSONFormat(w io.Writer, header Header, result estimator.EstimationResult, sections Section) error {
	if sections&SectionCost == 0 {
		result.Cost = nil
	}
	if sections&SectionBuses == 0 {
		result.Loads = estimator.LoadProfile{}
		result.Equipment = estimator.EquipmentCounts{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Document{Header: header, Result: result})
}
