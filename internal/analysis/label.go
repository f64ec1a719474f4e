package analysis

// Threshold maps an inclusive lower score bound to a label.
type Threshold struct {
	Min   float64
	Label string
}

// Threshold tables are ordered descending; DeriveLabel picks the first band
// whose lower bound the score reaches. The final band must start at 0 so
// every score in [0,1] lands somewhere.
var (
	TextThresholds = []Threshold{
		{Min: 0.7, Label: "Harmful Content"},
		{Min: 0.5, Label: "Potential Propaganda"},
		{Min: 0.3, Label: "Suspicious"},
		{Min: 0, Label: "Safe"},
	}

	ImageThresholds = []Threshold{
		{Min: 0.8, Label: "Harmful Meme"},
		{Min: 0.6, Label: "Suspected Propaganda"},
		{Min: 0.4, Label: "Requires Review"},
		{Min: 0, Label: "Safe"},
	}
)

// DeriveLabel is a pure step function from score to label.
func DeriveLabel(score float64, table []Threshold) string {
	for _, t := range table {
		if score >= t.Min {
			return t.Label
		}
	}
	return table[len(table)-1].Label
}
