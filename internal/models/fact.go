package models

// OpMultiply is the only operation in the fact catalog.
const OpMultiply = "*"

type Fact struct {
	ID int64  `json:"id"`
	A  int    `json:"a"`
	B  int    `json:"b"`
	Op string `json:"op"`
}

// Product returns the expected answer for the fact.
func (f Fact) Product() int {
	return f.A * f.B
}

// FactOrder selects the ordering used when listing facts.
type FactOrder string

const (
	FactOrderCanonical FactOrder = "canonical" // a ASC, b ASC
	FactOrderID        FactOrder = "id"
)

type WordProblem struct {
	Problem  string `json:"problem"`
	Operands [2]int `json:"operands"`
	Op       string `json:"op"`
	Theme    string `json:"theme"`
}
