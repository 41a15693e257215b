package formula

import (
	"math"

	"github.com/Stanislas-Motte/COT-Tool/internal/dataset"
)

type numberNode struct {
	value float64
}

func (n *numberNode) eval(rowReader) float64 { return n.value }

type columnNode struct {
	name string
}

func (n *columnNode) eval(row rowReader) float64 { return row(n.name) }

type negNode struct {
	inner exprNode
}

func (n *negNode) eval(row rowReader) float64 { return -n.inner.eval(row) }

type binaryNode struct {
	op          string
	left, right exprNode
}

func (n *binaryNode) eval(row rowReader) float64 {
	l := n.left.eval(row)
	r := n.right.eval(row)
	switch n.op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	default:
		// Division by zero or by a missing value poisons this row only,
		// never the whole series.
		if r == 0 {
			return math.NaN()
		}
		return l / r
	}
}

type callNode struct {
	fn   string
	args []exprNode
}

func (n *callNode) eval(row rowReader) float64 {
	switch n.fn {
	case "abs":
		return math.Abs(n.args[0].eval(row))
	case "round":
		return math.Round(n.args[0].eval(row))
	case "min":
		v := n.args[0].eval(row)
		for _, a := range n.args[1:] {
			v = math.Min(v, a.eval(row))
		}
		return v
	case "max":
		v := n.args[0].eval(row)
		for _, a := range n.args[1:] {
			v = math.Max(v, a.eval(row))
		}
		return v
	default: // sum
		v := 0.0
		for _, a := range n.args {
			v += a.eval(row)
		}
		return v
	}
}

// EvaluateSeries parses a validated, translated formula and evaluates it
// row-wise over the dataset. The result is aligned with the dataset: one
// value per row, NaN where a row's inputs are missing or divide by zero.
// Exactly one of the returns is set.
func EvaluateSeries(translated string, ds *dataset.Dataset) ([]float64, *Error) {
	node, err := Parse(translated)
	if err != nil {
		return nil, evaluationError(err)
	}

	n := ds.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		row := func(column string) float64 {
			values, ok := ds.Column(column)
			if !ok || i >= len(values) {
				return math.NaN()
			}
			return values[i]
		}
		out[i] = node.eval(row)
	}
	return out, nil
}
